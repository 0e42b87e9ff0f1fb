package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appadmin "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/admin"
	appclaim "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/claim"
	apphealth "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/health"
	appnotif "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/notification"
	appuser "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/testutil"
)

type nopNotifier struct{}

func (nopNotifier) Enqueue(appnotif.Job) {}

func testConfig() config.AppConfig {
	return config.AppConfig{
		App: config.AppSettings{
			Name:        "libro-reclamaciones",
			Version:     "test",
			Environment: "test",
			FrontendURL: "http://localhost:4321",
		},
		HTTP: config.HTTPSettings{
			Port:         3001,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Auth: config.AuthSettings{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
		},
	}
}

func testOptions() Options {
	log := testutil.NewTestLogger()
	claimRepo := &testutil.MockClaimRepository{}
	userRepo := &testutil.MockUserRepository{}
	return Options{
		Config: testConfig(),
		Logger: log,
		Claims: appclaim.NewService(claimRepo, nopNotifier{}, log),
		Admin:  appadmin.NewService(claimRepo, log),
		Users:  appuser.NewService(userRepo, log),
		Health: apphealth.NewService(apphealth.Metadata{Service: "test", Version: "test", Environment: "test"}, nil),
	}
}

func TestNew_NilLogger(t *testing.T) {
	opts := testOptions()
	opts.Logger = nil

	_, err := New(opts)
	if err == nil {
		t.Fatal("expected error for nil logger")
	}
	if err.Error() != "logger is required" {
		t.Errorf("expected error 'logger is required', got %q", err.Error())
	}
}

func TestNew_MissingServices(t *testing.T) {
	opts := testOptions()
	opts.Admin = nil

	_, err := New(opts)
	if err == nil {
		t.Fatal("expected error for missing services")
	}
}

func TestNew_ValidOptions(t *testing.T) {
	server, err := New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.httpServer.Addr != ":3001" {
		t.Errorf("unexpected addr: %s", server.httpServer.Addr)
	}
}

func TestRouting(t *testing.T) {
	server, err := New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	handler := server.httpServer.Handler

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health is open", http.MethodGet, "/health", http.StatusOK},
		{"api health alias", http.MethodGet, "/api/health", http.StatusOK},
		{"public lookup misses", http.MethodGet, "/api/reclamos/CODEPLEX-2026-00001", http.StatusNotFound},
		{"admin listing needs token", http.MethodGet, "/api/admin/reclamos", http.StatusUnauthorized},
		{"stats need token", http.MethodGet, "/api/admin/dashboard/stats", http.StatusUnauthorized},
		{"users need token", http.MethodGet, "/api/admin/usuarios", http.StatusUnauthorized},
		{"preflight is answered", http.MethodOptions, "/api/reclamos", http.StatusNoContent},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	server, err := New(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.httpServer.Handler.ServeHTTP(w, req)

	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "http://localhost:4321" {
		t.Errorf("unexpected allowed origin: %q", origin)
	}
}
