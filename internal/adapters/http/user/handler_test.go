package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	appuser "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http/middleware"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/testutil"
)

func newRouter(t *testing.T, repo *testutil.MockUserRepository) (*chi.Mux, *middleware.JWTAuthenticator) {
	t.Helper()
	log := testutil.NewTestLogger()
	jwt := middleware.NewJWTAuthenticator(config.AuthSettings{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, log)
	handler := NewHandler(appuser.NewService(repo, log), log)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwt.Middleware)
		r.Use(jwt.RequireAdmin)
		r.Get("/api/admin/usuarios", handler.List)
		r.Post("/api/admin/usuarios", handler.Create)
		r.Put("/api/admin/usuarios/{id}", handler.Update)
		r.Put("/api/admin/usuarios/{id}/password", handler.SetPassword)
	})
	return r, jwt
}

func bearer(t *testing.T, jwt *middleware.JWTAuthenticator, rol claim.Role) string {
	t.Helper()
	token, _, err := jwt.Issue("user-1", "admin@codeplex.pe", rol)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestHandler_List_SoporteForbidden(t *testing.T) {
	router, jwt := newRouter(t, &testutil.MockUserRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/usuarios", nil)
	req.Header.Set("Authorization", bearer(t, jwt, claim.RoleSoporte))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestHandler_List_HidesPasswordHash(t *testing.T) {
	repo := &testutil.MockUserRepository{
		ListFunc: func(ctx context.Context) ([]user.User, error) {
			return []user.User{{
				ID:             "user-9",
				Email:          "soporte@codeplex.pe",
				PasswordHash:   "$2a$10$secret",
				NombreCompleto: "Soporte Uno",
				Rol:            claim.RoleSoporte,
				Activo:         true,
			}}, nil
		},
	}
	router, jwt := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/usuarios", nil)
	req.Header.Set("Authorization", bearer(t, jwt, claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("password hash must never leave the admin API")
	}

	var response struct {
		Data []struct {
			Email string `json:"email"`
			Rol   string `json:"rol"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Data) != 1 || response.Data[0].Email != "soporte@codeplex.pe" {
		t.Errorf("unexpected listing: %+v", response.Data)
	}
}

func TestHandler_Create(t *testing.T) {
	repo := &testutil.MockUserRepository{
		CreateFunc: func(ctx context.Context, u *user.User) (string, error) {
			return "new-id", nil
		},
	}
	router, jwt := newRouter(t, repo)

	body, _ := json.Marshal(map[string]string{
		"email":           "nuevo@codeplex.pe",
		"password":        "secreto123",
		"nombre_completo": "Nuevo Usuario",
		"rol":             "SOPORTE",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/usuarios", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, jwt, claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_Create_DuplicateEmail(t *testing.T) {
	repo := &testutil.MockUserRepository{
		CreateFunc: func(ctx context.Context, u *user.User) (string, error) {
			return "", user.ErrDuplicateEmail
		},
	}
	router, jwt := newRouter(t, repo)

	body, _ := json.Marshal(map[string]string{
		"email":           "repetido@codeplex.pe",
		"password":        "secreto123",
		"nombre_completo": "Repetido",
		"rol":             "ADMIN",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/usuarios", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, jwt, claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestHandler_SetPassword_TooShort(t *testing.T) {
	router, jwt := newRouter(t, &testutil.MockUserRepository{})

	body, _ := json.Marshal(map[string]any{"password": "corta"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/usuarios/user-9/password", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, jwt, claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
