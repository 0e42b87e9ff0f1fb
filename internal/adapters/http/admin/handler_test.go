package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	appadmin "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/admin"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http/middleware"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/testutil"
)

// newRouter wires the handler behind the real JWT middleware, the way the
// server mounts it.
func newRouter(t *testing.T, repo *testutil.MockClaimRepository) (*chi.Mux, *middleware.JWTAuthenticator) {
	t.Helper()
	log := testutil.NewTestLogger()
	jwt := middleware.NewJWTAuthenticator(config.AuthSettings{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, log)
	handler := NewHandler(appadmin.NewService(repo, log), log)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwt.Middleware)
		r.Get("/api/admin/reclamos", handler.List)
		r.Get("/api/admin/reclamos/{id}", handler.Detail)
		r.Put("/api/admin/reclamos/{id}/estado", handler.ChangeStatus)
		r.Post("/api/admin/reclamos/{id}/respuesta", handler.Respond)
		r.Post("/api/admin/reclamos/{id}/mensaje", handler.AddMessage)
		r.Get("/api/admin/dashboard/stats", handler.Stats)
	})
	return r, jwt
}

func bearer(t *testing.T, jwt *middleware.JWTAuthenticator, id, email string, rol claim.Role) string {
	t.Helper()
	token, _, err := jwt.Issue(id, email, rol)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestHandler_List_RequiresToken(t *testing.T) {
	router, _ := newRouter(t, &testutil.MockClaimRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reclamos", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestHandler_List_ForwardsFilters(t *testing.T) {
	var gotFilter claim.ListFilter
	repo := &testutil.MockClaimRepository{
		ListFunc: func(ctx context.Context, filter claim.ListFilter) ([]claim.ListItem, int64, error) {
			gotFilter = filter
			return []claim.ListItem{}, 0, nil
		},
	}
	router, jwt := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reclamos?page=2&limit=10&estado=PENDIENTE&search=juan", nil)
	req.Header.Set("Authorization", bearer(t, jwt, "user-1", "admin@codeplex.pe", claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotFilter.Page != 2 || gotFilter.Limit != 10 {
		t.Errorf("unexpected paging: %+v", gotFilter)
	}
	if gotFilter.Estado != "PENDIENTE" || gotFilter.Search != "juan" {
		t.Errorf("unexpected filters: %+v", gotFilter)
	}
}

func TestHandler_ChangeStatus_SoporteCannotClose(t *testing.T) {
	var updated bool
	repo := &testutil.MockClaimRepository{
		UpdateStatusFunc: func(ctx context.Context, id string, estado claim.Status) (claim.Status, error) {
			updated = true
			return claim.StatusPendiente, nil
		},
	}
	router, jwt := newRouter(t, repo)

	body, _ := json.Marshal(map[string]string{"estado": "CERRADO"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/reclamos/claim-1/estado", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, jwt, "user-2", "soporte@codeplex.pe", claim.RoleSoporte))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
	if updated {
		t.Error("rejected transition must not reach the store")
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Message != "No tiene permisos para cerrar reclamos" {
		t.Errorf("unexpected message: %q", response.Message)
	}
}

func TestHandler_ChangeStatus_AdminCloses(t *testing.T) {
	repo := &testutil.MockClaimRepository{
		UpdateStatusFunc: func(ctx context.Context, id string, estado claim.Status) (claim.Status, error) {
			return claim.StatusResuelto, nil
		},
	}
	router, jwt := newRouter(t, repo)

	body, _ := json.Marshal(map[string]string{"estado": "CERRADO"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/reclamos/claim-1/estado", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, jwt, "user-1", "admin@codeplex.pe", claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_Respond_Conflict(t *testing.T) {
	repo := &testutil.MockClaimRepository{
		SaveResponseFunc: func(ctx context.Context, id string, resp *claim.Response, atendidoPor string) error {
			return claim.ErrConflict
		},
	}
	router, jwt := newRouter(t, repo)

	body, _ := json.Marshal(map[string]string{"respuesta_empresa": "Ya atendimos este reclamo anteriormente."})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/reclamos/claim-1/respuesta", bytes.NewBuffer(body))
	req.Header.Set("Authorization", bearer(t, jwt, "user-1", "admin@codeplex.pe", claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestHandler_Stats(t *testing.T) {
	repo := &testutil.MockClaimRepository{
		StatsFunc: func(ctx context.Context) (*claim.AdminStats, error) {
			return &claim.AdminStats{TotalReclamos: 12, Pendientes: 4}, nil
		},
	}
	router, jwt := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", bearer(t, jwt, "user-1", "admin@codeplex.pe", claim.RoleAdmin))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response struct {
		Data struct {
			TotalReclamos int64 `json:"total_reclamos"`
			Pendientes    int64 `json:"pendientes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.TotalReclamos != 12 || response.Data.Pendientes != 4 {
		t.Errorf("unexpected stats: %+v", response.Data)
	}
}
