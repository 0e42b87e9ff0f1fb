package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	appuser "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
	httperrors "github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http/middleware"
)

// Handler serves the admin panel login.
type Handler struct {
	users *appuser.Service
	jwt   *middleware.JWTAuthenticator
	log   *slog.Logger
}

func NewHandler(users *appuser.Service, jwt *middleware.JWTAuthenticator, log *slog.Logger) *Handler {
	return &Handler{users: users, jwt: jwt, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	NombreCompleto      string `json:"nombre_completo"`
	Rol                 string `json:"rol"`
	DebeCambiarPassword bool   `json:"debe_cambiar_password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	User      loginUser `json:"user"`
	ExpiresIn int64     `json:"expires_in"`
}

// Login handles POST /api/admin/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}
	if req.Email == "" || req.Password == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Email y contraseña son requeridos", "", h.log)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			httperrors.WriteError(w, http.StatusUnauthorized, "Credenciales inválidas", "", h.log)
		case errors.Is(err, user.ErrInactive):
			httperrors.WriteError(w, http.StatusUnauthorized, "Usuario desactivado", "", h.log)
		default:
			h.log.Error("login failed", "error", err)
			httperrors.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", "", h.log)
		}
		return
	}

	token, ttl, err := h.jwt.Issue(u.ID, u.Email, u.Rol)
	if err != nil {
		h.log.Error("error issuing token", "user_id", u.ID, "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", "", h.log)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Message: "Inicio de sesión exitoso",
		Data: loginResponse{
			Token: token,
			User: loginUser{
				ID:                  u.ID,
				Email:               u.Email,
				NombreCompleto:      u.NombreCompleto,
				Rol:                 string(u.Rol),
				DebeCambiarPassword: u.DebeCambiarPassword,
			},
			ExpiresIn: int64(ttl.Seconds()),
		},
	}, h.log)
}
