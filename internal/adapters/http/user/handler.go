package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	appuser "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
	httperrors "github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http"
)

// Handler serves the staff account management routes. All of them sit
// behind the ADMIN role gate.
type Handler struct {
	service *appuser.Service
	log     *slog.Logger
}

func NewHandler(service *appuser.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// accountView is a staff account without its credential material.
type accountView struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	NombreCompleto      string     `json:"nombre_completo"`
	Rol                 string     `json:"rol"`
	Activo              bool       `json:"activo"`
	DebeCambiarPassword bool       `json:"debe_cambiar_password"`
	UltimoAcceso        *time.Time `json:"ultimo_acceso"`
	FechaCreacion       time.Time  `json:"fecha_creacion"`
}

// List handles GET /api/admin/usuarios.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]accountView, 0, len(users))
	for _, u := range users {
		views = append(views, accountView{
			ID:                  u.ID,
			Email:               u.Email,
			NombreCompleto:      u.NombreCompleto,
			Rol:                 string(u.Rol),
			Activo:              u.Activo,
			DebeCambiarPassword: u.DebeCambiarPassword,
			UltimoAcceso:        u.UltimoAcceso,
			FechaCreacion:       u.FechaCreacion,
		})
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    views,
	}, h.log)
}

type createRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	NombreCompleto string `json:"nombre_completo"`
	Rol            string `json:"rol"`
}

// Create handles POST /api/admin/usuarios.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}

	id, err := h.service.Create(r.Context(), user.NewAccount{
		Email:          req.Email,
		Password:       req.Password,
		NombreCompleto: strings.TrimSpace(req.NombreCompleto),
		Rol:            claim.Role(req.Rol),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusCreated, httperrors.SuccessResponse{
		Success: true,
		Message: "Usuario creado exitosamente",
		Data:    map[string]string{"id": id},
	}, h.log)
}

type updateRequest struct {
	NombreCompleto *string `json:"nombre_completo"`
	Rol            *string `json:"rol"`
	Activo         *bool   `json:"activo"`
}

// Update handles PUT /api/admin/usuarios/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}

	upd := user.AccountUpdate{
		NombreCompleto: req.NombreCompleto,
		Activo:         req.Activo,
	}
	if req.Rol != nil {
		rol := claim.Role(*req.Rol)
		upd.Rol = &rol
	}

	if err := h.service.Update(r.Context(), chi.URLParam(r, "id"), upd); err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Message: "Usuario actualizado exitosamente",
	}, h.log)
}

type passwordRequest struct {
	Password            string `json:"password"`
	DebeCambiarPassword bool   `json:"debe_cambiar_password"`
}

// SetPassword handles PUT /api/admin/usuarios/{id}/password.
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}

	if err := h.service.SetPassword(r.Context(), chi.URLParam(r, "id"), req.Password, req.DebeCambiarPassword); err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Message: "Contraseña actualizada exitosamente",
	}, h.log)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claim.ErrValidation):
		httperrors.WriteError(w, http.StatusBadRequest, userMessage(err, claim.ErrValidation), "", h.log)
	case errors.Is(err, user.ErrDuplicateEmail):
		httperrors.WriteError(w, http.StatusConflict, "Ya existe un usuario con ese email", "", h.log)
	case errors.Is(err, user.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Usuario no encontrado", "", h.log)
	default:
		h.log.Error("unhandled user error", "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", "", h.log)
	}
}

func userMessage(err, sentinel error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return trimmed
	}
	return msg
}
