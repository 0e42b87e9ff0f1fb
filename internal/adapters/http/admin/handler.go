package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appadmin "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/admin"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	httperrors "github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http/middleware"
)

// Handler bridges the staff panel routes with the admin application service.
type Handler struct {
	service *appadmin.Service
	log     *slog.Logger
}

func NewHandler(service *appadmin.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// List handles GET /api/admin/reclamos.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := claim.ListFilter{
		Page:   atoiOr(q.Get("page"), 0),
		Limit:  atoiOr(q.Get("limit"), 0),
		Estado: strings.TrimSpace(q.Get("estado")),
		Search: strings.TrimSpace(q.Get("search")),
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    result,
	}, h.log)
}

// Detail handles GET /api/admin/reclamos/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    view,
	}, h.log)
}

type changeStatusRequest struct {
	Estado     string `json:"estado"`
	Comentario string `json:"comentario"`
}

// ChangeStatus handles PUT /api/admin/reclamos/{id}/estado.
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}

	err := h.service.ChangeStatus(r.Context(), actor, chi.URLParam(r, "id"), claim.Status(req.Estado), strings.TrimSpace(req.Comentario))
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Message: "Estado actualizado exitosamente",
	}, h.log)
}

type respondRequest struct {
	RespuestaEmpresa     string `json:"respuesta_empresa"`
	AccionTomada         string `json:"accion_tomada"`
	CompensacionOfrecida string `json:"compensacion_ofrecida"`
}

// Respond handles POST /api/admin/reclamos/{id}/respuesta.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}

	err := h.service.Respond(r.Context(), actor, chi.URLParam(r, "id"), appadmin.RespondInput{
		RespuestaEmpresa:     req.RespuestaEmpresa,
		AccionTomada:         strings.TrimSpace(req.AccionTomada),
		CompensacionOfrecida: strings.TrimSpace(req.CompensacionOfrecida),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Message: "Respuesta registrada exitosamente",
	}, h.log)
}

type staffMessageRequest struct {
	Mensaje string `json:"mensaje"`
}

// AddMessage handles POST /api/admin/reclamos/{id}/mensaje.
func (h *Handler) AddMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req staffMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", "", h.log)
		return
	}

	if err := h.service.AddStaffMessage(r.Context(), actor, chi.URLParam(r, "id"), req.Mensaje); err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusCreated, httperrors.SuccessResponse{
		Success: true,
		Message: "Mensaje enviado exitosamente",
	}, h.log)
}

// Stats handles GET /api/admin/dashboard/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    stats,
	}, h.log)
}

// actor resolves the authenticated staff identity placed by the JWT
// middleware.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (appadmin.Actor, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperrors.WriteError(w, http.StatusUnauthorized, "Token de autorización requerido", "", h.log)
		return appadmin.Actor{}, false
	}
	return appadmin.Actor{
		ID:        u.ID,
		Email:     u.Email,
		Rol:       u.Rol,
		IPAddress: clientIP(r),
	}, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appadmin.ErrForbidden):
		httperrors.WriteError(w, http.StatusForbidden, "No tiene permisos para cerrar reclamos", "", h.log)
	case errors.Is(err, claim.ErrValidation):
		httperrors.WriteError(w, http.StatusBadRequest, userMessage(err, claim.ErrValidation), "", h.log)
	case errors.Is(err, claim.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Reclamo no encontrado", "", h.log)
	case errors.Is(err, claim.ErrConflict):
		httperrors.WriteError(w, http.StatusConflict, "El reclamo ya tiene una respuesta registrada", "", h.log)
	default:
		h.log.Error("unhandled admin error", "error", err)
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

func atoiOr(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
