package claim

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appclaim "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	httperrors "github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/security"
)

// Handler bridges the public HTTP surface with the claim application service.
type Handler struct {
	service      *appclaim.Service
	log          *slog.Logger
	exposeDetail bool
}

// NewHandler creates a new public claim HTTP handler. exposeDetail turns on
// diagnostic error details, meant for development only.
func NewHandler(service *appclaim.Service, log *slog.Logger, exposeDetail bool) *Handler {
	return &Handler{service: service, log: log, exposeDetail: exposeDetail}
}

// maxSubmissionBytes bounds the intake body. Signatures arrive as base64
// PNG data, so the limit is generous.
const maxSubmissionBytes = 2 << 20

// Create handles POST /api/reclamos.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", h.detail(err), h.log)
		return
	}

	var sub claim.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", h.detail(err), h.log)
		return
	}

	created, err := h.service.CreateClaim(r.Context(), &sub, claim.Meta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if errors.Is(err, claim.ErrValidation) {
			h.log.Debug("claim submission rejected",
				"error", err,
				"payload", security.SanitizeBody(body, 64*1024))
		}
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusCreated, httperrors.SuccessResponse{
		Success: true,
		Message: "Reclamo registrado exitosamente",
		Data:    created,
	}, h.log)
}

// GetByCode handles GET /api/reclamos/{codigo}.
func (h *Handler) GetByCode(w http.ResponseWriter, r *http.Request) {
	codigo := chi.URLParam(r, "codigo")

	c, err := h.service.GetByCode(r.Context(), codigo)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    c,
	}, h.log)
}

// Signature handles GET /api/reclamos/{codigo}/firma, serving the stored
// signature as a PNG.
func (h *Handler) Signature(w http.ResponseWriter, r *http.Request) {
	codigo := chi.URLParam(r, "codigo")

	image, err := h.service.SignatureImage(r.Context(), codigo)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		h.log.Error("error writing signature image", "codigo", codigo, "error", err)
	}
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    data,
	}, h.log)
}

// Track handles GET /api/seguimiento/{codigo}?documento=.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	codigo := chi.URLParam(r, "codigo")
	documento := strings.TrimSpace(r.URL.Query().Get("documento"))

	view, err := h.service.Track(r.Context(), codigo, documento)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, httperrors.SuccessResponse{
		Success: true,
		Data:    view,
	}, h.log)
}

type messageRequest struct {
	NumeroDocumento string `json:"numero_documento"`
	Mensaje         string `json:"mensaje"`
}

// AddMessage handles POST /api/seguimiento/{codigo}/mensaje.
func (h *Handler) AddMessage(w http.ResponseWriter, r *http.Request) {
	codigo := chi.URLParam(r, "codigo")

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Cuerpo de la petición inválido", h.detail(err), h.log)
		return
	}

	if err := h.service.AddConsumerMessage(r.Context(), codigo, strings.TrimSpace(req.NumeroDocumento), req.Mensaje); err != nil {
		h.writeError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusCreated, httperrors.SuccessResponse{
		Success: true,
		Message: "Mensaje enviado exitosamente",
	}, h.log)
}

// writeError maps domain errors to the HTTP envelope.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, claim.ErrValidation):
		httperrors.WriteError(w, http.StatusBadRequest, userMessage(err, claim.ErrValidation), "", h.log)
	case errors.Is(err, claim.ErrNotFound):
		httperrors.WriteError(w, http.StatusNotFound, "Reclamo no encontrado", "", h.log)
	default:
		h.log.Error("unhandled claim error", "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", h.detail(err), h.log)
	}
}

func (h *Handler) detail(err error) string {
	if h.exposeDetail && err != nil {
		return err.Error()
	}
	return ""
}

// userMessage strips the sentinel prefix so the consumer sees only the
// specific rule that failed.
func userMessage(err, sentinel error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return trimmed
	}
	return msg
}

// clientIP resolves the caller address, preferring the proxy headers set by
// the deployment's reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
