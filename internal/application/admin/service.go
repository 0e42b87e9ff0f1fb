package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// ErrForbidden marks a role-gate rejection.
var ErrForbidden = errors.New("No tiene permisos para cerrar reclamos")

// Actor is the authenticated staff member performing an action.
type Actor struct {
	ID        string
	Email     string
	Rol       claim.Role
	IPAddress string
}

// Service covers the staff triage use cases.
type Service struct {
	repo claim.Repository
	log  *slog.Logger
}

func NewService(repo claim.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns a page of claims with pagination metadata.
func (s *Service) List(ctx context.Context, filter claim.ListFilter) (*ListResult, error) {
	filter.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	result := &ListResult{
		Data: make([]ListRow, 0, len(items)),
		Pagination: Pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
			HasNext:    filter.Page < totalPages,
			HasPrev:    filter.Page > 1,
		},
	}
	for _, it := range items {
		result.Data = append(result.Data, ListRow{
			ID:                   it.ID,
			CodigoReclamo:        it.Codigo,
			TipoSolicitud:        string(it.TipoSolicitud),
			Estado:               string(it.Estado),
			NombreCompleto:       it.NombreCompleto,
			Email:                it.Email,
			Telefono:             it.Telefono,
			DescripcionBien:      it.DescripcionBien,
			FechaRegistro:        it.FechaRegistro,
			FechaLimiteRespuesta: it.FechaLimiteRespuesta,
			DiasRestantes:        it.DiasRestantes,
			NombreAdminAtendio:   it.NombreAdminAtendio,
		})
	}
	return result, nil
}

// Detail returns the full, unredacted claim for the admin panel.
func (s *Service) Detail(ctx context.Context, id string) (*DetailView, error) {
	c, resp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return detailFrom(c, resp), nil
}

// ChangeStatus moves a claim to a new lifecycle state, honoring the role
// gate, and records history plus the staff audit trail.
func (s *Service) ChangeStatus(ctx context.Context, actor Actor, id string, estado claim.Status, comentario string) error {
	if !claim.ValidStatus(estado) {
		return fmt.Errorf("%w: Estado inválido", claim.ErrValidation)
	}
	if !claim.CanSetStatus(actor.Rol, estado) {
		return ErrForbidden
	}

	anterior, err := s.repo.UpdateStatus(ctx, id, estado)
	if err != nil {
		return err
	}

	estadoAnterior := string(anterior)
	var comentarioPtr *string
	if comentario != "" {
		comentarioPtr = &comentario
	}
	if err := s.repo.AddHistory(ctx, id, claim.HistoryEntry{
		EstadoAnterior: &estadoAnterior,
		EstadoNuevo:    string(estado),
		TipoAccion:     claim.ActionCambioEstado,
		Comentario:     comentarioPtr,
		UsuarioAccion:  actor.ID,
	}); err != nil {
		s.log.Error("error registrando historial", "claim_id", id, "error", err)
	}

	s.audit(ctx, claim.AuditEntry{
		UsuarioID: actor.ID,
		Accion:    "CAMBIO_ESTADO",
		Entidad:   "RECLAMO",
		EntidadID: id,
		Detalles:  fmt.Sprintf(`{"estado_anterior":%q,"estado_nuevo":%q}`, estadoAnterior, estado),
		IPAddress: actor.IPAddress,
	})

	return nil
}

// RespondInput is the one-time company response payload.
type RespondInput struct {
	RespuestaEmpresa     string
	AccionTomada         string
	CompensacionOfrecida string
}

// Respond records the single company response, resolves the claim, and
// stamps who attended it. A second response fails with ErrConflict.
func (s *Service) Respond(ctx context.Context, actor Actor, id string, in RespondInput) error {
	if len(strings.TrimSpace(in.RespuestaEmpresa)) < claim.MinResponseLen {
		return fmt.Errorf("%w: La respuesta debe tener al menos %d caracteres", claim.ErrValidation, claim.MinResponseLen)
	}

	resp := &claim.Response{
		RespuestaEmpresa: in.RespuestaEmpresa,
		RespondidoPor:    actor.Email,
	}
	if in.AccionTomada != "" {
		resp.AccionTomada = &in.AccionTomada
	}
	if in.CompensacionOfrecida != "" {
		resp.CompensacionOfrecida = &in.CompensacionOfrecida
	}

	if err := s.repo.SaveResponse(ctx, id, resp, actor.ID); err != nil {
		return err
	}

	comentario := "Respuesta enviada por la empresa"
	if err := s.repo.AddHistory(ctx, id, claim.HistoryEntry{
		EstadoNuevo:   string(claim.StatusResuelto),
		TipoAccion:    claim.ActionRespuesta,
		Comentario:    &comentario,
		UsuarioAccion: actor.Email,
	}); err != nil {
		s.log.Error("error registrando historial de respuesta", "claim_id", id, "error", err)
	}

	s.audit(ctx, claim.AuditEntry{
		UsuarioID: actor.ID,
		Accion:    "RESPONDER",
		Entidad:   "RECLAMO",
		EntidadID: id,
		IPAddress: actor.IPAddress,
	})

	return nil
}

// AddStaffMessage appends a company message to the tracking thread.
func (s *Service) AddStaffMessage(ctx context.Context, actor Actor, id, mensaje string) error {
	mensaje = strings.TrimSpace(mensaje)
	if mensaje == "" || len(mensaje) > claim.MaxMessageLen {
		return fmt.Errorf("%w: Mensaje inválido (máx %d caracteres)", claim.ErrValidation, claim.MaxMessageLen)
	}

	c, _, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.AddMessage(ctx, c.ID, claim.MessageFromEmpresa, mensaje); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	comentario := "Mensaje enviado por la empresa"
	if err := s.repo.AddHistory(ctx, c.ID, claim.HistoryEntry{
		EstadoNuevo:   string(c.Estado),
		TipoAccion:    claim.ActionMensajeEmpresa,
		Comentario:    &comentario,
		UsuarioAccion: actor.Email,
	}); err != nil {
		s.log.Error("error registrando historial de mensaje", "claim_id", c.ID, "error", err)
	}

	return nil
}

// Stats returns the aggregate statistics for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*StatsView, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return &StatsView{
		TotalReclamos:          stats.TotalReclamos,
		Pendientes:             stats.Pendientes,
		EnProceso:              stats.EnProceso,
		Resueltos:              stats.Resueltos,
		Cerrados:               stats.Cerrados,
		ReclamosHoy:            stats.ReclamosHoy,
		ReclamosSemana:         stats.ReclamosSemana,
		ReclamosMes:            stats.ReclamosMes,
		PromedioDiasResolucion: stats.PromedioDiasResolucion,
	}, nil
}

// audit failures never break the staff operation; they are logged and
// dropped.
func (s *Service) audit(ctx context.Context, entry claim.AuditEntry) {
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.repo.AddAudit(auditCtx, entry); err != nil {
		s.log.Error("error registrando auditoría", "accion", entry.Accion, "entidad_id", entry.EntidadID, "error", err)
	}
}
