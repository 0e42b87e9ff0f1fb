package claim

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	appnotif "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/notification"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// Notifier enqueues a best-effort notification job. Satisfied by the
// notification dispatcher.
type Notifier interface {
	Enqueue(job appnotif.Job)
}

// Service orchestrates the public intake and lookup use cases.
type Service struct {
	repo     claim.Repository
	notifier Notifier
	log      *slog.Logger
}

func NewService(repo claim.Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

// CreateClaim validates and persists a submission, then hands off the
// history entry and the notification emails. Everything after the commit
// is best effort: the submitter already holds a durable tracking code.
func (s *Service) CreateClaim(ctx context.Context, sub *claim.Submission, meta claim.Meta) (*CreatedResponse, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, sub, meta)
	if err != nil {
		return nil, fmt.Errorf("persist claim: %w", err)
	}

	s.recordCreation(created.ID, meta)

	s.notifier.Enqueue(appnotif.Job{
		Kind:       appnotif.JobClaimCreated,
		Created:    *created,
		Submission: *sub,
		Codigo:     created.Codigo,
	})

	return &CreatedResponse{
		CodigoReclamo:        created.Codigo,
		FechaRegistro:        created.FechaRegistro,
		FechaLimiteRespuesta: created.FechaLimiteRespuesta,
		PlazoDias:            claim.ResponseDeadlineDays,
	}, nil
}

// recordCreation appends the CREACION history entry outside the request
// path. The claim is already committed; a lost entry only thins the audit
// trail, so failures are logged and dropped.
func (s *Service) recordCreation(claimID string, meta claim.Meta) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		comentario := "Reclamo registrado por el consumidor"
		err := s.repo.AddHistory(ctx, claimID, claim.HistoryEntry{
			EstadoNuevo:   string(claim.StatusPendiente),
			TipoAccion:    claim.ActionCreacion,
			Comentario:    &comentario,
			UsuarioAccion: "CLIENTE",
			IPAddress:     meta.IPAddress,
			UserAgent:     meta.UserAgent,
		})
		if err != nil {
			s.log.Error("error registrando historial de creación", "claim_id", claimID, "error", err)
		}
	}()
}

// GetByCode returns the redacted public view of a claim.
func (s *Service) GetByCode(ctx context.Context, codigo string) (*PublicClaim, error) {
	c, resp, err := s.repo.FindByCode(ctx, codigo)
	if err != nil {
		return nil, err
	}
	return publicClaimFrom(c, resp), nil
}

// SignatureImage decodes the stored data-URI signature into PNG bytes.
func (s *Service) SignatureImage(ctx context.Context, codigo string) ([]byte, error) {
	firma, err := s.repo.Signature(ctx, codigo)
	if err != nil {
		return nil, err
	}

	parts := strings.SplitN(firma, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: formato de firma inválido", claim.ErrValidation)
	}

	image, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: error decodificando firma", claim.ErrValidation)
	}
	return image, nil
}

// Dashboard returns the public counters plus the most urgent pending claims.
func (s *Service) Dashboard(ctx context.Context) (*DashboardData, error) {
	stats, pending, err := s.repo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	out := &DashboardData{
		Estadisticas: DashboardStats{
			Pendientes:    stats.Pendientes,
			EnProceso:     stats.EnProceso,
			Resueltos:     stats.Resueltos,
			Vencidos:      stats.Vencidos,
			TotalReclamos: stats.TotalReclamos,
			TotalQuejas:   stats.TotalQuejas,
			Total:         stats.Total,
		},
		Pendientes: make([]PendingSummary, 0, len(pending)),
	}
	for _, p := range pending {
		out.Pendientes = append(out.Pendientes, PendingSummary{
			ID:                   p.ID,
			CodigoReclamo:        p.Codigo,
			TipoSolicitud:        string(p.TipoSolicitud),
			NombreCompleto:       p.NombreCompleto,
			Email:                p.Email,
			FechaRegistro:        p.FechaRegistro,
			FechaLimiteRespuesta: p.FechaLimiteRespuesta,
			DiasRestantes:        p.DiasRestantes,
			Prioridad:            p.Prioridad,
		})
	}
	return out, nil
}

// Track builds the consumer case file. The tracking code alone is not
// enough: the caller must also present the document number the claim was
// filed under, and a mismatch reads as not found.
func (s *Service) Track(ctx context.Context, codigo, documento string) (*TrackingView, error) {
	if documento == "" {
		return nil, fmt.Errorf("%w: Número de documento requerido", claim.ErrValidation)
	}

	c, resp, err := s.repo.FindForTracking(ctx, codigo, documento)
	if err != nil {
		return nil, err
	}

	view := &TrackingView{
		Reclamo: TrackingClaim{
			ID:                   c.ID,
			CodigoReclamo:        c.Codigo,
			TipoSolicitud:        string(c.TipoSolicitud),
			Estado:               string(c.Estado),
			NombreCompleto:       c.NombreCompleto,
			NumeroDocumento:      c.NumeroDocumento,
			Email:                c.Email,
			Telefono:             c.Telefono,
			DescripcionBien:      c.DescripcionBien,
			DetalleReclamo:       c.DetalleReclamo,
			PedidoConsumidor:     c.PedidoConsumidor,
			FechaRegistro:        c.FechaRegistro,
			FechaLimiteRespuesta: c.FechaLimiteRespuesta,
			DiasRestantes:        diasRestantes(c.FechaLimiteRespuesta),
		},
		Historial: []TrackingEvent{},
		Mensajes:  []TrackingMessage{},
	}

	if resp != nil {
		view.Respuesta = &TrackingResponse{
			RespuestaEmpresa: resp.RespuestaEmpresa,
			RespondidoPor:    resp.RespondidoPor,
			FechaRespuesta:   resp.FechaRespuesta,
		}
	}

	historial, err := s.repo.History(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for _, h := range historial {
		view.Historial = append(view.Historial, TrackingEvent{
			ID:             h.ID,
			EstadoAnterior: h.EstadoAnterior,
			EstadoNuevo:    h.EstadoNuevo,
			Comentario:     h.Comentario,
			UsuarioAccion:  h.UsuarioAccion,
			TipoAccion:     h.TipoAccion,
			FechaAccion:    h.FechaAccion,
		})
	}

	// Claims filed before the history table existed get a synthesized
	// creation event so the timeline never renders empty.
	if len(view.Historial) == 0 {
		comentario := "Reclamo registrado por el consumidor"
		view.Historial = append(view.Historial, TrackingEvent{
			EstadoNuevo:   string(claim.StatusPendiente),
			Comentario:    &comentario,
			UsuarioAccion: "CLIENTE",
			TipoAccion:    claim.ActionCreacion,
			FechaAccion:   c.FechaRegistro,
		})
	}

	mensajes, err := s.repo.MessagesAsc(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	for _, m := range mensajes {
		view.Mensajes = append(view.Mensajes, TrackingMessage{
			ID:           m.ID,
			TipoMensaje:  string(m.TipoMensaje),
			Mensaje:      m.Mensaje,
			FechaMensaje: m.FechaMensaje,
		})
	}

	return view, nil
}

// AddConsumerMessage appends a consumer message to the thread and notifies
// staff. Guarded by the same code+document pairing as Track.
func (s *Service) AddConsumerMessage(ctx context.Context, codigo, documento, mensaje string) error {
	mensaje = strings.TrimSpace(mensaje)
	if mensaje == "" || len(mensaje) > claim.MaxMessageLen {
		return fmt.Errorf("%w: Mensaje inválido (máx %d caracteres)", claim.ErrValidation, claim.MaxMessageLen)
	}
	if documento == "" {
		return fmt.Errorf("%w: Número de documento requerido", claim.ErrValidation)
	}

	c, _, err := s.repo.FindForTracking(ctx, codigo, documento)
	if err != nil {
		return err
	}

	if err := s.repo.AddMessage(ctx, c.ID, claim.MessageFromCliente, mensaje); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	go func() {
		hctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		comentario := "Mensaje enviado por el consumidor"
		if err := s.repo.AddHistory(hctx, c.ID, claim.HistoryEntry{
			EstadoNuevo:   string(c.Estado),
			TipoAccion:    claim.ActionMensajeCliente,
			Comentario:    &comentario,
			UsuarioAccion: "CLIENTE",
		}); err != nil {
			s.log.Error("error registrando historial de mensaje", "claim_id", c.ID, "error", err)
		}
	}()

	s.notifier.Enqueue(appnotif.Job{
		Kind:    appnotif.JobConsumerMessage,
		Codigo:  c.Codigo,
		Nombre:  c.NombreCompleto,
		Email:   c.Email,
		Mensaje: mensaje,
	})

	return nil
}

func diasRestantes(limite time.Time) int {
	return int(time.Until(limite).Hours() / 24)
}
