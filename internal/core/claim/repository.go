package claim

import (
	"context"
	"time"
)

// Meta is request provenance recorded alongside a submission.
type Meta struct {
	IPAddress string
	UserAgent string
}

// ListFilter narrows and pages the admin claim listing.
type ListFilter struct {
	Page   int
	Limit  int
	Estado string
	Search string
}

// Normalize applies the listing defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 30
	}
}

// ListItem is one row of the admin claim listing.
type ListItem struct {
	ID                   string
	Codigo               string
	TipoSolicitud        RequestType
	Estado               Status
	NombreCompleto       string
	Email                string
	Telefono             string
	DescripcionBien      string
	FechaRegistro        time.Time
	FechaLimiteRespuesta time.Time
	DiasRestantes        *int
	NombreAdminAtendio   *string
}

// DashboardStats aggregates the public dashboard counters.
type DashboardStats struct {
	Pendientes    int64
	EnProceso     int64
	Resueltos     int64
	Vencidos      int64
	TotalReclamos int64
	TotalQuejas   int64
	Total         int64
}

// PendingClaim is one row of the pending-claims dashboard list, ordered by
// urgency.
type PendingClaim struct {
	ID                   string
	Codigo               string
	TipoSolicitud        RequestType
	NombreCompleto       string
	Email                string
	FechaRegistro        time.Time
	FechaLimiteRespuesta time.Time
	DiasRestantes        int
	Prioridad            string
}

// AdminStats aggregates the staff statistics view.
type AdminStats struct {
	TotalReclamos          int64
	Pendientes             int64
	EnProceso              int64
	Resueltos              int64
	Cerrados               int64
	ReclamosHoy            int64
	ReclamosSemana         int64
	ReclamosMes            int64
	PromedioDiasResolucion *float64
}

// AuditEntry records a staff action for traceability.
type AuditEntry struct {
	UsuarioID string
	Accion    string
	Entidad   string
	EntidadID string
	Detalles  string
	IPAddress string
}

// Repository is the persistence port for claims and their side tables.
type Repository interface {
	// Create persists the submission inside a transaction, assigning the
	// tracking code and the statutory deadline server-side. Implementations
	// must retry the code assignment once if a concurrent submitter claimed
	// the same code.
	Create(ctx context.Context, sub *Submission, meta Meta) (*Created, error)

	FindByCode(ctx context.Context, codigo string) (*Claim, *Response, error)
	FindByID(ctx context.Context, id string) (*Claim, *Response, error)

	// FindForTracking matches a claim by tracking code and document number.
	// A code that exists under a different document is reported as not found.
	FindForTracking(ctx context.Context, codigo, documento string) (*Claim, *Response, error)

	// Signature returns the stored data-URI signature for a claim code.
	Signature(ctx context.Context, codigo string) (string, error)

	Dashboard(ctx context.Context) (*DashboardStats, []PendingClaim, error)
	Stats(ctx context.Context) (*AdminStats, error)

	List(ctx context.Context, filter ListFilter) ([]ListItem, int64, error)

	// UpdateStatus sets the claim state and returns the state it replaced.
	UpdateStatus(ctx context.Context, id string, estado Status) (Status, error)

	// SaveResponse records the one-time company response and marks the claim
	// RESUELTO with fecha_respuesta and atendido_por. A second response for
	// the same claim fails with ErrConflict.
	SaveResponse(ctx context.Context, id string, resp *Response, atendidoPor string) error

	AddMessage(ctx context.Context, reclamoID string, origen MessageOrigin, mensaje string) error
	MessagesAsc(ctx context.Context, reclamoID string) ([]Message, error)

	AddHistory(ctx context.Context, reclamoID string, entry HistoryEntry) error
	History(ctx context.Context, reclamoID string) ([]HistoryEntry, error)

	AddAudit(ctx context.Context, entry AuditEntry) error
}
