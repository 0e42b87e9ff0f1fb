package claim

import (
	"errors"
	"fmt"
	"time"
)

// CodePrefix is the company prefix of every public tracking code.
// Codes have the shape CODEPLEX-YYYY-NNNNN with a zero-padded,
// per-year sequence.
const CodePrefix = "CODEPLEX"

// ResponseDeadlineDays is the statutory response window (D.S. 011-2011-PCM).
const ResponseDeadlineDays = 15

// RequestType classifies a submission.
type RequestType string

const (
	RequestTypeReclamo RequestType = "RECLAMO"
	RequestTypeQueja   RequestType = "QUEJA"
)

// ValidRequestType reports whether t belongs to the closed set.
func ValidRequestType(t RequestType) bool {
	return t == RequestTypeReclamo || t == RequestTypeQueja
}

// Status is the lifecycle state of a claim.
type Status string

const (
	StatusPendiente Status = "PENDIENTE"
	StatusEnProceso Status = "EN_PROCESO"
	StatusResuelto  Status = "RESUELTO"
	StatusCerrado   Status = "CERRADO"
)

// ValidStatus reports whether s belongs to the closed set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPendiente, StatusEnProceso, StatusResuelto, StatusCerrado:
		return true
	default:
		return false
	}
}

// Role is the privilege level of a staff caller.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleSoporte Role = "SOPORTE"
)

// CanSetStatus is the role gate on lifecycle transitions: transitions are
// otherwise free-form, but only ADMIN may close a claim.
func CanSetStatus(role Role, to Status) bool {
	if to == StatusCerrado {
		return role == RoleAdmin
	}
	return true
}

// MessageOrigin tags who wrote a tracking-thread message.
type MessageOrigin string

const (
	MessageFromCliente MessageOrigin = "CLIENTE"
	MessageFromEmpresa MessageOrigin = "EMPRESA"
)

// MaxMessageLen caps a single tracking-thread message.
const MaxMessageLen = 1000

// MinResponseLen is the minimum length of the one-time company response.
const MinResponseLen = 10

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound   = errors.New("reclamo no encontrado")
	ErrValidation = errors.New("datos inválidos")
	ErrConflict   = errors.New("conflicto de datos")
)

// Claim is the aggregate root: a consumer-filed RECLAMO or QUEJA.
// firma_digital, ip_address and user_agent are write-once provenance
// fields and must never leave the admin boundary except through the
// dedicated signature endpoint.
type Claim struct {
	ID            string
	Codigo        string
	TipoSolicitud RequestType
	Estado        Status

	NombreCompleto  string
	TipoDocumento   string
	NumeroDocumento string
	Telefono        string
	Email           string
	Domicilio       *string
	Departamento    *string
	Provincia       *string
	Distrito        *string

	TipoBien             *string
	MontoReclamado       float64
	DescripcionBien      string
	AreaQueja            *string
	DescripcionSituacion *string
	FechaIncidente       string
	DetalleReclamo       string
	PedidoConsumidor     string

	FirmaDigital   string
	AceptaTerminos bool
	AceptaCopia    bool
	IPAddress      string
	UserAgent      string

	FechaRegistro        time.Time
	FechaLimiteRespuesta time.Time
	FechaRespuesta       *time.Time
	AtendidoPor          *string
}

// TipoBienOrDefault resolves the presentation default for an absent tipo_bien.
func (c *Claim) TipoBienOrDefault() string {
	if c.TipoBien != nil && *c.TipoBien != "" {
		return *c.TipoBien
	}
	return "SERVICIO"
}

// Created is the subset of fields the submitter needs back after intake.
type Created struct {
	ID                   string
	Codigo               string
	FechaRegistro        time.Time
	FechaLimiteRespuesta time.Time
}

// Response is the single company reply to a claim, recorded once.
type Response struct {
	RespuestaEmpresa     string
	AccionTomada         *string
	CompensacionOfrecida *string
	RespondidoPor        string
	FechaRespuesta       time.Time
}

// Message is one entry of the append-only consumer/company thread.
type Message struct {
	ID           string
	TipoMensaje  MessageOrigin
	Mensaje      string
	FechaMensaje time.Time
}

// HistoryEntry records a lifecycle event on a claim.
type HistoryEntry struct {
	ID             string
	EstadoAnterior *string
	EstadoNuevo    string
	TipoAccion     string
	Comentario     *string
	UsuarioAccion  string
	IPAddress      string
	UserAgent      string
	FechaAccion    time.Time
}

// History action kinds.
const (
	ActionCreacion       = "CREACION"
	ActionCambioEstado   = "CAMBIO_ESTADO"
	ActionRespuesta      = "RESPUESTA"
	ActionMensajeCliente = "MENSAJE_CLIENTE"
	ActionMensajeEmpresa = "MENSAJE_EMPRESA"
)

// NextCode derives the successor of the greatest existing code for a year.
// lastCode is the lexicographically greatest stored code with the year's
// prefix, or empty when the year has no claims yet.
//
// Reading the current maximum and inserting the successor are two distinct
// store operations, so concurrent submitters can both derive the same code.
// Callers must guard the insert with a uniqueness constraint on the code
// column and retry on violation; NextCode itself is a pure derivation.
func NextCode(year int, lastCode string) string {
	numero := 1
	if lastCode != "" {
		var y, n int
		if _, err := fmt.Sscanf(lastCode, CodePrefix+"-%d-%d", &y, &n); err == nil && y == year {
			numero = n + 1
		}
	}
	return fmt.Sprintf("%s-%d-%05d", CodePrefix, year, numero)
}
