package claim

import (
	"time"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// CreatedResponse is what the submitter gets back after intake.
type CreatedResponse struct {
	CodigoReclamo        string    `json:"codigo_reclamo"`
	FechaRegistro        time.Time `json:"fecha_registro"`
	FechaLimiteRespuesta time.Time `json:"fecha_limite_respuesta"`
	PlazoDias            int       `json:"plazo_dias"`
}

// PublicClaim is the redacted public view of a claim. The signature and
// the request provenance never appear here.
type PublicClaim struct {
	ID                   string     `json:"id"`
	CodigoReclamo        string     `json:"codigo_reclamo"`
	TipoSolicitud        string     `json:"tipo_solicitud"`
	Estado               string     `json:"estado"`
	NombreCompleto       string     `json:"nombre_completo"`
	TipoDocumento        string     `json:"tipo_documento"`
	NumeroDocumento      string     `json:"numero_documento"`
	Telefono             string     `json:"telefono"`
	Email                string     `json:"email"`
	Domicilio            *string    `json:"domicilio"`
	Departamento         *string    `json:"departamento"`
	Provincia            *string    `json:"provincia"`
	Distrito             *string    `json:"distrito"`
	TipoBien             *string    `json:"tipo_bien"`
	MontoReclamado       float64    `json:"monto_reclamado"`
	DescripcionBien      string     `json:"descripcion_bien"`
	AreaQueja            *string    `json:"area_queja"`
	DescripcionSituacion *string    `json:"descripcion_situacion"`
	FechaIncidente       string     `json:"fecha_incidente"`
	DetalleReclamo       string     `json:"detalle_reclamo"`
	PedidoConsumidor     string     `json:"pedido_consumidor"`
	AceptaTerminos       bool       `json:"acepta_terminos"`
	AceptaCopia          bool       `json:"acepta_copia"`
	FechaRegistro        time.Time  `json:"fecha_registro"`
	FechaLimiteRespuesta time.Time  `json:"fecha_limite_respuesta"`
	FechaRespuesta       *time.Time `json:"fecha_respuesta"`
	RespuestaEmpresa     *string    `json:"respuesta_empresa"`
	RespondidoPor        *string    `json:"respondido_por"`
}

// TrackingEvent is one history entry in the tracking view.
type TrackingEvent struct {
	ID             string    `json:"id"`
	EstadoAnterior *string   `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Comentario     *string   `json:"comentario"`
	UsuarioAccion  string    `json:"usuario_accion"`
	TipoAccion     string    `json:"tipo_accion"`
	FechaAccion    time.Time `json:"fecha_accion"`
}

// TrackingMessage is one thread message in the tracking view.
type TrackingMessage struct {
	ID           string    `json:"id"`
	TipoMensaje  string    `json:"tipo_mensaje"`
	Mensaje      string    `json:"mensaje"`
	FechaMensaje time.Time `json:"fecha_mensaje"`
}

// TrackingResponse carries the company response inside the tracking view.
type TrackingResponse struct {
	RespuestaEmpresa string    `json:"respuesta_empresa"`
	RespondidoPor    string    `json:"respondido_por"`
	FechaRespuesta   time.Time `json:"fecha_respuesta"`
}

// TrackingView is the consumer-facing case file: claim summary, history
// and message thread.
type TrackingView struct {
	Reclamo   TrackingClaim     `json:"reclamo"`
	Respuesta *TrackingResponse `json:"respuesta"`
	Historial []TrackingEvent   `json:"historial"`
	Mensajes  []TrackingMessage `json:"mensajes"`
}

// TrackingClaim is the claim summary inside the tracking view.
type TrackingClaim struct {
	ID                   string    `json:"id"`
	CodigoReclamo        string    `json:"codigo_reclamo"`
	TipoSolicitud        string    `json:"tipo_solicitud"`
	Estado               string    `json:"estado"`
	NombreCompleto       string    `json:"nombre_completo"`
	NumeroDocumento      string    `json:"numero_documento"`
	Email                string    `json:"email"`
	Telefono             string    `json:"telefono"`
	DescripcionBien      string    `json:"descripcion_bien"`
	DetalleReclamo       string    `json:"detalle_reclamo"`
	PedidoConsumidor     string    `json:"pedido_consumidor"`
	FechaRegistro        time.Time `json:"fecha_registro"`
	FechaLimiteRespuesta time.Time `json:"fecha_limite_respuesta"`
	DiasRestantes        int       `json:"dias_restantes"`
}

// DashboardData bundles the public dashboard payload.
type DashboardData struct {
	Estadisticas DashboardStats   `json:"estadisticas"`
	Pendientes   []PendingSummary `json:"pendientes"`
}

// DashboardStats mirrors the dashboard counters view.
type DashboardStats struct {
	Pendientes    int64 `json:"pendientes"`
	EnProceso     int64 `json:"en_proceso"`
	Resueltos     int64 `json:"resueltos"`
	Vencidos      int64 `json:"vencidos"`
	TotalReclamos int64 `json:"total_reclamos"`
	TotalQuejas   int64 `json:"total_quejas"`
	Total         int64 `json:"total"`
}

// PendingSummary is one row of the pending list.
type PendingSummary struct {
	ID                   string    `json:"id"`
	CodigoReclamo        string    `json:"codigo_reclamo"`
	TipoSolicitud        string    `json:"tipo_solicitud"`
	NombreCompleto       string    `json:"nombre_completo"`
	Email                string    `json:"email"`
	FechaRegistro        time.Time `json:"fecha_registro"`
	FechaLimiteRespuesta time.Time `json:"fecha_limite_respuesta"`
	DiasRestantes        int       `json:"dias_restantes"`
	Prioridad            string    `json:"prioridad"`
}

func publicClaimFrom(c *claim.Claim, resp *claim.Response) *PublicClaim {
	out := &PublicClaim{
		ID:                   c.ID,
		CodigoReclamo:        c.Codigo,
		TipoSolicitud:        string(c.TipoSolicitud),
		Estado:               string(c.Estado),
		NombreCompleto:       c.NombreCompleto,
		TipoDocumento:        c.TipoDocumento,
		NumeroDocumento:      c.NumeroDocumento,
		Telefono:             c.Telefono,
		Email:                c.Email,
		Domicilio:            c.Domicilio,
		Departamento:         c.Departamento,
		Provincia:            c.Provincia,
		Distrito:             c.Distrito,
		TipoBien:             c.TipoBien,
		MontoReclamado:       c.MontoReclamado,
		DescripcionBien:      c.DescripcionBien,
		AreaQueja:            c.AreaQueja,
		DescripcionSituacion: c.DescripcionSituacion,
		FechaIncidente:       c.FechaIncidente,
		DetalleReclamo:       c.DetalleReclamo,
		PedidoConsumidor:     c.PedidoConsumidor,
		AceptaTerminos:       c.AceptaTerminos,
		AceptaCopia:          c.AceptaCopia,
		FechaRegistro:        c.FechaRegistro,
		FechaLimiteRespuesta: c.FechaLimiteRespuesta,
		FechaRespuesta:       c.FechaRespuesta,
	}
	if resp != nil {
		out.RespuestaEmpresa = &resp.RespuestaEmpresa
		out.RespondidoPor = &resp.RespondidoPor
	}
	return out
}
