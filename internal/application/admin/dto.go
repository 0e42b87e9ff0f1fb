package admin

import (
	"time"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// ListRow is one row of the paginated staff listing.
type ListRow struct {
	ID                   string    `json:"id"`
	CodigoReclamo        string    `json:"codigo_reclamo"`
	TipoSolicitud        string    `json:"tipo_solicitud"`
	Estado               string    `json:"estado"`
	NombreCompleto       string    `json:"nombre_completo"`
	Email                string    `json:"email"`
	Telefono             string    `json:"telefono"`
	DescripcionBien      string    `json:"descripcion_bien"`
	FechaRegistro        time.Time `json:"fecha_registro"`
	FechaLimiteRespuesta time.Time `json:"fecha_limite_respuesta"`
	DiasRestantes        *int      `json:"dias_restantes"`
	NombreAdminAtendio   *string   `json:"nombre_admin_atendio"`
}

// Pagination carries the listing page metadata.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ListResult is a page of claims plus its pagination metadata.
type ListResult struct {
	Data       []ListRow  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// DetailView is the complete claim as the staff panel sees it. Unlike the
// public view it includes the signature and the request provenance.
type DetailView struct {
	ID            string `json:"id"`
	CodigoReclamo string `json:"codigo_reclamo"`
	TipoSolicitud string `json:"tipo_solicitud"`
	Estado        string `json:"estado"`

	NombreCompleto  string  `json:"nombre_completo"`
	TipoDocumento   string  `json:"tipo_documento"`
	NumeroDocumento string  `json:"numero_documento"`
	Telefono        string  `json:"telefono"`
	Email           string  `json:"email"`
	Domicilio       *string `json:"domicilio"`
	Departamento    *string `json:"departamento"`
	Provincia       *string `json:"provincia"`
	Distrito        *string `json:"distrito"`

	TipoBien             string  `json:"tipo_bien"`
	MontoReclamado       float64 `json:"monto_reclamado"`
	DescripcionBien      string  `json:"descripcion_bien"`
	AreaQueja            *string `json:"area_queja"`
	DescripcionSituacion *string `json:"descripcion_situacion"`
	FechaIncidente       string  `json:"fecha_incidente"`
	DetalleReclamo       string  `json:"detalle_reclamo"`
	PedidoConsumidor     string  `json:"pedido_consumidor"`

	FirmaDigital   string `json:"firma_digital"`
	AceptaTerminos bool   `json:"acepta_terminos"`
	AceptaCopia    bool   `json:"acepta_copia"`
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`

	FechaRegistro        time.Time  `json:"fecha_registro"`
	FechaLimiteRespuesta time.Time  `json:"fecha_limite_respuesta"`
	FechaRespuesta       *time.Time `json:"fecha_respuesta"`
	AtendidoPor          *string    `json:"atendido_por"`

	RespuestaEmpresa     *string `json:"respuesta_empresa"`
	AccionTomada         *string `json:"accion_tomada"`
	CompensacionOfrecida *string `json:"compensacion_ofrecida"`
	RespondidoPor        *string `json:"respondido_por"`
}

// StatsView is the staff statistics panel payload.
type StatsView struct {
	TotalReclamos          int64    `json:"total_reclamos"`
	Pendientes             int64    `json:"pendientes"`
	EnProceso              int64    `json:"en_proceso"`
	Resueltos              int64    `json:"resueltos"`
	Cerrados               int64    `json:"cerrados"`
	ReclamosHoy            int64    `json:"reclamos_hoy"`
	ReclamosSemana         int64    `json:"reclamos_semana"`
	ReclamosMes            int64    `json:"reclamos_mes"`
	PromedioDiasResolucion *float64 `json:"promedio_dias_resolucion"`
}

func detailFrom(c *claim.Claim, resp *claim.Response) *DetailView {
	v := &DetailView{
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
		TipoBien:             c.TipoBienOrDefault(),
		MontoReclamado:       c.MontoReclamado,
		DescripcionBien:      c.DescripcionBien,
		AreaQueja:            c.AreaQueja,
		DescripcionSituacion: c.DescripcionSituacion,
		FechaIncidente:       c.FechaIncidente,
		DetalleReclamo:       c.DetalleReclamo,
		PedidoConsumidor:     c.PedidoConsumidor,
		FirmaDigital:         c.FirmaDigital,
		AceptaTerminos:       c.AceptaTerminos,
		AceptaCopia:          c.AceptaCopia,
		IPAddress:            c.IPAddress,
		UserAgent:            c.UserAgent,
		FechaRegistro:        c.FechaRegistro,
		FechaLimiteRespuesta: c.FechaLimiteRespuesta,
		FechaRespuesta:       c.FechaRespuesta,
		AtendidoPor:          c.AtendidoPor,
	}
	if resp != nil {
		v.RespuestaEmpresa = &resp.RespuestaEmpresa
		v.AccionTomada = resp.AccionTomada
		v.CompensacionOfrecida = resp.CompensacionOfrecida
		v.RespondidoPor = &resp.RespondidoPor
	}
	return v
}
