package claim

import (
	"fmt"
	"regexp"
	"strings"
)

// Field length caps from the storage schema.
const (
	MaxNombreLen      = 200
	MaxDescripcionLen = 600
	MaxDetalleLen     = 3000
	MaxPedidoLen      = 2000

	// MaxMonto is the ceiling of a DECIMAL(10,2) column.
	MaxMonto = 9999999.99
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission carries everything a consumer sends when filing a claim.
// Optional pointers stay nil when the field was omitted.
type Submission struct {
	TipoSolicitud RequestType `json:"tipo_solicitud"`

	NombreCompleto  string  `json:"nombre_completo"`
	TipoDocumento   string  `json:"tipo_documento"`
	NumeroDocumento string  `json:"numero_documento"`
	Telefono        string  `json:"telefono"`
	Email           string  `json:"email"`
	Domicilio       *string `json:"domicilio"`
	Departamento    *string `json:"departamento"`
	Provincia       *string `json:"provincia"`
	Distrito        *string `json:"distrito"`

	TipoBien             *string `json:"tipo_bien"`
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
}

// Validate checks the submission against the intake rules. The first failing
// rule wins; the returned error wraps ErrValidation and carries the
// consumer-facing message.
func (s *Submission) Validate() error {
	if !ValidRequestType(s.TipoSolicitud) {
		return fmt.Errorf("%w: Tipo de solicitud inválido", ErrValidation)
	}
	if s.FirmaDigital == "" || !strings.HasPrefix(s.FirmaDigital, "data:image") {
		return fmt.Errorf("%w: Firma digital requerida", ErrValidation)
	}
	if !s.AceptaTerminos {
		return fmt.Errorf("%w: Debe aceptar los términos y condiciones", ErrValidation)
	}
	if !emailRegex.MatchString(s.Email) {
		return fmt.Errorf("%w: Formato de correo electrónico inválido", ErrValidation)
	}
	if s.DescripcionBien == "" || s.DetalleReclamo == "" || s.PedidoConsumidor == "" {
		return fmt.Errorf("%w: Faltan detalles del reclamo o el pedido del consumidor", ErrValidation)
	}
	if s.MontoReclamado < 0 {
		return fmt.Errorf("%w: El monto reclamado no puede ser negativo", ErrValidation)
	}
	if s.MontoReclamado > MaxMonto {
		return fmt.Errorf("%w: El monto reclamado excede el límite permitido", ErrValidation)
	}
	if len(s.DetalleReclamo) > MaxDetalleLen || len(s.PedidoConsumidor) > MaxPedidoLen ||
		len(s.NombreCompleto) > MaxNombreLen || len(s.DescripcionBien) > MaxDescripcionLen {
		return fmt.Errorf("%w: Uno de los campos excede el límite permitido de caracteres.", ErrValidation)
	}
	return nil
}

// TipoBienValue resolves the Producto/Servicio label used in notifications.
func (s *Submission) TipoBienValue() string {
	if s.TipoBien != nil && *s.TipoBien != "" {
		return *s.TipoBien
	}
	return "SERVICIO"
}
