package claim

import (
	"errors"
	"strings"
	"testing"
)

func validSubmission() Submission {
	return Submission{
		TipoSolicitud:    RequestTypeReclamo,
		NombreCompleto:   "Juan Pérez García",
		TipoDocumento:    "DNI",
		NumeroDocumento:  "45678912",
		Telefono:         "987654321",
		Email:            "juan.perez@example.com",
		MontoReclamado:   150.50,
		DescripcionBien:  "Servicio de desarrollo web",
		FechaIncidente:   "2026-08-15",
		DetalleReclamo:   "El servicio no fue entregado en la fecha acordada",
		PedidoConsumidor: "Solicito la devolución del pago realizado",
		FirmaDigital:     "data:image/png;base64,iVBORw0KGgo=",
		AceptaTerminos:   true,
	}
}

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantMsg string
	}{
		{
			name:   "valid reclamo",
			mutate: func(s *Submission) {},
		},
		{
			name:   "valid queja",
			mutate: func(s *Submission) { s.TipoSolicitud = RequestTypeQueja },
		},
		{
			name:    "unknown tipo",
			mutate:  func(s *Submission) { s.TipoSolicitud = "DENUNCIA" },
			wantMsg: "Tipo de solicitud inválido",
		},
		{
			name:    "empty tipo",
			mutate:  func(s *Submission) { s.TipoSolicitud = "" },
			wantMsg: "Tipo de solicitud inválido",
		},
		{
			name:    "missing signature",
			mutate:  func(s *Submission) { s.FirmaDigital = "" },
			wantMsg: "Firma digital requerida",
		},
		{
			name:    "signature without data uri prefix",
			mutate:  func(s *Submission) { s.FirmaDigital = "iVBORw0KGgo=" },
			wantMsg: "Firma digital requerida",
		},
		{
			name:    "terms not accepted",
			mutate:  func(s *Submission) { s.AceptaTerminos = false },
			wantMsg: "Debe aceptar los términos y condiciones",
		},
		{
			name:    "email without at",
			mutate:  func(s *Submission) { s.Email = "juan.example.com" },
			wantMsg: "Formato de correo electrónico inválido",
		},
		{
			name:    "email without dot in domain",
			mutate:  func(s *Submission) { s.Email = "juan@example" },
			wantMsg: "Formato de correo electrónico inválido",
		},
		{
			name:    "email with spaces",
			mutate:  func(s *Submission) { s.Email = "juan perez@example.com" },
			wantMsg: "Formato de correo electrónico inválido",
		},
		{
			name:    "missing detalle",
			mutate:  func(s *Submission) { s.DetalleReclamo = "" },
			wantMsg: "Faltan detalles del reclamo o el pedido del consumidor",
		},
		{
			name:    "missing pedido",
			mutate:  func(s *Submission) { s.PedidoConsumidor = "" },
			wantMsg: "Faltan detalles del reclamo o el pedido del consumidor",
		},
		{
			name:    "missing descripcion",
			mutate:  func(s *Submission) { s.DescripcionBien = "" },
			wantMsg: "Faltan detalles del reclamo o el pedido del consumidor",
		},
		{
			name:    "monto above decimal ceiling",
			mutate:  func(s *Submission) { s.MontoReclamado = 10000000 },
			wantMsg: "El monto reclamado excede el límite permitido",
		},
		{
			name:   "monto at ceiling",
			mutate: func(s *Submission) { s.MontoReclamado = 9999999.99 },
		},
		{
			name:   "monto zero",
			mutate: func(s *Submission) { s.MontoReclamado = 0 },
		},
		{
			name:    "monto negative",
			mutate:  func(s *Submission) { s.MontoReclamado = -500.00 },
			wantMsg: "El monto reclamado no puede ser negativo",
		},
		{
			name:    "monto slightly negative",
			mutate:  func(s *Submission) { s.MontoReclamado = -0.01 },
			wantMsg: "El monto reclamado no puede ser negativo",
		},
		{
			name:    "detalle over limit",
			mutate:  func(s *Submission) { s.DetalleReclamo = strings.Repeat("a", 3001) },
			wantMsg: "Uno de los campos excede el límite permitido de caracteres.",
		},
		{
			name:    "pedido over limit",
			mutate:  func(s *Submission) { s.PedidoConsumidor = strings.Repeat("a", 2001) },
			wantMsg: "Uno de los campos excede el límite permitido de caracteres.",
		},
		{
			name:    "nombre over limit",
			mutate:  func(s *Submission) { s.NombreCompleto = strings.Repeat("a", 201) },
			wantMsg: "Uno de los campos excede el límite permitido de caracteres.",
		},
		{
			name:    "descripcion over limit",
			mutate:  func(s *Submission) { s.DescripcionBien = strings.Repeat("a", 601) },
			wantMsg: "Uno de los campos excede el límite permitido de caracteres.",
		},
		{
			name:   "detalle at limit",
			mutate: func(s *Submission) { s.DetalleReclamo = strings.Repeat("a", 3000) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			err := sub.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected valid submission, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidationOrderSignatureBeforeEmail(t *testing.T) {
	sub := validSubmission()
	sub.FirmaDigital = ""
	sub.Email = "not-an-email"

	err := sub.Validate()
	if err == nil || !strings.Contains(err.Error(), "Firma digital requerida") {
		t.Errorf("expected signature error to win, got %v", err)
	}
}

func TestCanSetStatus(t *testing.T) {
	tests := []struct {
		name string
		role Role
		to   Status
		want bool
	}{
		{"admin closes", RoleAdmin, StatusCerrado, true},
		{"soporte cannot close", RoleSoporte, StatusCerrado, false},
		{"soporte resolves", RoleSoporte, StatusResuelto, true},
		{"soporte reopens", RoleSoporte, StatusPendiente, true},
		{"soporte to en proceso", RoleSoporte, StatusEnProceso, true},
		{"admin to en proceso", RoleAdmin, StatusEnProceso, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSetStatus(tt.role, tt.to); got != tt.want {
				t.Errorf("CanSetStatus(%s, %s) = %v, want %v", tt.role, tt.to, got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPendiente, StatusEnProceso, StatusResuelto, StatusCerrado} {
		if !ValidStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidStatus("ARCHIVADO") {
		t.Error("ARCHIVADO should not be a valid status")
	}
	if ValidStatus("") {
		t.Error("empty status should not be valid")
	}
}

func TestNextCode(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		lastCode string
		want     string
	}{
		{"first of year", 2026, "", "CODEPLEX-2026-00001"},
		{"increments sequence", 2026, "CODEPLEX-2026-00041", "CODEPLEX-2026-00042"},
		{"pads to five digits", 2026, "CODEPLEX-2026-00009", "CODEPLEX-2026-00010"},
		{"grows past padding", 2026, "CODEPLEX-2026-99999", "CODEPLEX-2026-100000"},
		{"stale year restarts", 2027, "CODEPLEX-2026-00500", "CODEPLEX-2027-00001"},
		{"garbage restarts", 2026, "CODEPLEX-XXXX", "CODEPLEX-2026-00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextCode(tt.year, tt.lastCode); got != tt.want {
				t.Errorf("NextCode(%d, %q) = %q, want %q", tt.year, tt.lastCode, got, tt.want)
			}
		})
	}
}

func TestTipoBienValue(t *testing.T) {
	sub := validSubmission()
	if got := sub.TipoBienValue(); got != "SERVICIO" {
		t.Errorf("expected default SERVICIO, got %q", got)
	}

	producto := "PRODUCTO"
	sub.TipoBien = &producto
	if got := sub.TipoBienValue(); got != "PRODUCTO" {
		t.Errorf("expected PRODUCTO, got %q", got)
	}

	empty := ""
	sub.TipoBien = &empty
	if got := sub.TipoBienValue(); got != "SERVICIO" {
		t.Errorf("expected SERVICIO for empty value, got %q", got)
	}
}

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{Page: 0, Limit: -5}
	f.Normalize()
	if f.Page != 1 || f.Limit != 30 {
		t.Errorf("expected defaults page=1 limit=30, got page=%d limit=%d", f.Page, f.Limit)
	}

	f = ListFilter{Page: 3, Limit: 10}
	f.Normalize()
	if f.Page != 3 || f.Limit != 10 {
		t.Errorf("expected explicit values preserved, got page=%d limit=%d", f.Page, f.Limit)
	}
}
