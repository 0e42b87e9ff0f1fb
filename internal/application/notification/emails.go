package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
)

// Fiscal identity printed at the foot of every email.
const (
	empresaRazonSocial = "CODEPLEX SAC"
	empresaRUC         = "20539782232"
)

func renderStaffNotice(created claim.Created, sub claim.Submission, backendURL string) string {
	fechaLimite := created.FechaLimiteRespuesta.Format("02/01/2006")
	fechaRegistro := created.FechaRegistro.Format("02/01/2006 15:04:05")

	montoHTML := ""
	if sub.MontoReclamado > 0 {
		montoHTML = fmt.Sprintf(`<div style="margin-top: 10px; padding: 8px; background-color: #fef3c7; border-radius: 4px;"><strong>💰 Monto Reclamado:</strong> S/ %.2f</div>`, sub.MontoReclamado)
	}

	firmaURL := fmt.Sprintf("%s/api/reclamos/%s/firma", backendURL, created.Codigo)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f3f4f6; margin: 0; padding: 20px;">
  <div style="max-width: 640px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: #dc2626; color: #ffffff; padding: 20px;">
      <h2 style="margin: 0;">Nuevo %s registrado</h2>
      <p style="margin: 5px 0 0;">Código: <strong>%s</strong></p>
    </div>
    <div style="padding: 20px;">
      <div style="padding: 12px; background-color: #fee2e2; border-left: 4px solid #dc2626; margin-bottom: 16px;">
        <strong>⚠️ PLAZO LEGAL:</strong> Debe responder antes del <strong>%s</strong> (15 días)
      </div>
      <table style="width: 100%%; border-collapse: collapse;">
        %s
      </table>
      %s
      <div style="margin-top: 16px;">
        <h3 style="color: #374151;">Detalle del reclamo</h3>
        <p style="background-color: #f9fafb; padding: 12px; border-radius: 4px;">%s</p>
        <h3 style="color: #374151;">Pedido del consumidor</h3>
        <p style="background-color: #f9fafb; padding: 12px; border-radius: 4px;">%s</p>
      </div>
      <p style="margin-top: 16px;"><a href="%s" style="color: #2563eb;">Ver firma digital del consumidor</a></p>
    </div>
    <div style="background-color: #f9fafb; padding: 14px 20px; font-size: 12px; color: #6b7280;">
      %s - RUC %s · Libro de Reclamaciones · Registrado el %s
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(string(sub.TipoSolicitud)),
		created.Codigo,
		fechaLimite,
		consumerRows(sub),
		montoHTML,
		html.EscapeString(sub.DetalleReclamo),
		html.EscapeString(sub.PedidoConsumidor),
		firmaURL,
		empresaRazonSocial, empresaRUC, fechaRegistro,
	)
}

func renderConsumerCopy(created claim.Created, sub claim.Submission, frontendURL string) string {
	fechaLimite := created.FechaLimiteRespuesta.Format("02/01/2006")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f3f4f6; margin: 0; padding: 20px;">
  <div style="max-width: 640px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: #16a34a; color: #ffffff; padding: 20px;">
      <h2 style="margin: 0;">Hemos recibido su %s</h2>
      <p style="margin: 5px 0 0;">Código de seguimiento: <strong>%s</strong></p>
    </div>
    <div style="padding: 20px;">
      <p>Estimado(a) <strong>%s</strong>,</p>
      <p>Su %s fue registrado correctamente en nuestro Libro de Reclamaciones.
      Recibirá nuestra respuesta antes del <strong>%s</strong>, conforme al plazo legal de 15 días.</p>
      <div style="padding: 12px; background-color: #f0fdf4; border-left: 4px solid #16a34a; margin: 16px 0;">
        Puede consultar el estado de su caso en cualquier momento con su código
        de seguimiento y su número de documento en:<br>
        <a href="%s/seguimiento" style="color: #2563eb;">%s/seguimiento</a>
      </div>
      <h3 style="color: #374151;">Resumen</h3>
      <p style="background-color: #f9fafb; padding: 12px; border-radius: 4px;">%s</p>
    </div>
    <div style="background-color: #f9fafb; padding: 14px 20px; font-size: 12px; color: #6b7280;">
      %s - RUC %s · Este correo es una copia de su registro, no responda a esta dirección.
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(strings.ToLower(string(sub.TipoSolicitud))),
		created.Codigo,
		html.EscapeString(sub.NombreCompleto),
		html.EscapeString(strings.ToLower(string(sub.TipoSolicitud))),
		fechaLimite,
		frontendURL, frontendURL,
		html.EscapeString(sub.DetalleReclamo),
		empresaRazonSocial, empresaRUC,
	)
}

func renderConsumerMessageNotice(codigo, nombre, email, mensaje string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f3f4f6; margin: 0; padding: 20px;">
  <div style="max-width: 640px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: #2563eb; color: #ffffff; padding: 20px;">
      <h2 style="margin: 0;">Nuevo mensaje en el seguimiento</h2>
      <p style="margin: 5px 0 0;">Reclamo: <strong>%s</strong></p>
    </div>
    <div style="padding: 20px;">
      <p><strong>%s</strong> (%s) escribió:</p>
      <p style="background-color: #f9fafb; padding: 12px; border-radius: 4px; border-left: 4px solid #2563eb;">%s</p>
    </div>
    <div style="background-color: #f9fafb; padding: 14px 20px; font-size: 12px; color: #6b7280;">
      %s - RUC %s · Libro de Reclamaciones
    </div>
  </div>
</body>
</html>`,
		codigo,
		html.EscapeString(nombre),
		html.EscapeString(email),
		html.EscapeString(mensaje),
		empresaRazonSocial, empresaRUC,
	)
}

func consumerRows(sub claim.Submission) string {
	rows := []struct{ label, value string }{
		{"Nombre", sub.NombreCompleto},
		{"Documento", sub.TipoDocumento + " " + sub.NumeroDocumento},
		{"Email", sub.Email},
		{"Teléfono", sub.Telefono},
		{"Ubicación", ubicacion(sub)},
		{"Tipo de bien", sub.TipoBienValue()},
		{"Descripción", sub.DescripcionBien},
		{"Fecha del incidente", sub.FechaIncidente},
	}

	var b strings.Builder
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b, `<tr>
<td style="padding: 10px 15px; border-bottom: 1px solid #f3f4f6; font-weight: bold; color: #6b7280; background-color: #f9fafb;">%s:</td>
<td style="padding: 10px 15px; border-bottom: 1px solid #f3f4f6;">%s</td>
</tr>`, r.label, html.EscapeString(r.value))
	}
	return b.String()
}

func ubicacion(sub claim.Submission) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{sub.Distrito, sub.Provincia, sub.Departamento} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}
