package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/notification"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/testutil"
)

func testConfig() Config {
	return Config{
		Workers:      2,
		QueueSize:    8,
		SupportEmail: "soporte@codeplex.pe",
		BackendURL:   "http://localhost:3001",
		FrontendURL:  "http://localhost:4321",
	}
}

func createdClaim() claim.Created {
	return claim.Created{
		ID:                   "11111111-1111-1111-1111-111111111111",
		Codigo:               "CODEPLEX-2026-00042",
		FechaRegistro:        time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
		FechaLimiteRespuesta: time.Date(2026, 9, 4, 10, 30, 0, 0, time.UTC),
	}
}

func submission(aceptaCopia bool) claim.Submission {
	return claim.Submission{
		TipoSolicitud:    claim.RequestTypeReclamo,
		NombreCompleto:   "Juan Pérez",
		TipoDocumento:    "DNI",
		NumeroDocumento:  "45678912",
		Telefono:         "987654321",
		Email:            "juan@example.com",
		MontoReclamado:   150,
		DescripcionBien:  "Servicio de hosting",
		FechaIncidente:   "2026-08-15",
		DetalleReclamo:   "El servicio estuvo caído tres días",
		PedidoConsumidor: "Reembolso proporcional",
		AceptaCopia:      aceptaCopia,
	}
}

func TestDispatcher_ClaimCreated_StaffOnly(t *testing.T) {
	sender := &testutil.MockSender{}
	d := NewDispatcher(testConfig(), sender, testutil.NewTestLogger())
	d.Start()

	d.Enqueue(Job{
		Kind:       JobClaimCreated,
		Created:    createdClaim(),
		Submission: submission(false),
		Codigo:     "CODEPLEX-2026-00042",
	})
	d.Stop()

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email (staff only), got %d", len(sent))
	}
	if sent[0].To != "soporte@codeplex.pe" {
		t.Errorf("expected staff recipient, got %s", sent[0].To)
	}
	if !strings.Contains(sent[0].Subject, "CODEPLEX-2026-00042") {
		t.Errorf("subject should carry the tracking code, got %q", sent[0].Subject)
	}
	if !strings.Contains(sent[0].HTML, "/api/reclamos/CODEPLEX-2026-00042/firma") {
		t.Error("staff notice should link the signature endpoint")
	}
	if !strings.Contains(sent[0].HTML, "04/09/2026") {
		t.Error("staff notice should carry the response deadline")
	}
}

func TestDispatcher_ClaimCreated_WithConsumerCopy(t *testing.T) {
	sender := &testutil.MockSender{}
	d := NewDispatcher(testConfig(), sender, testutil.NewTestLogger())
	d.Start()

	d.Enqueue(Job{
		Kind:       JobClaimCreated,
		Created:    createdClaim(),
		Submission: submission(true),
		Codigo:     "CODEPLEX-2026-00042",
	})
	d.Stop()

	sent := sender.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 emails (staff + consumer), got %d", len(sent))
	}

	var consumer *notification.Email
	for i := range sent {
		if sent[i].To == "juan@example.com" {
			consumer = &sent[i]
		}
	}
	if consumer == nil {
		t.Fatal("expected a consumer copy")
	}
	if !strings.Contains(consumer.HTML, "CODEPLEX SAC") || !strings.Contains(consumer.HTML, "20539782232") {
		t.Error("consumer copy should carry the fiscal identity")
	}
	if !strings.Contains(consumer.HTML, "seguimiento") {
		t.Error("consumer copy should point at the tracking page")
	}
}

func TestDispatcher_ConsumerMessage(t *testing.T) {
	sender := &testutil.MockSender{}
	d := NewDispatcher(testConfig(), sender, testutil.NewTestLogger())
	d.Start()

	d.Enqueue(Job{
		Kind:    JobConsumerMessage,
		Codigo:  "CODEPLEX-2026-00007",
		Nombre:  "María López",
		Email:   "maria@example.com",
		Mensaje: "¿Hay novedades de mi caso?",
	})
	d.Stop()

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 staff notice, got %d", len(sent))
	}
	if sent[0].To != "soporte@codeplex.pe" {
		t.Errorf("expected staff recipient, got %s", sent[0].To)
	}
	if !strings.Contains(sent[0].HTML, "¿Hay novedades de mi caso?") {
		t.Error("notice should carry the message text")
	}
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	sender := &testutil.MockSender{
		SendFunc: func(ctx context.Context, email notification.Email) error {
			return errors.New("smtp: connection refused")
		},
	}
	d := NewDispatcher(testConfig(), sender, testutil.NewTestLogger())
	d.Start()

	// Must not panic or block; the failure stays inside the dispatcher.
	d.Enqueue(Job{
		Kind:       JobClaimCreated,
		Created:    createdClaim(),
		Submission: submission(true),
		Codigo:     "CODEPLEX-2026-00042",
	})
	d.Stop()

	if len(sender.Sent()) != 2 {
		t.Fatalf("expected both sends attempted despite failures, got %d", len(sender.Sent()))
	}
}

func TestDispatcher_FullQueueDropsJob(t *testing.T) {
	block := make(chan struct{})
	sender := &testutil.MockSender{
		SendFunc: func(ctx context.Context, email notification.Email) error {
			<-block
			return nil
		},
	}

	cfg := testConfig()
	cfg.Workers = 1
	cfg.QueueSize = 1
	d := NewDispatcher(cfg, sender, testutil.NewTestLogger())
	d.Start()

	job := Job{Kind: JobConsumerMessage, Codigo: "CODEPLEX-2026-00001", Mensaje: "hola"}
	// First job occupies the worker, second fills the queue, third drops.
	d.Enqueue(job)
	d.Enqueue(job)
	d.Enqueue(job)

	close(block)
	d.Stop()

	if got := len(sender.Sent()); got > 2 {
		t.Errorf("expected at most 2 deliveries after drop, got %d", got)
	}
}

func TestRenderStaffNotice_OmitsZeroMonto(t *testing.T) {
	sub := submission(false)
	sub.MontoReclamado = 0

	html := renderStaffNotice(createdClaim(), sub, "http://localhost:3001")
	if strings.Contains(html, "Monto Reclamado") {
		t.Error("zero monto should not render the amount block")
	}

	sub.MontoReclamado = 99.90
	html = renderStaffNotice(createdClaim(), sub, "http://localhost:3001")
	if !strings.Contains(html, "S/ 99.90") {
		t.Error("expected formatted amount in staff notice")
	}
}

func TestRenderEmails_EscapeUserContent(t *testing.T) {
	sub := submission(false)
	sub.DetalleReclamo = `<script>alert("x")</script>`

	html := renderStaffNotice(createdClaim(), sub, "http://localhost:3001")
	if strings.Contains(html, "<script>") {
		t.Error("free-text content must be escaped in email HTML")
	}
}
