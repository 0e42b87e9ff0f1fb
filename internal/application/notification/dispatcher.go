package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/notification"
)

// JobKind selects the email composition for a queued job.
type JobKind string

const (
	JobClaimCreated    JobKind = "CLAIM_CREATED"
	JobConsumerMessage JobKind = "CONSUMER_MESSAGE"
)

// Job is one queued notification. Claim-created jobs carry the full
// submission so the rendered emails need no further lookups.
type Job struct {
	Kind       JobKind
	Created    claim.Created
	Submission claim.Submission
	// Mensaje is the consumer message text for JobConsumerMessage.
	Mensaje string
	// Nombre and Email identify the consumer on message jobs.
	Nombre string
	Email  string
	Codigo string
}

// Config tunes the dispatcher.
type Config struct {
	Workers      int
	QueueSize    int
	SupportEmail string
	BackendURL   string
	FrontendURL  string
	// SendDelay spaces out deliveries for rate-limited SMTP relays.
	SendDelay time.Duration
}

// Dispatcher delivers notification emails from a buffered queue with a
// fixed set of workers. Delivery is best effort: failures are logged and
// never reach the submitter.
type Dispatcher struct {
	cfg    Config
	sender notification.Sender
	log    *slog.Logger

	jobs   chan Job
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher; call Start before enqueueing.
func NewDispatcher(cfg Config, sender notification.Sender, log *slog.Logger) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		cfg:    cfg,
		sender: sender,
		log:    log,
		jobs:   make(chan Job, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop drains the queue and waits for in-flight deliveries.
func (d *Dispatcher) Stop() {
	close(d.jobs)
	d.wg.Wait()
	d.cancel()
}

// Enqueue hands a job to the workers without blocking the caller. A full
// queue drops the job; the claim itself is already committed, so losing a
// notice is acceptable and logged.
func (d *Dispatcher) Enqueue(job Job) {
	select {
	case d.jobs <- job:
	default:
		d.log.Error("notification queue full, dropping job",
			"kind", job.Kind, "codigo", job.Codigo)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.jobs {
		d.process(job)

		if d.cfg.SendDelay > 0 {
			select {
			case <-time.After(d.cfg.SendDelay):
			case <-d.ctx.Done():
			}
		}
	}
}

func (d *Dispatcher) process(job Job) {
	ctx, cancel := context.WithTimeout(d.ctx, 30*time.Second)
	defer cancel()

	for _, email := range d.compose(job) {
		if err := d.sender.Send(ctx, email); err != nil {
			d.log.Error("error enviando email",
				"kind", job.Kind, "codigo", job.Codigo, "to", email.To, "error", err)
			continue
		}
		d.log.Info("email enviado", "kind", job.Kind, "codigo", job.Codigo, "to", email.To)
	}
}

func (d *Dispatcher) compose(job Job) []notification.Email {
	switch job.Kind {
	case JobClaimCreated:
		emails := []notification.Email{{
			To:      d.cfg.SupportEmail,
			Subject: "🚨 Nuevo " + string(job.Submission.TipoSolicitud) + " - " + job.Created.Codigo,
			HTML:    renderStaffNotice(job.Created, job.Submission, d.cfg.BackendURL),
		}}
		if job.Submission.AceptaCopia {
			emails = append(emails, notification.Email{
				To:      job.Submission.Email,
				Subject: "Confirmación de " + string(job.Submission.TipoSolicitud) + " - " + job.Created.Codigo,
				HTML:    renderConsumerCopy(job.Created, job.Submission, d.cfg.FrontendURL),
			})
		}
		return emails

	case JobConsumerMessage:
		return []notification.Email{{
			To:      d.cfg.SupportEmail,
			Subject: "💬 Nuevo mensaje del consumidor - " + job.Codigo,
			HTML:    renderConsumerMessageNotice(job.Codigo, job.Nombre, job.Email, job.Mensaje),
		}}

	default:
		d.log.Warn("unknown notification job kind", "kind", job.Kind)
		return nil
	}
}
