package health

import (
	"context"
	"time"

	corehealth "github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/health"
)

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// Pinger checks storage connectivity. Satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service exposes health-check use cases to adapters.
type Service struct {
	meta      Metadata
	db        Pinger
	startedAt time.Time
}

func NewService(meta Metadata, db Pinger) *Service {
	return &Service{
		meta:      meta,
		db:        db,
		startedAt: time.Now().UTC(),
	}
}

// Status returns the current availability snapshot. The endpoint always
// answers 200; a broken database shows up in the database field so probes
// keep the process alive while operators still see the outage.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	database := "connected"
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.Ping(pingCtx); err != nil {
			database = "disconnected"
		}
	}

	uptime := time.Since(s.startedAt)
	return corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      "UP",
		Timestamp:   time.Now().UTC(),
		Database:    database,
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
	}
}
