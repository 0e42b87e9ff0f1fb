package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	claimpg "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/claim/postgres"
	mailer "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/mail/gomail"
	userpg "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/user/postgres"
	appadmin "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/admin"
	appclaim "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/claim"
	apphealth "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/health"
	appnotif "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/notification"
	appuser "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/database"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http/server"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, database.Config{
		ConnString:      cfg.Database.ConnString(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MinConns:        cfg.Database.MinConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	log.Info("Database connection established", "database", cfg.Database.Database)

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(ctx, pool, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	claimRepo := claimpg.NewRepository(pool)
	userRepo := userpg.NewRepository(pool)

	dispatcher := appnotif.NewDispatcher(appnotif.Config{
		Workers:      cfg.Notifications.Workers,
		QueueSize:    cfg.Notifications.QueueSize,
		SupportEmail: cfg.SMTP.SupportEmail,
		BackendURL:   cfg.App.BackendURL,
		FrontendURL:  cfg.App.FrontendURL,
		SendDelay:    cfg.Notifications.SendDelay,
	}, mailer.NewSender(cfg.SMTP), log)
	dispatcher.Start()
	defer dispatcher.Stop()

	srv, err := server.New(server.Options{
		Config: cfg,
		Logger: log,
		Claims: appclaim.NewService(claimRepo, dispatcher, log),
		Admin:  appadmin.NewService(claimRepo, log),
		Users:  appuser.NewService(userRepo, log),
		Health: apphealth.NewService(apphealth.Metadata{
			Service:     cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
		}, pool),
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	log.Info("Starting HTTP server", "port", cfg.HTTP.Port)
	return srv.Run(ctx)
}
