package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	adminhttp "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/http/admin"
	authhttp "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/http/auth"
	claimhttp "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/http/claim"
	healthhttp "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/http/health"
	userhttp "github.com/roberto3101/LibroReclamacionesCodePlex/internal/adapters/http/user"
	appadmin "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/admin"
	appclaim "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/claim"
	apphealth "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/health"
	appuser "github.com/roberto3101/LibroReclamacionesCodePlex/internal/application/user"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http/middleware"
)

// Server mounts the public intake surface and the admin panel API.
type Server struct {
	log        *slog.Logger
	httpServer *http.Server
}

// Options carries the wired application services.
type Options struct {
	Config config.AppConfig
	Logger *slog.Logger

	Claims *appclaim.Service
	Admin  *appadmin.Service
	Users  *appuser.Service
	Health *apphealth.Service
}

// New builds the router and the HTTP server around it.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Claims == nil || opts.Admin == nil || opts.Users == nil {
		return nil, errors.New("application services are required")
	}

	jwtAuth := middleware.NewJWTAuthenticator(opts.Config.Auth, opts.Logger)

	claimHandler := claimhttp.NewHandler(opts.Claims, opts.Logger, opts.Config.App.IsDevelopment())
	authHandler := authhttp.NewHandler(opts.Users, jwtAuth, opts.Logger)
	adminHandler := adminhttp.NewHandler(opts.Admin, opts.Logger)
	userHandler := userhttp.NewHandler(opts.Users, opts.Logger)
	healthHandler := healthhttp.NewHandler(opts.Health)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.Config.App.FrontendURL))
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.WithTimeout(opts.Config.HTTP.WriteTimeout))

	r.Get("/health", healthHandler.Status)
	r.Get("/api/health", healthHandler.Status)

	// Public surface: intake, lookup, tracking.
	r.Post("/api/reclamos", claimHandler.Create)
	r.Get("/api/reclamos/{codigo}", claimHandler.GetByCode)
	r.Get("/api/reclamos/{codigo}/firma", claimHandler.Signature)
	r.Get("/api/dashboard", claimHandler.Dashboard)
	r.Get("/api/seguimiento/{codigo}", claimHandler.Track)
	r.Post("/api/seguimiento/{codigo}/mensaje", claimHandler.AddMessage)

	r.Post("/api/admin/auth/login", authHandler.Login)

	// Staff panel: every route behind the bearer token.
	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware)

		r.Get("/api/admin/reclamos", adminHandler.List)
		r.Get("/api/admin/reclamos/{id}", adminHandler.Detail)
		r.Put("/api/admin/reclamos/{id}/estado", adminHandler.ChangeStatus)
		r.Post("/api/admin/reclamos/{id}/respuesta", adminHandler.Respond)
		r.Post("/api/admin/reclamos/{id}/mensaje", adminHandler.AddMessage)
		r.Get("/api/admin/dashboard/stats", adminHandler.Stats)

		// Account management is ADMIN only.
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.RequireAdmin)

			r.Get("/api/admin/usuarios", userHandler.List)
			r.Post("/api/admin/usuarios", userHandler.Create)
			r.Put("/api/admin/usuarios/{id}", userHandler.Update)
			r.Put("/api/admin/usuarios/{id}/password", userHandler.SetPassword)
		})
	})

	srv := &http.Server{
		Addr:         opts.Config.HTTP.Address(),
		Handler:      r,
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
	}

	return &Server{log: opts.Logger, httpServer: srv}, nil
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		return s.httpServer.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
