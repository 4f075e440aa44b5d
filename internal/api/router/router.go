package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/lex-code-hooks/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/lex-code-hooks/internal/http/middleware"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	HookHandler        *handlers.HookHandler
	SimulatorHandler   *handlers.SimulatorHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", cfg.HookHandler.HealthCheck)
	r.Post("/hook", cfg.HookHandler.Handle)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Local stand-in for the dialog service; absent in Lambda deployments.
	if cfg.SimulatorHandler != nil {
		r.Route("/simulator/sessions", func(sim chi.Router) {
			sim.Post("/", cfg.SimulatorHandler.NewSession)
			sim.Post("/{sessionID}/turns", cfg.SimulatorHandler.Turn)
		})
	}

	return r
}
