package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	v1 "quarters/internal/api/v1"
	"quarters/internal/http/handlers/common"
	"quarters/internal/http/handlers/live"
	"quarters/internal/http/handlers/progress"
	"quarters/internal/obs"
	"quarters/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Config struct {
	// RatePerSecond and RateBurst bound /api requests per client IP. A zero
	// rate disables limiting.
	RatePerSecond float64
	RateBurst     int
	LiveInterval  time.Duration
	Zones         func() []string
	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable it only behind
	// a proxy that overwrites those headers, or clients can pick their own
	// rate-limit bucket.
	TrustProxy    bool
}

type Server struct {
	service *service.Service
	logger  *slog.Logger
	tmpl    *template.Template
	config  Config
}

func NewServer(service *service.Service, logger *slog.Logger, config Config) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"percent":    common.FormatPercent,
		"formatTime": common.FormatAbsoluteTime,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if config.LiveInterval <= 0 {
		config.LiveInterval = time.Second
	}
	if config.Zones == nil {
		config.Zones = func() []string { return nil }
	}
	return &Server{service: service, logger: logger, tmpl: tmpl, config: config}, nil
}

func (s *Server) Routes() http.Handler {
	deps := common.Dependencies{
		Service:      s.service,
		Logger:       s.logger,
		Templates:    s.tmpl,
		Zones:        s.config.Zones,
		LiveInterval: s.config.LiveInterval,
	}
	progressHandler := progress.New(deps)
	liveHandler := live.New(deps)
	apiHandler := v1.NewHandler(s.service, s.config.Zones, s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(obs.Instrument)

	r.Get("/", progressHandler.HandleIndex)
	r.Post("/timezone", progressHandler.HandleSaveTimezone)
	r.Post("/timezone/reset", progressHandler.HandleResetTimezone)
	r.Get("/live", liveHandler.HandleLive)

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.RatePerSecond > 0 {
			burst := s.config.RateBurst
			if burst <= 0 {
				burst = 1
			}
			r.Use(newIPLimiter(s.config.RatePerSecond, burst).middleware)
		}
		r.Mount("/", apiHandler.Routes())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	return r
}
