package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fahrtkosten-service/internal/config"
	"fahrtkosten-service/internal/docstore"
	"fahrtkosten-service/internal/expense"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/metrics"
	"fahrtkosten-service/internal/report"
	"fahrtkosten-service/internal/session"
	"fahrtkosten-service/internal/web"
)

var metricsSetup = metrics.Setup

// Server wires the UI, providers, document store and janitor together.
type Server struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *metrics.Recorder
	sessions *session.Manager
	docs     *docstore.Store
	janitor  *session.Janitor

	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	provider, archive := newProviderFactory(logger, recorder).build(cfg)
	resolverFactory := newResolverFactory(cfg, logger, recorder)

	docs := docstore.NewStore(cfg.Report.OutputDir, cfg.Report.RetentionDays)
	sessions := session.NewManager(cfg.Session.TTL)
	janitor := session.NewJanitor(sessions, docs, logger, recorder, cfg.Session.SweepInterval)

	var filler web.SheetFiller
	pdfFiller, err := report.NewFiller(cfg.Report.TemplatePath, cfg.Report.MaxPlayers,
		report.WithRecorder(recorder), report.WithLogger(logger))
	if err != nil {
		logging.Warn(logger, "PDF template unavailable, report generation disabled",
			slog.String("template", cfg.Report.TemplatePath),
			slog.Any("error", err))
	} else {
		filler = pdfFiller
	}

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logging.Warn(logger, "invalid timezone, using UTC", slog.String("timezone", cfg.Timezone))
		tz = time.UTC
	}

	handler := web.NewHandler(web.Deps{
		Provider:    provider,
		Archive:     archive,
		NewResolver: resolverFactory,
		Filler:      filler,
		Docs:        docs,
		Club:        cfg.Club,
		Rate: expense.RateConfig{
			RatePerUnit: cfg.Report.RatePerUnit,
			Unit:        cfg.Report.DistanceUnit,
			RoundTrip:   cfg.Report.RoundTrip,
			Timezone:    tz,
		},
		RequestTimeout: cfg.RequestTimeout,
		TestMode:       cfg.TestMode,
		Logger:         logger,
		Ready: func() bool {
			return filler != nil || cfg.TestMode
		},
	})

	router := web.NewRouter(handler)
	wrapped := web.SessionMiddleware(sessions, web.LoggingMiddleware(logger, recorder, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		sessions:      sessions,
		docs:          docs,
		janitor:       janitor,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// Run starts the janitor and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.janitor.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", slog.Any("error", err))
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", slog.Any("error", err))
		}
	}

	s.janitor.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(logger, name+" server failed", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any("error", err))
		return metrics.NewRecorder(), nil, nil
	}
	if handler == nil {
		return rec, nil, shutdown
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{
		Addr:        ":" + cfg.Metrics.Port,
		Handler:     mux,
		ReadTimeout: readTimeout,
	}
	return rec, netHTTPServer{srv: srv}, shutdown
}
