package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Skotchmaster/taskgate/internal/config"
	"github.com/Skotchmaster/taskgate/internal/directory"
	"github.com/Skotchmaster/taskgate/internal/events"
	"github.com/Skotchmaster/taskgate/internal/httpserver"
	"github.com/Skotchmaster/taskgate/internal/metrics"
	"github.com/Skotchmaster/taskgate/internal/middleware/auth"
	"github.com/Skotchmaster/taskgate/internal/middleware/ratelimit"
	"github.com/Skotchmaster/taskgate/internal/repo"
	"github.com/Skotchmaster/taskgate/internal/service"
	"github.com/Skotchmaster/taskgate/internal/tokens"
	pkgdb "github.com/Skotchmaster/taskgate/pkg/db"
	"github.com/Skotchmaster/taskgate/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(initCtx, cfg.Store.Params)
	cancel()
	if err != nil {
		logger.Error("db_init_failed", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	verifier := directory.NewVerifier(cfg.Directory)
	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var (
		producer  *events.Producer
		publisher service.EventPublisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("auth_events_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAuthTopic)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(httpserver.Common(logger, m)...)
	e.Validator = httpserver.NewRequestValidator()

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Verifier:    verifier,
				Tokens:      issuer,
				Events:      publisher,
				EventsTopic: cfg.KafkaAuthTopic,
			},
			CookieName:   cfg.TokenCookieName,
			CookieSecure: cfg.CookieSecure,
			Metrics:      m,
		},
		TasksHandler: &httpserver.TasksHTTP{
			Svc: &service.TaskService{
				Repo: &repo.TaskRepo{DB: db, Table: cfg.Store.Table, QueryTimeout: cfg.Store.QueryTimeout},
			},
			Metrics: m,
		},
		Health: &httpserver.HealthHTTP{Checks: map[string]httpserver.Check{
			"store":     func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
			"directory": verifier.Ping,
		}},
		Guard:          auth.NewGuard(issuer, cfg.TokenCookieName),
		LoginLimiter:   ratelimit.Login(cfg.LoginRateLimit, cfg.LoginRateWindow),
		MetricsHandler: metrics.Handler(reg),
	})
	httpserver.LogRoutes(e, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			logger.Info("server_starting", "addr", srv.Addr, "tls", true)
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			logger.Warn("server_starting", "addr", srv.Addr, "tls", false, "reason", "TLS_CERT_FILE or TLS_KEY_FILE empty")
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
