package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/eventbus"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/realtime"
	"github.com/riskibarqy/challenge-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/challenge-league/internal/platform/id"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/riskibarqy/challenge-league/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// App owns the HTTP server and the resources behind it.
type App struct {
	Server *http.Server

	hub    *realtime.Hub
	db     *sqlx.DB
	logger *logging.Logger
}

// New wires storage, services and transport according to cfg.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(realtime.HubConfig{AllowedOrigins: cfg.WSAllowedOrigins}, logger)
	publisher := eventbus.NewFanOut(eventbus.NewLogPublisher(logger), hub)
	ids := idgen.NewUUIDGenerator()

	rankingSvc := usecase.NewRankingService(
		store.leagues,
		store.challenges,
		store.standings,
		store.tx,
		leaguestanding.Rules{PointsPerWin: cfg.RankingPointsPerWin},
		cfg.RankingRecomputeWorkers,
		store.recorder,
		publisher,
		ids,
		logger,
	)
	challengeSvc := usecase.NewChallengeService(
		store.leagues,
		store.participants,
		store.challenges,
		store.tx,
		store.recorder,
		publisher,
		ids,
		logger,
	)
	approvalSvc := usecase.NewApprovalService(
		store.participants,
		store.challenges,
		store.tx,
		rankingSvc,
		store.recorder,
		publisher,
		ids,
		logger,
	)
	leagueSvc := usecase.NewLeagueService(store.leagues, store.participants)

	verifier, err := newTokenVerifier(cfg, logger)
	if err != nil {
		if store.db != nil {
			_ = store.db.Close()
		}
		return nil, err
	}

	handler := httpapi.NewHandler(leagueSvc, challengeSvc, approvalSvc, rankingSvc, hub, logger)
	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		hub:    hub,
		db:     store.db,
		logger: logger,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within shutdownTimeout.
func (a *App) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	hubCtx, stopHub := context.WithCancel(context.WithoutCancel(ctx))
	defer stopHub()
	go a.hub.Run(hubCtx)

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	// Websocket connections are hijacked and not tracked by Shutdown.
	stopHub()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("http server stopped")
	return nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func newTokenVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeIntrospect:
		principalTTL := cfg.CacheTTL
		if !cfg.CacheEnabled {
			principalTTL = 0
		}
		client := anubis.NewClient(
			&http.Client{
				Timeout:   cfg.AccountTimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			anubis.ClientConfig{
				BaseURL:           cfg.AccountBaseURL,
				IntrospectPath:    cfg.AccountIntrospectPath,
				AdminKey:          cfg.AccountAdminKey,
				PrincipalCacheTTL: principalTTL,
				CircuitBreaker: resilience.CircuitBreakerConfig{
					Enabled:          cfg.AccountCircuitEnabled,
					FailureThreshold: cfg.AccountCircuitFailureCount,
					OpenTimeout:      cfg.AccountCircuitOpenTimeout,
					HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
				},
			},
			logger,
		)
		return client, nil
	default:
		if cfg.AuthJWTSecret == "" {
			logger.Warn("AUTH_JWT_SECRET is empty, authenticated routes will answer 503")
			return nil, nil
		}
		verifier, err := jwtauth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		return verifier, nil
	}
}
