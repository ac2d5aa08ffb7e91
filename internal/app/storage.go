package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/event"
	"github.com/riskibarqy/challenge-league/internal/domain/league"
	"github.com/riskibarqy/challenge-league/internal/domain/leaguestanding"
	"github.com/riskibarqy/challenge-league/internal/domain/participant"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/challenge-league/internal/platform/cache"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type storage struct {
	leagues      league.Repository
	participants participant.Repository
	challenges   challenge.Repository
	standings    leaguestanding.Repository
	tx           usecase.Transactor
	recorder     event.Recorder
	db           *sqlx.DB
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (storage, error) {
	var (
		store storage
		err   error
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		store, err = openPostgres(ctx, cfg, logger)
		if err != nil {
			return storage{}, err
		}
	default:
		store = openMemory()
	}

	// Challenges are never cached; every transition reads the stored version.
	if cfg.CacheEnabled {
		shared := basecache.NewStore(cfg.CacheTTL)
		store.leagues = cache.NewLeagueRepository(store.leagues, shared)
		store.participants = cache.NewParticipantRepository(store.participants, shared)
		store.standings = cache.NewLeagueStandingRepository(store.standings, shared)
	}

	logger.Info("storage ready",
		"driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"cache_ttl", cfg.CacheTTL.String(),
	)
	return store, nil
}

func openMemory() storage {
	return storage{
		leagues:      memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedRosters()),
		participants: memory.NewParticipantRepository(memory.SeedIndividuals(), memory.SeedPartnerships()),
		challenges:   memory.NewChallengeRepository(),
		standings:    memory.NewLeagueStandingRepository(),
		tx:           memory.NewTransactor(),
	}
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (storage, error) {
	dsn := parsePostgresDSN(cfg.DBURL)
	db, err := otelsqlx.Open("postgres",
		dsn.connString(cfg),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dsn.databaseName()),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return storage{}, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return storage{}, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.AppEnv != config.EnvProd {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return storage{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}
	logger.Info("postgres connected", "db_name", dsn.databaseName(), "max_open_conns", cfg.DBMaxOpenConns)

	return storage{
		leagues:      postgres.NewLeagueRepository(db),
		participants: postgres.NewParticipantRepository(db),
		challenges:   postgres.NewChallengeRepository(db),
		standings:    postgres.NewLeagueStandingRepository(db),
		tx:           postgres.NewTransactor(db),
		recorder:     postgres.NewEventOutboxRepository(db),
		db:           db,
	}, nil
}
