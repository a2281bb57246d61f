package app

import (
	"context"
	"fmt"
	"time"

	"interest-match/internal/config"
	"interest-match/internal/database"
	"interest-match/internal/database/migration"
	dbpostgres "interest-match/internal/database/postgres"
	"interest-match/internal/database/seeder"
	"interest-match/internal/infrastructure/cache"
	"interest-match/internal/infrastructure/persistence/postgres"
	"interest-match/internal/pkg/jwt"
	"interest-match/internal/pkg/logger"
	"interest-match/internal/repository"
	"interest-match/internal/usecase"
	"interest-match/migrations"
)

type Container struct {
	Config config.Config
	Log    *logger.Logger
	DB     database.DB
	Cache  *cache.Redis
	JWT    jwt.Service

	Auth                usecase.AuthUsecase
	Account             usecase.AccountUsecase
	Catalog             usecase.CatalogUsecase
	UserInterests       usecase.UserInterestUsecase
	CategoryImportances usecase.CategoryImportanceUsecase
	Profiles            usecase.ProfileUsecase
	CommonInterests     usecase.CommonInterestsUsecase
}

// NewContainer connects to Postgres and Redis, prepares the schema and
// builds the usecases. Redis being unreachable is not an error.
func NewContainer(cfg config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		res, err := migration.Runner{Source: migrations.FS}.Run(ctx, db.SQLDB())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		for _, m := range res.Applied {
			log.Info("migration applied", "version", m.Version, "name", m.Name)
		}
	}

	redis := cache.NewRedis(ctx, cfg.Redis, log)

	users := postgres.NewUserRepository(db)
	store := repository.NewPostgresStore(db)
	repos := repository.NewRepositories(db)
	catalog := usecase.NewCatalog(repos.Catalog, redis, log)

	if cfg.Database.SeedCatalog {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: log}).Run(ctx, db); err != nil {
			_ = redis.Close()
			_ = db.Close()
			return nil, err
		}
		if err := catalog.Invalidate(ctx); err != nil {
			log.Warn("catalog cache invalidation failed", "error", err)
		}
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	return &Container{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  redis,
		JWT:    jwtSvc,

		Auth:                usecase.NewAuthUsecase(users, jwtSvc),
		Account:             usecase.NewAccountUsecase(users),
		Catalog:             catalog,
		UserInterests:       usecase.NewUserInterests(store, repos, log),
		CategoryImportances: usecase.NewCategoryImportances(store, repos, log),
		Profiles:            usecase.NewProfiles(users, store, repos, utcNow, log),
		CommonInterests:     usecase.NewCommonInterests(store, cfg.Matching.PageSize, utcNow, log),
	}, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
