package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/apiserver/handler"
	"github.com/scentory/scentory/internal/apiserver/middleware"
	"github.com/scentory/scentory/internal/apiserver/service"
	"github.com/scentory/scentory/internal/auth/jwt"
	"github.com/scentory/scentory/internal/auth/password"
	"github.com/scentory/scentory/internal/auth/revocation"
	"github.com/scentory/scentory/internal/common/config"
	"github.com/scentory/scentory/internal/i18n"
	"github.com/scentory/scentory/pkg/metrics"
)

// app owns everything built from configuration that needs closing
type app struct {
	router  *gin.Engine
	db      database.Database
	revoked revocation.Store
	logger  *zap.Logger
}

func newApp(ctx context.Context, cfg *config.APIServerConfig, lg *zap.Logger) (*app, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := i18n.InitTranslator(cfg.I18n.Path); err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	tokens, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Algorithm: cfg.JWT.Algorithm,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	hasher, err := password.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a := &app{db: db, logger: lg}

	created, err := database.InitSuperAdmin(ctx, db, hasher, cfg.SuperAdmin.Username, cfg.SuperAdmin.Email, cfg.SuperAdmin.Password)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("super admin: %w", err)
	}
	if created {
		lg.Info("super admin created", zap.String("username", cfg.SuperAdmin.Username))
	}

	a.revoked, err = revocation.NewStore(ctx, lg, &cfg.Revocation)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("revocation store: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}
	deps := handler.Deps{
		Accounts: service.NewAccountService(db, hasher, tokens, a.revoked, m, lg),
		Catalog:  service.NewCatalogService(db, m, lg),
		Ledger:   service.NewLedgerService(db, cfg.Ledger.EnforceOwnership, m, lg),
		Stats:    service.NewStatsService(db),
		Logger:   lg,
		Metrics:  m,
	}
	if cfg.Auth.RateLimit.Enabled {
		deps.AuthLimiter = middleware.NewRateLimiter(cfg.Auth.RateLimit.RPS, cfg.Auth.RateLimit.Burst)
	}
	if cfg.Tracing.Enabled {
		deps.TraceName = cfg.Tracing.ServiceName
	}
	a.router = handler.NewRouter(deps)
	return a, nil
}

func (a *app) Close() {
	if a.revoked != nil {
		if err := a.revoked.Close(); err != nil {
			a.logger.Warn("failed to close revocation store", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
}
