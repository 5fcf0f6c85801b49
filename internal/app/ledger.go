package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/balances"
	"github.com/ajr-erp/ajr/internal/accounting/catalog"
	"github.com/ajr-erp/ajr/internal/accounting/costcenters"
	"github.com/ajr-erp/ajr/internal/accounting/entries"
	"github.com/ajr-erp/ajr/internal/accounting/reasons"
	"github.com/ajr-erp/ajr/internal/observability"
	"github.com/ajr-erp/ajr/internal/shared"
)

// Ledger bundles the accounting services shared by the API, the worker and
// the operator CLI.
type Ledger struct {
	Accounts    *accounts.Service
	Importer    *accounts.Importer
	Reasons     *catalog.Service
	CostCenters *catalog.Service
	Entries     *entries.Service
	Balances    *balances.Service
	Cache       *balances.Cache
}

// NewLedger wires the accounting services over pool. redisClient and metrics
// may be nil; caching and idempotency are then disabled.
func NewLedger(cfg *Config, pool *pgxpool.Pool, redisClient *redis.Client, logger *slog.Logger, metrics *observability.Metrics) *Ledger {
	audit := shared.NewAuditLogger(pool)

	accountRepo := accounts.NewRepository(pool)
	cache := balances.NewCache(redisClient, cfg.BalanceCacheTTL, logger, metrics)

	entryOpts := []entries.Option{
		entries.WithAudit(audit),
		entries.WithBalanceCache(cache),
	}
	if metrics != nil {
		entryOpts = append(entryOpts, entries.WithMetrics(metrics))
	}
	if redisClient != nil {
		entryOpts = append(entryOpts, entries.WithIdempotency(shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)))
	}

	accountSvc := accounts.NewService(accountRepo, audit)
	accountSvc.WithLogger(logger)
	accountSvc.WithBalanceCache(cache)
	importer := accounts.NewImporter(accountRepo, logger)
	importer.WithBalanceCache(cache)
	reasonSvc := reasons.NewService(pool, audit)
	reasonSvc.WithLogger(logger)
	costCenterSvc := costcenters.NewService(pool, audit)
	costCenterSvc.WithLogger(logger)

	return &Ledger{
		Accounts:    accountSvc,
		Importer:    importer,
		Reasons:     reasonSvc,
		CostCenters: costCenterSvc,
		Entries:     entries.NewService(entries.NewRepository(pool), logger, entryOpts...),
		Balances:    balances.NewService(accountRepo, balances.NewRepository(pool), balances.WithCache(cache), balances.WithLogger(logger)),
		Cache:       cache,
	}
}

// Handlers returns the HTTP handlers mounted under /accounting.
func (l *Ledger) Handlers(logger *slog.Logger) []RouteMounter {
	return []RouteMounter{
		accounts.NewHandler(logger, l.Accounts, l.Importer),
		balances.NewHandler(logger, l.Balances),
		reasons.NewHandler(logger, l.Reasons),
		costcenters.NewHandler(logger, l.CostCenters),
		entries.NewHandler(logger, l.Entries),
	}
}
