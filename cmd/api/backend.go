package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
	"github.com/jhoicas/Salon-api/internal/infrastructure/memory"
	"github.com/jhoicas/Salon-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Salon-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Salon-api/pkg/config"
	"github.com/jhoicas/Salon-api/pkg/logger"
)

// backend agrupa el TxRunner y los repositorios fuera de transacción del driver elegido.
type backend struct {
	tx     ports.TxRunner
	stock  repository.StockMovementRepository
	credit repository.CreditMovementRepository
	cash   repository.CashEntryRepository
	sales  repository.SaleRepository
	users  repository.UserRepository
	close  func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &backend{
			tx:     store,
			stock:  store.StockMovements(),
			credit: store.CreditMovements(),
			cash:   store.CashEntries(),
			sales:  store.Sales(),
			users:  store.Users(),
			close:  func() {},
		}, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("almacenamiento SQLite")
		return &backend{
			tx:     store,
			stock:  store.StockMovements(),
			credit: store.CreditMovements(),
			cash:   store.CashEntries(),
			sales:  store.Sales(),
			users:  store.Users(),
			close: func() {
				if err := store.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar sqlite")
				}
			},
		}, nil

	case config.StoragePostgres:
		if cfg.Storage.MigrationsAuto {
			if err := migrateUp(cfg.DB.ConnectionString(), log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.DB.Host).Int("max_conns", cfg.DB.MaxConns).Msg("almacenamiento PostgreSQL")
		return &backend{
			tx:     postgres.NewTxRunner(pool),
			stock:  postgres.NewStockMovementRepository(pool),
			credit: postgres.NewCreditMovementRepository(pool),
			cash:   postgres.NewCashEntryRepository(pool),
			sales:  postgres.NewSaleRepository(pool),
			users:  postgres.NewUserRepository(pool),
			close:  pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento %q no soportado", cfg.Storage.Driver)
}

func migrateUp(dsn string, log *logger.Logger) error {
	mg, err := postgres.NewMigrator(dsn, log.Component("migrate"))
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()
	return mg.Up()
}
