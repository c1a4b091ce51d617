// Package sqlite implementa los repositorios sobre un archivo SQLite con gorm.
// Una sola conexión abierta: las transacciones quedan serializadas y los locks por
// producto/cliente no necesitan hacer nada.
package sqlite

import (
	"context"
	"fmt"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/Salon-api/internal/application/ports"
	"github.com/jhoicas/Salon-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store base de datos SQLite con esquema migrado.
type Store struct {
	db *gorm.DB
}

// Open abre (o crea) la base en path y aplica AutoMigrate. path puede ser ":memory:".
func Open(path string) (*Store, error) {
	db, err := gorm.Open(gormsqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&stockMovementModel{},
		&creditMovementModel{},
		&cashEntryModel{},
		&saleModel{},
		&saleItemModel{},
		&salePaymentModel{},
		&userModel{},
	); err != nil {
		return nil, fmt.Errorf("migrar sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// Close cierra la conexión.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StockMovements repositorio de stock fuera de transacción.
func (s *Store) StockMovements() repository.StockMovementRepository { return &stockRepo{db: s.db} }

// CreditMovements repositorio de crédito fuera de transacción.
func (s *Store) CreditMovements() repository.CreditMovementRepository { return &creditRepo{db: s.db} }

// CashEntries repositorio de caja fuera de transacción.
func (s *Store) CashEntries() repository.CashEntryRepository { return &cashRepo{db: s.db} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() repository.SaleRepository { return &saleRepo{db: s.db} }

// Users repositorio del personal.
func (s *Store) Users() repository.UserRepository { return &userRepo{db: s.db} }

// Run implementa ports.TxRunner. Con una sola conexión, fn no debe usar los repositorios
// fuera de transacción: esperarían la conexión que tiene la propia tx.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockMovementRepository,
	creditRepo repository.CreditMovementRepository,
	cashRepo repository.CashEntryRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&stockRepo{db: tx}, &creditRepo{db: tx}, &cashRepo{db: tx}, &saleRepo{db: tx})
	})
}
