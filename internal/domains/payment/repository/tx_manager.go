package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking-backend/pkg/database"
)

// =====================================================
// PGX TRANSACTION MANAGER
// =====================================================
type pgxTransactionManager struct {
	pool *pgxpool.Pool
}

func NewTransactionManager(pool *pgxpool.Pool) TransactionManager {
	return &pgxTransactionManager{pool: pool}
}

func (m *pgxTransactionManager) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return database.WithTransaction(ctx, m.pool, fn)
}
