package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx DBTX, fn func(db DBTX) (T, error)) (_ T, txErr error) {
	var zero T

	// Check if we're already in a transaction by trying to cast to pgx.Tx
	if tx, ok := dbtx.(pgx.Tx); ok {
		// Already in a transaction, just use it
		return fn(tx)
	}

	// Must be a pool, create a new transaction
	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, err
	}

	// Ensure proper rollback handling
	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	// Execute the function with the transaction
	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	// Commit the transaction
	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}

	return result, nil
}

// RunInTx runs fn inside a single transaction on pool. Services use it to
// span several repositories bound with the NewXWithTx constructors.
func RunInTx[T any](ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) (T, error)) (T, error) {
	return withTx(ctx, pool, func(db DBTX) (T, error) {
		tx, ok := db.(pgx.Tx)
		if !ok {
			var zero T
			return zero, fmt.Errorf("db is not pgx.Tx: %T", db)
		}
		return fn(tx)
	})
}
