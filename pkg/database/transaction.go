package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is the function type executed inside a transaction.
type TxFunc func(pgx.Tx) error

// serializationFailureCode is SQLSTATE 40001, raised when the database
// aborts a SERIALIZABLE transaction that cannot be ordered.
const serializationFailureCode = "40001"

// maxTxRetries bounds how often an aborted serializable transaction is
// re-run before its failure is surfaced.
const maxTxRetries = 3

// WithTransaction wraps fn in a transaction. Rolls back on error or
// panic, commits otherwise.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	return runInTx(ctx, pool, pgx.TxOptions{}, fn)
}

// WithSerializableTransaction runs fn at SERIALIZABLE isolation.
// Transactions that read state to decide a write (the tree invariant
// re-checks) need this: at the default READ COMMITTED level two
// concurrent writers can each validate against a snapshot missing the
// other's uncommitted change and both commit. Serialization failures
// are retried a bounded number of times, then surfaced.
func WithSerializableTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	return retryOnSerializationFailure(maxTxRetries, func() error {
		return runInTx(ctx, pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
	})
}

func runInTx(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn TxFunc) error {
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			tx.Rollback(ctx)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func retryOnSerializationFailure(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailureCode
}

// WithTransactionResult is WithTransaction for functions that return a value.
func WithTransactionResult[T any](ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := WithTransaction(ctx, pool, func(tx pgx.Tx) error {
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

// WithSerializableTransactionResult is WithSerializableTransaction for
// functions that return a value. fn may run more than once, so it must
// not carry side effects outside the transaction.
func WithSerializableTransactionResult[T any](ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := WithSerializableTransaction(ctx, pool, func(tx pgx.Tx) error {
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
