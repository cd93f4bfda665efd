package ledger

import (
	"context"
	"errors"
	"fmt"

	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxTxRetries bounds how often a conflicting transaction is re-run before
// the conflict is surfaced to the caller.
const maxTxRetries = 3

// runTx runs fn inside a database transaction. It commits if fn returns
// nil, otherwise it rolls back. Transactions that fail with a retryable
// conflict are re-run from scratch up to maxTxRetries times.
func (l *Ledger) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = l.db.WithContext(ctx).Transaction(fn)
		if err == nil || !retryableTxError(err) {
			return translateStoreError(err)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransactionConflict, err)
}

// retryableTxError reports whether the whole transaction should be re-run.
// Serialization failures and deadlocks are the classic cases; unique
// violations are included because the only unique constraints reachable
// from these transactions guard vote records, and a racing first-vote that
// loses the insert race resolves cleanly on re-read.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "23505":
		return true
	}
	return false
}

// isUniqueViolation reports whether err is a unique-constraint violation,
// on either dialect: postgres surfaces code 23505, sqlite only a message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateStoreError maps connectivity failures onto ErrStoreUnavailable
// so handlers can distinguish them from business rejections. Everything
// else passes through untouched.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// forUpdate adds a row lock on dialects that support it. SQLite rejects
// FOR UPDATE syntax and serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
