package store

import (
	"context"
	"database/sql"
	"fmt"
)

type Transaction = func(tx *sql.Tx) error

func WithTransaction(ctx context.Context, db *sql.DB, txn Transaction) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to start transaction: %w", err)
	}

	if err := txn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
