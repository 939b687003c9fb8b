// internal/database/profile.go

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eatup-app/eatup/internal/models"
)

// GetProfile returns the user's profile record.
func GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return GetUserByID(ctx, userID)
}

// UpdatePresence records the user's presence status and last-seen timestamp.
func UpdatePresence(ctx context.Context, userID uuid.UUID, status models.OnlineStatus, lastSeen time.Time) error {
	q := `
	UPDATE users
	SET online_status=$1, last_seen=$2
	WHERE id=$3
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, status, lastSeen, userID)
		return err
	})
}

// DecrementSpinCredits consumes one spin credit. The balance never goes
// negative: a zero balance fails instead of underflowing.
func DecrementSpinCredits(ctx context.Context, userID uuid.UUID) error {
	q := `
	UPDATE users
	SET spins_remaining = spins_remaining - 1
	WHERE id=$1 AND spins_remaining > 0
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, userID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("no spin credits remaining for user %v", userID)
		}
		return nil
	})
}

// IncrementSpinCredits grants the user additional spin credits.
func IncrementSpinCredits(ctx context.Context, userID uuid.UUID, amount int) error {
	q := `
	UPDATE users
	SET spins_remaining = spins_remaining + $1
	WHERE id=$2
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, amount, userID)
		return err
	})
}
