// internal/database/friend.go

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eatup-app/eatup/internal/models"
)

// InsertFriendRequest inserts a pending request from sender to receiver.
// Re-sending an existing request resets it to pending.
func InsertFriendRequest(ctx context.Context, sender, receiver uuid.UUID) error {
	q := `
		INSERT INTO friend_requests (sender_id, receiver_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (sender_id, receiver_id)
		DO UPDATE SET status='pending', updated_at=NOW()
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, sender, receiver)
		return err
	})
}

// HasPendingRequest reports whether a pending request exists from sender to
// receiver. Used to auto-accept a reciprocal request.
func HasPendingRequest(ctx context.Context, sender, receiver uuid.UUID) (bool, error) {
	q := `
	SELECT 1 FROM friend_requests
	WHERE sender_id=$1 AND receiver_id=$2 AND status='pending'
	LIMIT 1
	`
	var tmp int
	err := DB.QueryRow(ctx, q, sender, receiver).Scan(&tmp)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AcceptFriendRequest marks the pending request accepted and inserts the
// friendship in both directions.
func AcceptFriendRequest(ctx context.Context, sender, receiver uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
			UPDATE friend_requests
			SET status='accepted', updated_at=NOW()
			WHERE sender_id=$1 AND receiver_id=$2 AND status='pending'
		`, sender, receiver)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("no pending friend request from %v to %v", sender, receiver)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO friends (user_id, friend_id)
			VALUES ($1, $2), ($2, $1)
			ON CONFLICT (user_id, friend_id) DO NOTHING
		`, receiver, sender)
		return err
	})
}

// DeclineFriendRequest marks the pending request declined.
func DeclineFriendRequest(ctx context.Context, sender, receiver uuid.UUID) error {
	q := `
	UPDATE friend_requests
	SET status='declined', updated_at=NOW()
	WHERE sender_id=$1 AND receiver_id=$2 AND status='pending'
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, sender, receiver)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("no pending friend request from %v to %v", sender, receiver)
		}
		return nil
	})
}

// AreFriends reports whether a friendship row exists from userID to friendID.
func AreFriends(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	q := `
	SELECT 1 FROM friends
	WHERE user_id=$1 AND friend_id=$2
	LIMIT 1
	`
	var tmp int
	err := DB.QueryRow(ctx, q, userID, friendID).Scan(&tmp)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListFriends returns the user's friends joined with their profiles.
func ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	q := `
	SELECT f.user_id, f.friend_id, f.created_at,
	       u.name, u.email, COALESCE(u.username, ''), COALESCE(u.avatar_url, ''),
	       u.online_status, u.last_seen::text
	FROM friends f
	JOIN users u ON u.id = f.friend_id
	WHERE f.user_id=$1
	ORDER BY u.name
	`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fs []models.Friend
	for rows.Next() {
		var f models.Friend
		err := rows.Scan(
			&f.UserID, &f.FriendID, &f.CreatedAt,
			&f.FriendName, &f.FriendEmail, &f.FriendUsername, &f.FriendAvatar,
			&f.OnlineStatus, &f.LastSeen,
		)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, rows.Err()
}

// ListPendingFriendRequests returns pending requests addressed to the user
// (asSender=false) or sent by the user (asSender=true). Both parties'
// profiles are joined, so a sent listing shows the recipient rather than
// echoing the caller back.
func ListPendingFriendRequests(ctx context.Context, userID uuid.UUID, asSender bool) ([]models.FriendRequest, error) {
	col := "r.receiver_id"
	if asSender {
		col = "r.sender_id"
	}
	q := fmt.Sprintf(`
	SELECT r.sender_id, r.receiver_id, r.status, r.created_at, r.updated_at,
	       s.name, s.email, COALESCE(s.username, ''),
	       rcv.name, rcv.email, COALESCE(rcv.username, '')
	FROM friend_requests r
	JOIN users s ON s.id = r.sender_id
	JOIN users rcv ON rcv.id = r.receiver_id
	WHERE %s=$1 AND r.status='pending'
	`, col)

	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []models.FriendRequest
	for rows.Next() {
		var r models.FriendRequest
		err := rows.Scan(
			&r.SenderID, &r.ReceiverID, &r.Status, &r.CreatedAt, &r.UpdatedAt,
			&r.SenderName, &r.SenderEmail, &r.SenderUsername,
			&r.ReceiverName, &r.ReceiverEmail, &r.ReceiverUsername,
		)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

// RemoveFriendship hard deletes both directions of the friendship.
func RemoveFriendship(ctx context.Context, userID, friendID uuid.UUID) error {
	q := `
	DELETE FROM friends
	WHERE (user_id=$1 AND friend_id=$2)
	   OR (user_id=$2 AND friend_id=$1)
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, userID, friendID)
		return err
	})
}
