// internal/database/invitation.go

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eatup-app/eatup/internal/models"
)

// InsertLobbyInvitation stores a pending invitation. The lobby name is
// denormalized into the row because lobbies themselves are in-memory only.
func InsertLobbyInvitation(ctx context.Context, lobbyID, senderID, receiverID uuid.UUID, lobbyName string) error {
	q := `
	INSERT INTO lobby_invitations (id, lobby_id, lobby_name, sender_id, receiver_id, status)
	VALUES ($1, $2, $3, $4, $5, 'pending')
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, uuid.New(), lobbyID, lobbyName, senderID, receiverID)
		return err
	})
}

// AcceptLobbyInvitation marks the pending invitation accepted and returns it,
// so the caller can join the invitee into the lobby. The update is scoped to
// the receiver: an invitation addressed to someone else is untouched and
// reported as not found.
func AcceptLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) (*models.LobbyInvitation, error) {
	var inv models.LobbyInvitation
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			UPDATE lobby_invitations
			SET status='accepted', updated_at=NOW()
			WHERE id=$1 AND receiver_id=$2 AND status='pending'
			RETURNING id, lobby_id, lobby_name, sender_id, receiver_id, status, created_at, updated_at
		`, invitationID, receiverID).Scan(
			&inv.ID, &inv.LobbyID, &inv.LobbyName, &inv.SenderID,
			&inv.ReceiverID, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
		)
	})
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no pending invitation %v for this user", invitationID)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeclineLobbyInvitation marks the pending invitation declined. Scoped to the
// receiver like AcceptLobbyInvitation.
func DeclineLobbyInvitation(ctx context.Context, invitationID, receiverID uuid.UUID) error {
	q := `
	UPDATE lobby_invitations
	SET status='declined', updated_at=NOW()
	WHERE id=$1 AND receiver_id=$2 AND status='pending'
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q, invitationID, receiverID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("no pending invitation %v for this user", invitationID)
		}
		return nil
	})
}

// ListPendingInvitations returns the user's pending invitations, as receiver
// (asSender=false) or as sender (asSender=true), joined with both parties'
// names so a sent listing shows the recipient, not the caller.
func ListPendingInvitations(ctx context.Context, userID uuid.UUID, asSender bool) ([]models.LobbyInvitation, error) {
	col := "i.receiver_id"
	if asSender {
		col = "i.sender_id"
	}
	q := fmt.Sprintf(`
	SELECT i.id, i.lobby_id, i.lobby_name, i.sender_id, s.name, i.receiver_id, rcv.name,
	       i.status, i.created_at, i.updated_at
	FROM lobby_invitations i
	JOIN users s ON s.id = i.sender_id
	JOIN users rcv ON rcv.id = i.receiver_id
	WHERE %s=$1 AND i.status='pending'
	ORDER BY i.created_at DESC
	`, col)

	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []models.LobbyInvitation
	for rows.Next() {
		var inv models.LobbyInvitation
		err := rows.Scan(
			&inv.ID, &inv.LobbyID, &inv.LobbyName, &inv.SenderID, &inv.SenderName,
			&inv.ReceiverID, &inv.ReceiverName, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
