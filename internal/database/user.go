package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eatup-app/eatup/internal/auth"
	"github.com/eatup-app/eatup/internal/models"
)

// DefaultSpinCredits is the spin balance granted at signup.
const DefaultSpinCredits = 3

// CreateUser inserts a new user row, hashing the password first.
func CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if user.SpinsRemaining == 0 {
		user.SpinsRemaining = DefaultSpinCredits
	}

	hash, err := auth.CreateHash(user.Password, auth.Params)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, email, password, name, username, role, spins_remaining, online_status, last_seen)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, 'offline', NOW())`

	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Email, user.Password, user.Name, user.Username,
			user.Role, user.SpinsRemaining,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail fetches a user by email, including the password hash.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, email, password, name, COALESCE(username, ''), role, spins_remaining,
	       online_status, last_seen::text, COALESCE(avatar_url, '')
	FROM users
	WHERE email=$1
	`
	err := DB.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.Password, &u.Name, &u.Username, &u.Role,
		&u.SpinsRemaining, &u.OnlineStatus, &u.LastSeen, &u.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID fetches a user by id. The password hash is not included.
func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `
	SELECT id, email, name, COALESCE(username, ''), role, spins_remaining,
	       online_status, last_seen::text, COALESCE(avatar_url, '')
	FROM users
	WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Username, &u.Role,
		&u.SpinsRemaining, &u.OnlineStatus, &u.LastSeen, &u.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser checks credentials and mints a session token on success.
func AuthenticateUser(ctx context.Context, email, password string) (string, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("user not found or db error: %w", err)
	}

	match, err := auth.ComparePasswordAndHash(password, user.Password)
	if err != nil || !match {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create jwt: %w", err)
	}
	return token, nil
}

// SearchUsers finds users whose name, email, or username matches the query,
// excluding the caller. Results are capped at limit (default 10).
func SearchUsers(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `
	SELECT id, email, name, COALESCE(username, ''), role,
	       online_status, COALESCE(avatar_url, '')
	FROM users
	WHERE id <> $2
	  AND (name ILIKE '%' || $1 || '%'
	    OR email ILIKE '%' || $1 || '%'
	    OR username ILIKE '%' || $1 || '%')
	LIMIT $3
	`
	rows, err := DB.Query(ctx, q, query, excludeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Username, &u.Role, &u.OnlineStatus, &u.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
