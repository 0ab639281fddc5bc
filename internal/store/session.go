package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/auth"
)

// SessionRepo persists the single local session record.
type SessionRepo interface {
	// Save stores the session, replacing any existing one.
	Save(ctx context.Context, s *auth.Session) error

	// Load returns the saved session, or nil if none exists.
	Load(ctx context.Context) (*auth.Session, error)

	// Clear removes the saved session.
	Clear(ctx context.Context) error
}

type sessionRepo struct {
	db *sqlx.DB
}

type sessionRow struct {
	Token     string    `db:"token"`
	UserID    int       `db:"user_id"`
	UserName  string    `db:"user_name"`
	UserEmail string    `db:"user_email"`
	UserRole  string    `db:"user_role"`
	SavedAt   time.Time `db:"saved_at"`
}

func (r *sessionRepo) Save(ctx context.Context, s *auth.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, token, user_id, user_name, user_email, user_role, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			user_role = excluded.user_role,
			saved_at = excluded.saved_at`,
		s.BearerToken, s.User.ID, s.User.Name, s.User.Email, s.User.Role, s.SavedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (*auth.Session, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, `SELECT token, user_id, user_name, user_email, user_role, saved_at FROM session WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &auth.Session{
		BearerToken: row.Token,
		User: api.User{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
			Role:  row.UserRole,
		},
		SavedAt: row.SavedAt,
	}, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
