package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/trovekart/api-gateway/internal/database"
)

type postgresProvider struct {
	db database.DBTX
}

func newPostgresProvider(db database.DBTX) *postgresProvider {
	return &postgresProvider{db: db}
}

func (p *postgresProvider) Create(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	sql := `
		INSERT INTO sessions
			(id, user_id, access_token, refresh_token, expires_at, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6)
	`
	if _, err := p.db.Exec(ctx, sql, id.String(), userID, accessToken, refreshToken, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (p *postgresProvider) FindByRefreshToken(ctx context.Context, userID, refreshToken string) (*Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND refresh_token = $2 AND expires_at > $3
		LIMIT 1
	`
	var s Session
	row := p.db.QueryRow(ctx, query, userID, refreshToken, time.Now())
	if err := row.Scan(&s.ID, &s.UserID, &s.AccessToken, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (p *postgresProvider) Rotate(ctx context.Context, sessionID, accessToken, refreshToken string, expiresAt time.Time) error {
	sql := `
		UPDATE sessions
		SET access_token = $1, refresh_token = $2, expires_at = $3
		WHERE id = $4
	`
	tag, err := p.db.Exec(ctx, sql, accessToken, refreshToken, expiresAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *postgresProvider) DeleteByAccessToken(ctx context.Context, accessToken string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM sessions WHERE access_token = $1`, accessToken); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (p *postgresProvider) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
