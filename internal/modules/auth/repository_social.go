package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// FindSocialIdentity retrieves a provider link by its composite key.
func (r *repository) FindSocialIdentity(ctx context.Context, provider, providerID string) (*SocialIdentity, error) {
	query, args, err := r.psql.Select("id", "provider", "provider_id", "user_id", "created_at").
		From("social_identities").
		Where(squirrel.Eq{"provider": provider, "provider_id": providerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ident SocialIdentity
	if err := pgxscan.Get(ctx, r.db, &ident, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &ident, nil
}

// CreateUserWithSocialIdentity provisions a user and its provider link in a
// single transaction, so a failure on either insert leaves no orphan row.
func (r *repository) CreateUserWithSocialIdentity(ctx context.Context, user *User, ident *SocialIdentity) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin social provisioning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	ident.CreatedAt = now
	ident.UserID = user.ID

	userSQL, userArgs, err := r.psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Phone, user.Name, user.PasswordHash, string(user.Role),
			user.IsActive, user.EmailVerified, user.PhoneVerified, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, userSQL, userArgs...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateUser.WithCause(err)
		}
		return err
	}

	identSQL, identArgs, err := r.psql.Insert("social_identities").
		Columns("id", "provider", "provider_id", "user_id", "created_at").
		Values(ident.ID, ident.Provider, ident.ProviderID, ident.UserID, ident.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, identSQL, identArgs...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateUser.WithCause(err)
		}
		return err
	}

	return tx.Commit(ctx)
}
