package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var userColumns = []string{
	"id", "email", "phone", "name", "password_hash", "role",
	"is_active", "email_verified", "phone_verified", "created_at", "updated_at",
}

// CreateUser inserts a new user record. A uniqueness violation from the
// store is the authoritative duplicate guard and surfaces as ErrDuplicateUser.
func (r *repository) CreateUser(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query, args, err := r.psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Phone, user.Name, user.PasswordHash, string(user.Role),
			user.IsActive, user.EmailVerified, user.PhoneVerified, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateUser.WithCause(err)
		}
		return err
	}
	return nil
}

// FindUserByEmail retrieves a user by email, or ErrNotFound.
func (r *repository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.findUser(ctx, squirrel.Eq{"email": email})
}

// FindUserByPhone retrieves a user by phone, or ErrNotFound.
func (r *repository) FindUserByPhone(ctx context.Context, phone string) (*User, error) {
	return r.findUser(ctx, squirrel.Eq{"phone": phone})
}

// FindUserByID retrieves a user by ID, or ErrNotFound.
func (r *repository) FindUserByID(ctx context.Context, id string) (*User, error) {
	return r.findUser(ctx, squirrel.Eq{"id": id})
}

// FindUserByIdentifier resolves a tagged identifier to a single-column lookup.
func (r *repository) FindUserByIdentifier(ctx context.Context, ident Identifier) (*User, error) {
	switch ident.Kind {
	case IdentifierPhone:
		return r.FindUserByPhone(ctx, ident.Value)
	default:
		return r.FindUserByEmail(ctx, ident.Value)
	}
}

// SetEmailVerified marks the user's email as verified.
func (r *repository) SetEmailVerified(ctx context.Context, userID string) error {
	return r.updateUser(ctx, userID, squirrel.Eq{"email_verified": true})
}

// SetPhoneVerified marks the user's phone as verified.
func (r *repository) SetPhoneVerified(ctx context.Context, userID string) error {
	return r.updateUser(ctx, userID, squirrel.Eq{"phone_verified": true})
}

// UpdatePassword replaces the user's password hash.
func (r *repository) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	return r.updateUser(ctx, userID, squirrel.Eq{"password_hash": newPasswordHash})
}

func (r *repository) findUser(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	query, args, err := r.psql.Select(userColumns...).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) updateUser(ctx context.Context, userID string, set squirrel.Eq) error {
	builder := r.psql.Update("users").Set("updated_at", time.Now())
	for col, val := range set {
		builder = builder.Set(col, val)
	}
	query, args, err := builder.Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
