package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var otpColumns = []string{"id", "user_id", "code", "purpose", "verified", "expires_at", "created_at"}

// CreateOTP persists a new unverified code challenge.
func (r *repository) CreateOTP(ctx context.Context, rec *OTPRecord) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		rec.ID = id.String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query, args, err := r.psql.Insert("otp_codes").
		Columns(otpColumns...).
		Values(rec.ID, rec.UserID, rec.Code, string(rec.Purpose), rec.Verified, rec.ExpiresAt, rec.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// FindValidOTP looks up any unverified, unexpired record matching user and
// code, optionally narrowed to a purpose. Multiple outstanding codes per
// user/purpose are allowed; the first qualifying record wins.
func (r *repository) FindValidOTP(ctx context.Context, userID, code string, purpose *OTPPurpose) (*OTPRecord, error) {
	where := squirrel.And{
		squirrel.Eq{"user_id": userID, "code": code, "verified": false},
		squirrel.Gt{"expires_at": time.Now()},
	}
	if purpose != nil {
		where = append(where, squirrel.Eq{"purpose": string(*purpose)})
	}

	query, args, err := r.psql.Select(otpColumns...).
		From("otp_codes").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rec OTPRecord
	if err := pgxscan.Get(ctx, r.db, &rec, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &rec, nil
}

// MarkOTPVerified consumes the code. The verified=false guard makes the
// update atomic: of two concurrent consumers, exactly one sees a row change
// and the other gets ErrNotFound.
func (r *repository) MarkOTPVerified(ctx context.Context, otpID string) error {
	query, args, err := r.psql.Update("otp_codes").
		Set("verified", true).
		Where(squirrel.Eq{"id": otpID, "verified": false}).
		ToSql()
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
