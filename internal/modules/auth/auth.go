package auth

import (
	"time"
)

// Role enumerates the account roles known to the platform.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// User is the root identity record. At least one of Email or Phone is set at
// creation. PasswordHash is nil for social-only accounts. Users are never
// hard-deleted by this module.
type User struct {
	ID            string    `db:"id"`
	Email         *string   `db:"email"`
	Phone         *string   `db:"phone"`
	Name          string    `db:"name"`
	PasswordHash  *string   `db:"password_hash"`
	Role          Role      `db:"role"`
	IsActive      bool      `db:"is_active"`
	EmailVerified bool      `db:"email_verified"`
	PhoneVerified bool      `db:"phone_verified"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// OTPPurpose scopes a one-time code to the flow that may consume it.
// Codes are never reused across purposes.
type OTPPurpose string

const (
	OTPPurposeEmailVerification OTPPurpose = "EMAIL_VERIFICATION"
	OTPPurposePhoneVerification OTPPurpose = "PHONE_VERIFICATION"
	OTPPurposeLogin             OTPPurpose = "LOGIN"
	OTPPurposePasswordReset     OTPPurpose = "PASSWORD_RESET"
)

// OTPRecord is a one-time code challenge bound to a user and purpose.
// Validation requires verified=false and an unexpired record; marking it
// verified is a one-shot conditional update, so a code can never be
// consumed twice.
type OTPRecord struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Code      string     `db:"code"`
	Purpose   OTPPurpose `db:"purpose"`
	Verified  bool       `db:"verified"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// SocialIdentity links a User to an external identity provider.
// (Provider, ProviderID) is unique; the link is immutable once created.
type SocialIdentity struct {
	ID         string    `db:"id"`
	Provider   string    `db:"provider"`
	ProviderID string    `db:"provider_id"`
	UserID     string    `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// TokenPair is an issued access/refresh token couple.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is what successful credential flows return: the resolved user
// (password hash excluded at the DTO boundary) and a fresh token pair.
type AuthResult struct {
	User   *User
	Tokens TokenPair
}
