package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and wrong algorithms.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned for a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// TokenPayload is the identity claim set carried by both token kinds.
// It is derived from the user at issuance and reconstructed at verification.
type TokenPayload struct {
	UserID string
	Email  string
	Role   string
}

// claims is the JWT claim structure for access and refresh tokens.
type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssuerConfig carries the two independently keyed signing contexts.
// Secrets are injected explicitly at construction; the issuer never reads
// ambient state.
type IssuerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration // default 15 minutes
	RefreshTTL    time.Duration // default 7 days
}

// Issuer signs and verifies access and refresh tokens with HMAC-SHA256.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer creates a token issuer from explicit configuration.
func NewIssuer(cfg IssuerConfig) *Issuer {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// AccessTTL reports the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL reports the configured refresh token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess mints a signed access token for the given payload.
func (i *Issuer) IssueAccess(p TokenPayload) (string, error) {
	return i.sign(p, i.accessSecret, i.accessTTL)
}

// IssueRefresh mints a signed refresh token for the given payload.
func (i *Issuer) IssueRefresh(p TokenPayload) (string, error) {
	return i.sign(p, i.refreshSecret, i.refreshTTL)
}

// VerifyAccess checks signature and expiry of an access token and returns its payload.
func (i *Issuer) VerifyAccess(token string) (TokenPayload, error) {
	return i.verify(token, i.accessSecret)
}

// VerifyRefresh checks signature and expiry of a refresh token and returns its payload.
func (i *Issuer) VerifyRefresh(token string) (TokenPayload, error) {
	return i.verify(token, i.refreshSecret)
}

func (i *Issuer) sign(p TokenPayload, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	c := claims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

func (i *Issuer) verify(token string, secret []byte) (TokenPayload, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, ErrTokenExpired
		}
		return TokenPayload{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return TokenPayload{}, ErrTokenInvalid
	}
	return TokenPayload{UserID: c.UserID, Email: c.Email, Role: c.Role}, nil
}
