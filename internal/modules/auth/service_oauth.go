package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

const (
	providerGoogle = "google"

	oauthStatePrefix = "oauth:state:"
	oauthStateTTL    = 5 * time.Minute

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// googleUserInfo is the subset of the OpenID userinfo response we consume.
type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// InitiateOAuthLogin starts the provider web flow and returns the URL to
// redirect the browser to. The state token and its PKCE verifier live in
// Redis for a short window; the callback consumes them exactly once.
func (s *service) InitiateOAuthLogin(ctx context.Context, provider string) (string, error) {
	if strings.ToLower(provider) != providerGoogle || s.google == nil {
		return "", ErrUnsupportedProvider
	}

	state, err := generateSecureToken()
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	verifier := oauth2.GenerateVerifier()

	if err := s.redis.Set(ctx, oauthStatePrefix+state, verifier, oauthStateTTL).Err(); err != nil {
		return "", s.storeErr(ctx, "store oauth state", err)
	}

	return s.google.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// CompleteOAuthLogin finishes the provider web flow: it validates the state,
// exchanges the authorization code and hands the asserted identity to the
// social sign-in path.
func (s *service) CompleteOAuthLogin(ctx context.Context, provider, state, code string) (*AuthResult, error) {
	if strings.ToLower(provider) != providerGoogle || s.google == nil {
		return nil, ErrUnsupportedProvider
	}

	// GETDEL makes the state single-use: a replayed callback finds nothing.
	verifier, err := s.redis.GetDel(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrOAuthStateInvalid
		}
		return nil, s.storeErr(ctx, "load oauth state", err)
	}

	token, err := s.google.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}

	info, err := s.fetchGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}
	if info.Sub == "" {
		return nil, ErrOAuthExchangeFailed
	}

	in := SocialSignInInput{
		Provider:   providerGoogle,
		ProviderID: info.Sub,
		Name:       info.Name,
	}
	if info.EmailVerified {
		in.Email = info.Email
	}
	return s.SocialSignIn(ctx, in)
}

func (s *service) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.google.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}

// generateSecureToken returns a 256-bit URL-safe random token.
func generateSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
