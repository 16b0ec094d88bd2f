package contextx

// Key is a private type to avoid collisions in request context keys.
type Key string

// UserIDKey is the context key used to store the authenticated user's ID (string).
const UserIDKey Key = "userID"

// UserRoleKey is the context key used to store the authenticated user's role (string).
const UserRoleKey Key = "userRole"

// AccessTokenKey is the context key used to store the raw bearer access token (string).
// Logout deletes the session row matching this token.
const AccessTokenKey Key = "accessToken"
