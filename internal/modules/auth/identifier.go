package auth

import (
	"regexp"
	"strings"
)

// IdentifierKind tags which unique user column an identifier addresses.
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
)

// Identifier is a tagged variant resolving a free-form "email or phone"
// input to exactly one lookup column.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ParseIdentifier classifies a raw identifier as an email address or a phone
// number. Inputs matching neither pattern are rejected so they never reach
// the store as a two-column OR match.
func ParseIdentifier(raw string) (Identifier, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case emailPattern.MatchString(raw):
		return Identifier{Kind: IdentifierEmail, Value: strings.ToLower(raw)}, true
	case phonePattern.MatchString(raw):
		return Identifier{Kind: IdentifierPhone, Value: raw}, true
	default:
		return Identifier{}, false
	}
}
