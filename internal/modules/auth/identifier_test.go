package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  Identifier
		valid bool
	}{
		{"email", "shopper@example.com", Identifier{IdentifierEmail, "shopper@example.com"}, true},
		{"email is lowercased", "Shopper@Example.COM", Identifier{IdentifierEmail, "shopper@example.com"}, true},
		{"email with surrounding space", "  shopper@example.com ", Identifier{IdentifierEmail, "shopper@example.com"}, true},
		{"phone with plus", "+2348012345678", Identifier{IdentifierPhone, "+2348012345678"}, true},
		{"phone without plus", "2348012345678", Identifier{IdentifierPhone, "2348012345678"}, true},
		{"phone too short", "+12345", Identifier{}, false},
		{"phone leading zero", "+0348012345678", Identifier{}, false},
		{"not an email or phone", "just-a-name", Identifier{}, false},
		{"email missing tld", "shopper@example", Identifier{}, false},
		{"empty", "", Identifier{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseIdentifier(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
