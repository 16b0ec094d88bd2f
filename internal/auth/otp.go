package auth

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
)

// otpSpan covers the 6-digit range [100000, 999999].
var otpSpan = big.NewInt(900000)

// OTPGenerator produces 6-digit one-time passcodes from an injected
// randomness source. The source is cryptographically secure by default;
// codes double as login and reset credentials, so a weaker generator
// is not acceptable here.
type OTPGenerator struct {
	rand io.Reader
}

// NewOTPGenerator returns a generator backed by crypto/rand.
func NewOTPGenerator() *OTPGenerator {
	return &OTPGenerator{rand: rand.Reader}
}

// NewOTPGeneratorWithSource returns a generator reading randomness from r.
// Intended for deterministic tests.
func NewOTPGeneratorWithSource(r io.Reader) *OTPGenerator {
	return &OTPGenerator{rand: r}
}

// Generate returns a uniformly distributed 6-digit decimal string.
func (g *OTPGenerator) Generate() (string, error) {
	n, err := rand.Int(g.rand, otpSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
