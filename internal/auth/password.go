package auth

import "golang.org/x/crypto/bcrypt"

// passwordCost is the bcrypt work factor used for all stored credentials.
const passwordCost = 10

// HashPassword derives a salted bcrypt hash from a plaintext password.
// No strength policy is applied here; that belongs to request validation.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a plaintext password with a stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
