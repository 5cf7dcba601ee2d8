package crypto

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies staff passwords
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new PasswordHasher with the default cost
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// HashPassword hashes a plaintext password
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash verifies a plaintext password against a hash
func (h *PasswordHasher) CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
