package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost of stored passwords
const BcryptCost = 12

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
