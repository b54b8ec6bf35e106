package util

import (
	"golang.org/x/crypto/bcrypt"
)

// Work factor for stored merchant password hashes. Raising it only affects
// newly created hashes; existing ones verify at the cost they were written with.
const passwordHashCost = 12

// HashPassword derives the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
