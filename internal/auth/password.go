// Package auth is the credential/session collaborator: bcrypt password
// hashing and HS256 JWT issue/verify.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword securely hashes a plain text password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain text password with a stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
