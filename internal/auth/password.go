// Package auth hashes passwords, issues bearer tokens and guards HTTP routes.
package auth

import (
	stderrors "errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes and verifies passwords with bcrypt and an optional pepper.
type Passwords struct {
	Cost   int
	Pepper string
}

// Validate checks the bcrypt cost range and that the pepper leaves room for a password.
func (p Passwords) Validate() error {
	if p.Cost < bcrypt.MinCost || p.Cost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be %d-14)", p.Cost, bcrypt.MinCost)
	}
	if p.MaxLength() < 8 {
		return fmt.Errorf("password pepper is %d bytes, leaving no room for passwords", len(p.Pepper))
	}
	return nil
}

// maxPasswordBytes is bcrypt's input limit, pepper included
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash when the peppered password exceeds
// what bcrypt accepts.
var ErrPasswordTooLong = stderrors.New("password is too long")

// MaxLength returns the longest password Hash accepts, in bytes.
func (p Passwords) MaxLength() int {
	return maxPasswordBytes - len(p.Pepper)
}

// Hash returns the bcrypt hash of pw.
func (p Passwords) Hash(pw string) (string, error) {
	if len(pw) > p.MaxLength() {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+p.Pepper), p.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether pw matches the stored hash.
func (p Passwords) Verify(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+p.Pepper)) == nil
}
