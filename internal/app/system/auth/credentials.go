package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials is the single configured admin account.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// Enabled reports whether an admin account is configured at all.
func (c AdminCredentials) Enabled() bool {
	return c.Email != "" && c.PasswordHash != ""
}

// Verify checks email (case-insensitively) and password against the bcrypt
// hash. The hash comparison always runs, even on an email mismatch.
func (c AdminCredentials) Verify(email, password string) bool {
	if !c.Enabled() {
		return false
	}
	want := strings.ToLower(strings.TrimSpace(c.Email))
	got := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	return emailOK && passOK
}

// IsBcryptHash reports whether s parses as a bcrypt hash.
func IsBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
