// Package credential authenticates (username, password) pairs against a
// fixed in-memory account table loaded at startup.
package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/gatehouse-dev/gatehouse/internal/identity"
)

var ErrNotFound = errors.New("account not found")

// dummyHash is burned on lookups of unknown usernames so a failed lookup
// costs the same as a failed password comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Store struct {
	accounts map[string]identity.Account
}

func NewStore(accounts []identity.Account) *Store {
	m := make(map[string]identity.Account, len(accounts))
	for _, a := range accounts {
		m[a.Username] = a
	}
	return &Store{accounts: m}
}

// Verify reports whether plaintext is the password for username. It fails
// closed: an unknown username and a wrong password are indistinguishable to
// the caller. The stored hash is self-describing (bcrypt embeds algorithm,
// cost, and salt), so no side channel is needed for verification.
func (s *Store) Verify(username, plaintext string) bool {
	a, ok := s.accounts[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)) == nil
}

// RolesOf returns the configured roles for username. Callers are expected to
// have verified the account first; an unknown username is ErrNotFound.
func (s *Store) RolesOf(username string) ([]string, error) {
	a, ok := s.accounts[username]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string(nil), a.Roles...), nil
}
