package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user User
	hash []byte
}

// MemStore keeps accounts for the life of the process.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int

	dummyOnce sync.Once
	dummy     []byte
}

func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[string]account), cost: bcrypt.DefaultCost}
}

func (s *MemStore) Create(_ context.Context, email, password, role string) (User, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[email]; ok {
		return User{}, ErrEmailExists
	}

	u := User{ID: "u_" + uuid.NewString(), Email: email, Role: role}
	s.accounts[email] = account{user: u, hash: hash}
	return u, nil
}

func (s *MemStore) Verify(_ context.Context, email, password string) (User, error) {
	s.mu.RLock()
	a, ok := s.accounts[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok {
		// Unknown emails cost one compare, same as a wrong password.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return a.user, nil
}

// dummyHash is hashed at the store's cost so a miss costs as much as a hit.
func (s *MemStore) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("catalog"), s.cost)
	})
	return s.dummy
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
