package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/quillgate/quillgate/internal/model"
)

// UserRegistry is the capability the auth service needs from user storage.
type UserRegistry interface {
	// Register hashes password and stores a new record for email. Duplicate
	// emails are accepted.
	Register(ctx context.Context, email, password string) (*model.User, error)
	// FindByCredentials returns the first user, in insertion order, whose email
	// matches and whose stored hash verifies password. Returns nil when none match.
	FindByCredentials(ctx context.Context, email, password string) (*model.User, error)
}

// MemoryRegistry is an ordered, process-local UserRegistry safe for concurrent use.
//
// Every record for one email is hashed with the same salt, so a login runs one
// Argon2id derivation however many records share the email.
type MemoryRegistry struct {
	mu     sync.RWMutex
	users  []model.User
	salts  map[string][]byte
	hasher *PasswordHasher
}

// NewMemoryRegistry returns an empty registry that hashes passwords with hasher.
func NewMemoryRegistry(hasher *PasswordHasher) *MemoryRegistry {
	return &MemoryRegistry{hasher: hasher, salts: make(map[string][]byte)}
}

// Register implements UserRegistry.
func (r *MemoryRegistry) Register(ctx context.Context, email, password string) (*model.User, error) {
	salt, err := r.saltFor(email)
	if err != nil {
		return nil, err
	}

	hash, err := r.hasher.HashWithSalt(ctx, password, salt)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:           NewULID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	r.add(u)
	return &u, nil
}

func (r *MemoryRegistry) saltFor(email string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if salt, ok := r.salts[email]; ok {
		return salt, nil
	}
	salt, err := r.hasher.NewSalt()
	if err != nil {
		return nil, err
	}
	r.salts[email] = salt
	return salt, nil
}

func (r *MemoryRegistry) add(u model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, u)
}

// FindByCredentials implements UserRegistry.
func (r *MemoryRegistry) FindByCredentials(ctx context.Context, email, password string) (*model.User, error) {
	// Hash verification is slow; copy candidates out so the lock is not held during it.
	r.mu.RLock()
	var candidates []model.User
	for _, u := range r.users {
		if u.Email == email {
			candidates = append(candidates, u)
		}
	}
	r.mu.RUnlock()

	// Keyed by hash parameters and key length.
	derived := make(map[string][]byte)

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stored, err := parseHash(candidates[i].PasswordHash)
		if err != nil {
			continue
		}

		group := fmt.Sprintf("%s$%d", stored.params(), len(stored.key))
		computed, ok := derived[group]
		if !ok {
			computed, err = r.hasher.derive(ctx, password, stored, uint32(len(stored.key)))
			if err != nil {
				return nil, err
			}
			derived[group] = computed
		}

		if subtle.ConstantTimeCompare(computed, stored.key) == 1 {
			u := candidates[i]
			return &u, nil
		}
	}

	return nil, nil
}

// size returns the number of stored records.
func (r *MemoryRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
