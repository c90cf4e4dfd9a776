// Package auth issues and verifies bearer tokens and owns the user registry.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// Argon2Params are the Argon2id cost parameters.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
	// Concurrency caps derivations running at once; each holds Memory KiB.
	Concurrency int64
}

// DefaultArgon2Params follow the OWASP minimum for Argon2id.
var DefaultArgon2Params = Argon2Params{
	Time:        3,
	Memory:      64 * 1024,
	Threads:     4,
	KeyLen:      32,
	SaltLen:     16,
	Concurrency: 4,
}

// PasswordHasher hashes and verifies passwords in PHC string format.
type PasswordHasher struct {
	params Argon2Params
	sem    *semaphore.Weighted

	derivations atomic.Int64
}

// NewPasswordHasher returns a hasher using p. Zero fields fall back to DefaultArgon2Params.
func NewPasswordHasher(p Argon2Params) *PasswordHasher {
	if p.Time == 0 {
		p.Time = DefaultArgon2Params.Time
	}
	if p.Memory == 0 {
		p.Memory = DefaultArgon2Params.Memory
	}
	if p.Threads == 0 {
		p.Threads = DefaultArgon2Params.Threads
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultArgon2Params.KeyLen
	}
	if p.SaltLen == 0 {
		p.SaltLen = DefaultArgon2Params.SaltLen
	}
	if p.Concurrency <= 0 {
		p.Concurrency = DefaultArgon2Params.Concurrency
	}
	return &PasswordHasher{params: p, sem: semaphore.NewWeighted(p.Concurrency)}
}

// NewSalt returns SaltLen random bytes.
func (h *PasswordHasher) NewSalt() ([]byte, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Hash returns $argon2id$v=<ver>$m=<mem>,t=<time>,p=<threads>$<salt>$<hash>
// using a fresh random salt.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	salt, err := h.NewSalt()
	if err != nil {
		return "", err
	}
	return h.HashWithSalt(ctx, password, salt)
}

// HashWithSalt is Hash with a caller-supplied salt.
func (h *PasswordHasher) HashWithSalt(ctx context.Context, password string, salt []byte) (string, error) {
	encoded := phcHash{
		time:    h.params.Time,
		memory:  h.params.Memory,
		threads: h.params.Threads,
		salt:    salt,
	}
	key, err := h.derive(ctx, password, encoded, h.params.KeyLen)
	if err != nil {
		return "", err
	}
	encoded.key = key
	return encoded.String(), nil
}

// Verify checks password against a PHC hash using the parameters stored in the hash.
func (h *PasswordHasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	parsed, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}
	computed, err := h.derive(ctx, password, parsed, uint32(len(parsed.key)))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(computed, parsed.key) == 1, nil
}

// derive runs Argon2id once the semaphore admits it.
func (h *PasswordHasher) derive(ctx context.Context, password string, p phcHash, keyLen uint32) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer h.sem.Release(1)

	h.derivations.Add(1)
	return argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, keyLen), nil
}

// phcHash is a decoded Argon2id PHC string.
type phcHash struct {
	time    uint32
	memory  uint32
	threads uint8
	salt    []byte
	key     []byte
}

// parseHash decodes an Argon2id PHC string.
func parseHash(encoded string) (phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return phcHash{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return phcHash{}, ErrInvalidHash
	}
	if version != argon2.Version {
		return phcHash{}, ErrIncompatibleVersion
	}

	var p phcHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return phcHash{}, ErrInvalidHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return phcHash{}, ErrInvalidHash
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return phcHash{}, ErrInvalidHash
	}
	return p, nil
}

// params is the hash with its key removed; equal params derive equal keys
// for equal passwords.
func (p phcHash) params() string {
	return fmt.Sprintf("m=%d,t=%d,p=%d$%s", p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(p.salt))
}

func (p phcHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$%s$%s",
		argon2.Version, p.params(), base64.RawStdEncoding.EncodeToString(p.key))
}
