package facet

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// HashAlgo names a builtin hasher usable with the Hash transformer.
type HashAlgo string

const (
	HashArgon2 HashAlgo = "argon2" // salted, encoded as $argon2id$...
	HashBcrypt HashAlgo = "bcrypt" // salted, encoded as $2a$...
	HashSHA256 HashAlgo = "sha256" // unsalted hex digest, for fingerprints only
	HashSHA512 HashAlgo = "sha512" // unsalted hex digest, for fingerprints only
)

// Hasher replaces a serialized field value with a one-way digest.
type Hasher interface {
	Hash(value string) (string, error)
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(value string) (string, error)

// Hash calls fn.
func (fn HasherFunc) Hash(value string) (string, error) { return fn(value) }

// hashers builds the builtin hasher for each algorithm.
var hashers = map[HashAlgo]func() Hasher{
	HashArgon2: func() Hasher { return Argon2(DefaultArgon2) },
	HashBcrypt: func() Hasher { return Bcrypt(bcrypt.DefaultCost) },
	HashSHA256: func() Hasher { return digest(sha256.New) },
	HashSHA512: func() Hasher { return digest(sha512.New) },
}

// IsValidHashAlgo reports whether algo names a builtin hasher.
func IsValidHashAlgo(algo HashAlgo) bool {
	_, ok := hashers[algo]
	return ok
}

// HasherFor returns the builtin hasher for algo.
func HasherFor(algo HashAlgo) (Hasher, bool) {
	build, ok := hashers[algo]
	if !ok {
		return nil, false
	}
	return build(), true
}

// Argon2Config tunes the Argon2id hasher. Memory is in KiB.
type Argon2Config struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2 follows the OWASP baseline for Argon2id.
var DefaultArgon2 = Argon2Config{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

// Argon2 hashes with Argon2id under cfg, emitting the PHC string format.
func Argon2(cfg Argon2Config) Hasher {
	return HasherFunc(func(value string) (string, error) {
		salt := make([]byte, cfg.SaltLen)
		if _, err := rand.Read(salt); err != nil {
			return "", fmt.Errorf("argon2 salt: %w", err)
		}
		key := argon2.IDKey([]byte(value), salt, cfg.Time, cfg.Memory, cfg.Threads, cfg.KeyLen)
		enc := base64.RawStdEncoding
		return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
			argon2.Version, cfg.Memory, cfg.Time, cfg.Threads,
			enc.EncodeToString(salt), enc.EncodeToString(key)), nil
	})
}

// Bcrypt hashes with bcrypt at the given cost.
// Values longer than 72 bytes are rejected by bcrypt.
func Bcrypt(cost int) Hasher {
	return HasherFunc(func(value string) (string, error) {
		out, err := bcrypt.GenerateFromPassword([]byte(value), cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(out), nil
	})
}

func digest(newHash func() hash.Hash) Hasher {
	return HasherFunc(func(value string) (string, error) {
		h := newHash()
		h.Write([]byte(value))
		return hex.EncodeToString(h.Sum(nil)), nil
	})
}
