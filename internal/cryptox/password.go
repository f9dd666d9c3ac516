// Package cryptox implements one-way password hashing for account credentials.
//
// New hashes are argon2id in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// where salt and key are unpadded standard base64. Hashes written by the legacy
// bcrypt-based service ($2a$, $2b$, $2y$) are still accepted by Verify and are
// reported by NeedsRehash so they can be upgraded on the next successful login.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const argon2idPrefix = "$argon2id$"

// Params are the argon2id cost parameters. Memory is in KiB.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams is argon2id at t=1, 64 MiB, p=4.
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// Hasher hashes and verifies passwords with a fixed set of Params.
type Hasher struct {
	params Params
}

// NewHasher returns a Hasher using p.
func NewHasher(p Params) *Hasher {
	return &Hasher{params: p}
}

var defaultHasher = NewHasher(DefaultParams)

// HashPassword hashes plaintext with DefaultParams.
func HashPassword(plaintext string) (string, error) {
	return defaultHasher.Hash(plaintext)
}

// VerifyPassword reports whether plaintext matches encoded.
func VerifyPassword(plaintext, encoded string) bool {
	return defaultHasher.Verify(plaintext, encoded)
}

// deriveKey is the argon2id primitive shared by Hash and Verify.
func deriveKey(password, salt []byte, p Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// Hash returns a salted argon2id encoding of plaintext. Every call draws a
// fresh salt, so hashing the same input twice yields different strings.
// An empty plaintext is rejected with common.ErrorInvalidInput.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrorInvalidInput)
	}

	salt := common.GenerateRandByteArray(int(h.params.SaltLen))
	key := deriveKey([]byte(plaintext), salt, h.params)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches encoded. It never fails: an empty,
// truncated or otherwise malformed encoding simply does not match, so callers
// cannot tell a wrong password from a corrupt record.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	if plaintext == "" || encoded == "" {
		return false
	}

	if isBcrypt(encoded) {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
	}

	p, salt, key, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}

	candidate := deriveKey([]byte(plaintext), salt, p)
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// NeedsRehash reports whether encoded was produced by another algorithm or
// with parameters other than the hasher's. Malformed encodings need a rehash too.
func (h *Hasher) NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	p, _, _, err := decodeArgon2id(encoded)
	if err != nil {
		return true
	}
	return p != h.params
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// Upper bounds for parameters read back from a stored hash. Anything above
// them is treated as corrupt rather than derived.
const (
	maxTime    = 10
	maxMemory  = 1 << 20 // KiB, 1 GiB
	maxThreads = 16
	maxSaltLen = 64
	maxKeyLen  = 128
)

// decodeArgon2id parses a PHC argon2id string. The returned Params carry the
// salt and key lengths actually found in the encoding.
func decodeArgon2id(encoded string) (Params, []byte, []byte, error) {
	var p Params

	if !strings.HasPrefix(encoded, argon2idPrefix) {
		return p, nil, nil, fmt.Errorf("unknown hash format")
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return p, nil, nil, fmt.Errorf("unexpected number of sections: %d", len(parts))
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, err
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, err
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, fmt.Errorf("zero cost parameter")
	}
	if p.Memory > maxMemory || p.Time > maxTime || p.Threads > maxThreads {
		return p, nil, nil, fmt.Errorf("cost parameter out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 || len(salt) > maxSaltLen {
		return p, nil, nil, fmt.Errorf("bad salt")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLen {
		return p, nil, nil, fmt.Errorf("bad key")
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}
