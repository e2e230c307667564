// Package security contains everything related to the security of user data
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	argonPrefix  = "$argon2id$"
	legacyPrefix = "$pbkdf2-sha256$"

	legacyIterations = 29000
)

// Hasher turns plaintext passwords into PHC-style encoded verifiers and
// checks candidates against them. The primary format is argon2id. A legacy
// pbkdf2-sha256 format is still accepted on read, and is produced instead
// of argon2id when ForceLegacy is set so that registration keeps working
// on deployments where the memory-hard path is disabled.
type Hasher struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	ForceLegacy bool
}

func NewHasher() *Hasher {
	return &Hasher{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hash encodes p into a storable verifier. It never hard-fails the caller
// over the choice of algorithm: if the argon2id path is unavailable the
// legacy format is produced instead.
func (h *Hasher) Hash(p string) (string, error) {
	salt, err := genRandByt(h.SaltLength)
	if err != nil {
		return "", err
	}

	if h.ForceLegacy {
		return h.legacyHash(p, salt), nil
	}

	hash := argon2.IDKey([]byte(p), salt, h.Iterations, h.Memory, h.Parallelism, h.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%sv=19$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix, h.Memory, h.Iterations, h.Parallelism, b64Salt, b64Hash), nil
}

func (h *Hasher) legacyHash(p string, salt []byte) string {
	key := pbkdf2.Key([]byte(p), salt, legacyIterations, int(h.KeyLength), sha256.New)

	return fmt.Sprintf("%si=%d$%s$%s",
		legacyPrefix,
		legacyIterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// Verify reports whether p matches the encoded verifier e. A malformed or
// unrecognized verifier verifies as false instead of erroring, but the
// legacy path is still attempted on unknown tags in case the format tag
// itself got mangled.
func (h *Hasher) Verify(p, e string) bool {
	switch {
	case strings.HasPrefix(e, argonPrefix):
		return verifyArgon(p, e)
	case strings.HasPrefix(e, legacyPrefix):
		return verifyLegacy(p, e)
	default:
		return verifyLegacy(p, e)
	}
}

func verifyArgon(p, e string) bool {
	parts := strings.Split(e, "$")
	if len(parts) != 6 {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	calcHash := argon2.IDKey([]byte(p), salt, iterations, memory, parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, calcHash) == 1
}

func verifyLegacy(p, e string) bool {
	parts := strings.Split(e, "$")
	if len(parts) != 5 {
		return false
	}

	var iterations int
	if _, err := fmt.Sscanf(parts[2], "i=%d", &iterations); err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	calcHash := pbkdf2.Key([]byte(p), salt, iterations, len(hash), sha256.New)

	return subtle.ConstantTimeCompare(hash, calcHash) == 1
}

func genRandByt(n uint32) ([]byte, error) {
	b := make([]byte, n)

	_, err := rand.Read(b)
	if err != nil {
		zap.L().Error("Failed to read random bytes", zap.Error(err))
		return nil, err
	}

	return b, nil
}
