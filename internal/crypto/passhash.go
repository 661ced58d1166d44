// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns a self-contained PHC-encoded Argon2id digest of
// password with a fresh random salt. The digest is suitable for storage in a
// single column and for later verification with VerifyPassword.
func HashPassword(password string) (string, error) {
	salt, err := RandBytes(saltLen)
	if err != nil {
		return "", err
	}
	return encode(hashWithSalt([]byte(password), salt), salt), nil
}

// VerifyPassword reports whether password matches the PHC-encoded digest.
// Malformed digests verify as false.
func VerifyPassword(password, digest string) bool {
	key, salt, err := decode(digest)
	if err != nil {
		return false
	}
	got := hashWithSalt([]byte(password), salt)
	return subtle.ConstantTimeCompare(got, key) == 1
}

func hashWithSalt(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// encode renders the standard PHC string: $argon2id$v=19$m=...,t=...,p=...$salt$key.
func encode(key, salt []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func decode(digest string) (key, salt []byte, err error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, fmt.Errorf("malformed digest")
	}
	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, fmt.Errorf("unsupported argon2 version")
	}
	var m uint32
	var t uint32
	var p uint8
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return nil, nil, fmt.Errorf("malformed digest params")
	}
	if m != argonMemory || t != argonTime || p != argonThreads {
		return nil, nil, fmt.Errorf("unsupported argon2 params")
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, err
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}
