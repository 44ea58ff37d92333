// Package auth verifies the admin credential against its configured hash.
//
// Two hash formats are accepted so deployments can migrate off the legacy
// scheme without a coordinated rotation:
//
//	pbkdf2_sha256$<rounds>$<salt>$<digest>   current, base64url fields
//	<hex sha-256 digest>                     legacy
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Prefix = "pbkdf2_sha256$"

	minRounds = 100_000
	maxRounds = 5_000_000

	minSaltLen   = 16
	minDigestLen = 32

	// DefaultRounds is the cost used when generating new hashes.
	DefaultRounds = 600_000
)

// VerifyPassword reports whether password matches storedHash. It is total:
// any malformed or out-of-range hash verifies as false, never as an error.
func VerifyPassword(password, storedHash string) bool {
	if password == "" || storedHash == "" {
		return false
	}

	if strings.HasPrefix(storedHash, pbkdf2Prefix) {
		return verifyPBKDF2(password, storedHash)
	}

	return verifyLegacyDigest(password, storedHash)
}

func verifyPBKDF2(password, storedHash string) bool {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 4 {
		return false
	}

	rounds, err := strconv.Atoi(parts[1])
	if err != nil || rounds < minRounds || rounds > maxRounds {
		return false
	}

	salt, err := decodeBase64URL(parts[2])
	if err != nil || len(salt) < minSaltLen {
		return false
	}

	expected, err := decodeBase64URL(parts[3])
	if err != nil || len(expected) < minDigestLen {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, rounds, len(expected), sha256.New)
	return constantTimeEquals(derived, expected)
}

func verifyLegacyDigest(password, storedHash string) bool {
	digest := sha256.Sum256([]byte(password))
	provided := hex.EncodeToString(digest[:])
	return constantTimeEquals([]byte(provided), []byte(strings.ToLower(storedHash)))
}

// HashPassword produces a hash in the structured PBKDF2 format with a fresh
// random salt. Used by operator tooling, not by the request path.
func HashPassword(password string) (string, error) {
	return hashWithRounds(password, DefaultRounds)
}

func hashWithRounds(password string, rounds int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	salt := make([]byte, minSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, rounds, minDigestLen, sha256.New)

	enc := base64.RawURLEncoding
	return fmt.Sprintf("pbkdf2_sha256$%d$%s$%s", rounds, enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

// decodeBase64URL accepts base64url with or without padding.
func decodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

// constantTimeEquals compares two byte slices in time independent of where
// they first differ. Unlike subtle.ConstantTimeCompare it still walks every
// position when lengths differ, treating missing bytes as zero, so a length
// mismatch cannot short-circuit.
func constantTimeEquals(a, b []byte) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var diff byte
	if len(a) != len(b) {
		diff = 1
	}
	for i := 0; i < n; i++ {
		var ab, bb byte
		if i < len(a) {
			ab = a[i]
		}
		if i < len(b) {
			bb = b[i]
		}
		diff |= ab ^ bb
	}
	return diff == 0
}
