// Package password verifies account passwords.
//
// New hashes are bcrypt. Older accounts carry SHA-256 hashes written by
// several earlier clients that disagreed on text encoding, salt format and
// concatenation order, so verification tries every combination those
// clients are known to have produced.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// ComputeHashCanonical is the lower-case hex SHA-256 of UTF-8(salt + password).
func ComputeHashCanonical(salt, password string) string {
	return sha256Hex([]byte(salt + password))
}

// IsBcrypt reports whether hash was produced by bcrypt.
func IsBcrypt(hash string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}
	return false
}

// HashBcrypt hashes password with the default bcrypt cost.
func HashBcrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// NewSalt returns 16 random bytes as upper-case hex.
func NewSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// Result tells how a password matched.
type Result struct {
	OK bool
	// Legacy is set when the match came from a SHA-256 scheme rather than bcrypt.
	Legacy bool
}

// Verify checks password against a stored hash and its salt.
func Verify(storedHash, salt, password string) Result {
	if IsBcrypt(storedHash) {
		err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
		return Result{OK: err == nil}
	}
	if VerifyLegacy(storedHash, salt, password) {
		return Result{OK: true, Legacy: true}
	}
	return Result{}
}

// VerifyLegacy tries every encoding, salt variant and composition. The
// comparison ignores hex case.
func VerifyLegacy(storedHash, salt, password string) bool {
	if storedHash == "" {
		return false
	}
	want := []byte(strings.ToLower(storedHash))

	for _, enc := range Encodings {
		for _, variant := range SaltVariants(salt) {
			for _, candidate := range candidates(enc, variant, password) {
				if subtle.ConstantTimeCompare([]byte(candidate), want) == 1 {
					return true
				}
			}
		}
	}
	return false
}

// SaltVariants returns the distinct salts among raw, trimmed, upper-cased
// and lower-cased, in that order.
func SaltVariants(salt string) []string {
	variants := make([]string, 0, 4)
	for _, v := range []string{salt, strings.TrimSpace(salt), strings.ToUpper(salt), strings.ToLower(salt)} {
		if !contains(variants, v) {
			variants = append(variants, v)
		}
	}
	return variants
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

// Composition names the way salt and password bytes were joined.
type Composition int

const (
	HexSaltFirst Composition = iota
	HexSaltLast
	TextSaltFirst
	TextSaltLast
)

func (c Composition) String() string {
	switch c {
	case HexSaltFirst:
		return "hexBytes+saltFirst"
	case HexSaltLast:
		return "hexBytes+passFirst"
	case TextSaltFirst:
		return "text+saltFirst"
	default:
		return "text+passFirst"
	}
}

// ComputeHash hashes salt and password joined as c describes. A salt that
// is not valid hex falls back to its text bytes in the hex compositions.
func ComputeHash(enc Encoding, salt, password string, c Composition) string {
	var saltBytes []byte
	if c == HexSaltFirst || c == HexSaltLast {
		saltBytes, _ = decodeHex(salt)
	}
	if saltBytes == nil {
		saltBytes = enc.Encode(salt)
	}

	passBytes := enc.Encode(password)

	input := make([]byte, 0, len(saltBytes)+len(passBytes))
	if c == HexSaltFirst || c == TextSaltFirst {
		input = append(append(input, saltBytes...), passBytes...)
	} else {
		input = append(append(input, passBytes...), saltBytes...)
	}
	return sha256Hex(input)
}

func candidates(enc Encoding, salt, password string) []string {
	textSaltFirst := ComputeHash(enc, salt, password, TextSaltFirst)
	textSaltLast := ComputeHash(enc, salt, password, TextSaltLast)

	return []string{
		ComputeHash(enc, salt, password, HexSaltFirst),
		ComputeHash(enc, salt, password, HexSaltLast),
		textSaltFirst,
		textSaltLast,
		sha256Hex(enc.Encode(password)),
		sha256Hex([]byte(textSaltFirst)),
		sha256Hex([]byte(textSaltLast)),
	}
}

// LooksLikeHex reports whether salt decodes as an even-length hex string.
func LooksLikeHex(salt string) bool {
	_, ok := decodeHex(salt)
	return ok
}

func decodeHex(s string) ([]byte, bool) {
	if s == "" || len(s)%2 != 0 {
		return nil, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
