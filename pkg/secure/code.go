package secure

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// maxCodeDigits keeps 10^digits inside an int64.
const maxCodeDigits = 18

// GenerateNumericCode returns a numeric code of the given length drawn uniformly from
// [0, 10^digits) using crypto/rand. Leading zeros are kept, so "004211" is a valid code.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > maxCodeDigits {
		return "", errors.New("code length must be between 1 and 18 digits")
	}

	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// HashCode returns the hex-encoded SHA-256 digest of a code.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CodeEqual reports whether submitted hashes to storedHash, comparing in constant time.
func CodeEqual(submitted, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashCode(submitted)), []byte(storedHash)) == 1
}
