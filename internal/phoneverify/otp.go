package phoneverify

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Code length bounds accepted by GenerateCode and WithCodeLength.
const (
	DefaultCodeLength = 6
	MinCodeLength     = 4
	MaxCodeLength     = 10
)

var ten = big.NewInt(10)

// GenerateCode returns a numeric code of length digits, each drawn uniformly from crypto/rand.
func GenerateCode(length int) (string, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return "", fmt.Errorf("phoneverify: code length %d outside [%d, %d]", length, MinCodeLength, MaxCodeLength)
	}
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}

// HashCode binds code to its challenge: the same code under another challenge ID hashes
// differently, so a stored hash cannot be replayed across challenges.
func HashCode(challengeID, code string) string {
	h := sha256.New()
	h.Write([]byte(challengeID))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// CodeMatches reports in constant time whether code hashes to storedHash under challengeID.
func CodeMatches(challengeID, code, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashCode(challengeID, code)), []byte(storedHash)) == 1
}
