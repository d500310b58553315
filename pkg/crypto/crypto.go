package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCodeLength is the number of digits in generated verification codes.
const DefaultCodeLength = 6

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken returns a random URL-safe token of the requested byte length.
func GenerateToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// NumericCode returns a random code of the requested digit count.
// Digits are drawn from crypto/rand with rejection sampling so the
// distribution stays uniform.
func NumericCode(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("crypto: code length must be positive")
	}

	code := make([]byte, 0, length)
	buffer := make([]byte, 1)
	for len(code) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		// 250 is the largest multiple of 10 below 256.
		if buffer[0] >= 250 {
			continue
		}
		code = append(code, '0'+buffer[0]%10)
	}

	return string(code), nil
}
