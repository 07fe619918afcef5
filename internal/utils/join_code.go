package utils

import (
	"crypto/rand"
	"fmt"
)

const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const joinCodeLength = 8

// GenerateJoinCode generates a random 8-character group join code.
// The alphabet omits easily confused characters (0/O, 1/I).
func GenerateJoinCode() (string, error) {
	bytes := make([]byte, joinCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	code := make([]byte, joinCodeLength)
	for i, b := range bytes {
		code[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}

	return string(code), nil
}
