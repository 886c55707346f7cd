package guestlist

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// ShortIDLength is the length of a guest's public token.
	ShortIDLength   = 5
	shortIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var alphabetSize = big.NewInt(int64(len(shortIDAlphabet)))

// NewShortID returns a random 5 character alphanumeric id. Each character is
// drawn uniformly and independently from the 62 letter alphabet.
func NewShortID() (string, error) {
	b := make([]byte, ShortIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate short id: %w", err)
		}
		b[i] = shortIDAlphabet[n.Int64()]
	}
	return string(b), nil
}
