package roomid

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Room codes are short and human-shareable: six characters drawn from
// a decimal alphabet so they can be read out loud or typed on a phone
// keypad. Uniqueness under concurrent creation is the registry's
// responsibility, not the generator's.
const (
	alphabet = "0123456789"

	// Length is the number of characters in a room code.
	Length = 6
)

// RandSource interface for dependency injection of randomness
type RandSource interface {
	IntN(n int) int
}

// cryptoSource draws uniformly from crypto/rand. rand.Int rejection
// samples, so no digit is favoured.
type cryptoSource struct{}

func (cryptoSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("failed to generate random number: " + err.Error())
	}
	return int(v.Int64())
}

// Generator handles room code generation with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator; a nil RandSource falls back to
// crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	if randSource == nil {
		randSource = cryptoSource{}
	}
	return &Generator{randSource: randSource}
}

// Generate creates a new room code using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new room code using the generator's RandSource
func (g *Generator) Generate() string {
	buf := make([]byte, Length)
	for i := range buf {
		buf[i] = alphabet[g.randSource.IntN(len(alphabet))]
	}
	return string(buf)
}

// Validate checks if a room code is valid (6 characters, decimal digits)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if char < '0' || char > '9' {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
