// Package randtoken generates random tokens from a fixed alphabet using
// crypto/rand. Symbols are drawn with rejection sampling so every symbol of
// the alphabet is equally likely.
package randtoken

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
)

// Base36 is upper-case ASCII letters followed by digits.
const Base36 = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrBadAlphabet = errors.New("alphabet must hold 2..256 unique symbols")

type Generator struct {
	alphabet string
	src      io.Reader
}

// New returns a Generator over alphabet reading entropy from crypto/rand.
func New(alphabet string) (*Generator, error) {
	return NewWithSource(alphabet, rand.Reader)
}

// NewWithSource is New with an explicit entropy source.
func NewWithSource(alphabet string, src io.Reader) (*Generator, error) {
	if len(alphabet) < 2 || len(alphabet) > 256 {
		return nil, ErrBadAlphabet
	}

	seen := make(map[byte]struct{}, len(alphabet))
	for i := range len(alphabet) {
		if _, dup := seen[alphabet[i]]; dup {
			return nil, ErrBadAlphabet
		}
		seen[alphabet[i]] = struct{}{}
	}

	return &Generator{alphabet: alphabet, src: src}, nil
}

// String returns n random symbols.
func (g *Generator) String(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}

	size := len(g.alphabet)
	// Largest multiple of size that fits in a byte; bytes at or above it are
	// discarded so the modulo below stays unbiased.
	limit := 256 - 256%size

	out := make([]byte, 0, n)
	buf := make([]byte, n+n/2)

	for len(out) < n {
		_, err := io.ReadFull(g.src, buf)
		if err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, g.alphabet[int(b)%size])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}

// EntropyBits reports the entropy of an n-symbol token.
func (g *Generator) EntropyBits(n int) float64 {
	return float64(n) * math.Log2(float64(len(g.alphabet)))
}
