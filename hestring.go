// Package hestring implements string operations over homomorphically
// encrypted ASCII strings: case folding, trimming, repetition, length,
// concatenation, and a pattern-matching engine providing containment,
// anchored matching, equality, search and strip operations.
//
// A string ciphertext is a fixed-length vector of independently encrypted
// bytes together with public Padding flags declaring where zero bytes may
// occur. The slot count is public; the true content length is not: zero
// bytes inside the declared regions are transparent to every operation, so
// two ciphertexts of the same slot count are indistinguishable regardless
// of how much of them is padding.
//
// All operations are pure transforms evaluated under the engine installed
// with fhe.SetServerKey.
package hestring

import (
	"runtime"
	"sync/atomic"

	"github.com/tuneinsight/hestring/fhe"
)

// Whitespace bytes recognized by the trim operations: tab, newline,
// vertical tab, carriage return, space.
var asciiWhitespace = [5]uint8{9, 10, 11, 13, 32}

const upLowDistance = 32

// Padding declares the regions of a string ciphertext that may hold zero
// bytes. The flags are public and monotone: operations that can introduce
// zeros in a region set the matching flag and never clear another.
type Padding struct {
	Start  bool
	Middle bool
	End    bool
}

// HasAny reports whether any region may hold padding.
func (p Padding) HasAny() bool {
	return p.Start || p.Middle || p.End
}

// Char is one encrypted ASCII byte of a string.
type Char struct {
	Byte fhe.Uint8
}

// Eq returns whether two encrypted bytes are equal.
func (c Char) Eq(o Char) fhe.Bool {
	return c.Byte.Eq(o.Byte)
}

// IsWhitespace returns whether the byte is an ASCII whitespace character.
func (c Char) IsWhitespace() fhe.Bool {
	res := c.Byte.EqByte(asciiWhitespace[0])
	for _, w := range asciiWhitespace[1:] {
		res = res.Or(c.Byte.EqByte(w))
	}
	return res
}

func (c Char) toUpper() Char {
	letter := c.Byte.GtByte(96).And(c.Byte.LtByte(123))
	return Char{c.Byte.Sub(letter.AsUint8().MulByte(upLowDistance))}
}

func (c Char) toLower() Char {
	letter := c.Byte.GtByte(64).And(c.Byte.LtByte(91))
	return Char{c.Byte.Add(letter.AsUint8().MulByte(upLowDistance))}
}

// Ciphertext is an encrypted ASCII string: an ordered vector of encrypted
// bytes plus its public Padding descriptor. Ciphertexts are immutable;
// every operation returns a fresh value.
type Ciphertext struct {
	Chars   []Char
	Padding Padding
}

// Slots returns the public slot count of the ciphertext. It is an upper
// bound on the content length, which remains secret.
func (s *Ciphertext) Slots() int { return len(s.Chars) }

var workers atomic.Int64

func init() {
	workers.Store(int64(runtime.GOMAXPROCS(0)))
}

// SetWorkers sets the number of goroutines used to evaluate matching plans.
// Values below 1 reset it to GOMAXPROCS.
func SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	workers.Store(int64(n))
}

func numWorkers() int { return int(workers.Load()) }
