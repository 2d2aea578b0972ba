// Package clear implements an insecure reference engine for the fhe
// primitive layer. Values are held as their cleartext residue mod fhe.T,
// masked at rest by a keyed blake3 stream under a per-value nonce, and every
// operation is evaluated directly on the unmasked integers.
//
// The engine shares the masking key with the client key, so it can unmask
// operands, which is also what makes it insecure. It exists to give
// the string library a fast, exact oracle: its arithmetic, equality and
// comparison semantics match the lattigo-backed engine bit for bit, so
// circuits debugged here behave identically under real homomorphic
// evaluation.
package clear

import (
	"encoding/binary"
	"sync"

	"github.com/tuneinsight/lattigo/v5/utils/sampling"
	"github.com/zeebo/blake3"

	"github.com/tuneinsight/hestring/fhe"
)

const keySize = 32

type ciphertext struct {
	nonce   [16]byte
	body    uint64
	trivial bool
}

// Engine evaluates operations on clear-backed values. It implements
// fhe.Engine and is safe for concurrent use.
type Engine struct {
	key [keySize]byte

	mu   sync.Mutex
	prng sampling.PRNG
}

// ClientKey encrypts and decrypts clear-backed values.
type ClientKey struct {
	eng *Engine
}

// NewClientKey generates a fresh masking key and returns the client key for
// it.
func NewClientKey() (*ClientKey, error) {
	prng, err := sampling.NewPRNG()
	if err != nil {
		return nil, err
	}
	eng := &Engine{prng: prng}
	if _, err := prng.Read(eng.key[:]); err != nil {
		return nil, err
	}
	return &ClientKey{eng: eng}, nil
}

// ServerKey returns the evaluation engine derived from the client key.
func (ck *ClientKey) ServerKey() fhe.Engine { return ck.eng }

// Encrypt masks v mod fhe.T under a fresh nonce.
func (ck *ClientKey) Encrypt(v uint64) fhe.Value { return ck.eng.mask(v % fhe.T) }

// Decrypt unmasks a value produced by this key's engine.
func (ck *ClientKey) Decrypt(v fhe.Value) uint64 { return ck.eng.unmask(v) }

func (e *Engine) stream(nonce [16]byte) uint64 {
	h, err := blake3.NewKeyed(e.key[:])
	if err != nil {
		panic(err)
	}
	if _, err := h.Write(nonce[:]); err != nil {
		panic(err)
	}
	var buf [8]byte
	if _, err := h.Digest().Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func (e *Engine) mask(v uint64) fhe.Value {
	var ct ciphertext
	e.mu.Lock()
	_, err := e.prng.Read(ct.nonce[:])
	e.mu.Unlock()
	if err != nil {
		panic(err)
	}
	ct.body = v ^ e.stream(ct.nonce)
	return ct
}

func (e *Engine) unmask(v fhe.Value) uint64 {
	ct, ok := v.(ciphertext)
	if !ok {
		panic("clear: operand was not produced by this engine")
	}
	if ct.trivial {
		return ct.body % fhe.T
	}
	return (ct.body ^ e.stream(ct.nonce)) % fhe.T
}

// Trivial returns a trivial, unmasked encryption of v mod fhe.T.
func (e *Engine) Trivial(v uint64) fhe.Value {
	return ciphertext{body: v % fhe.T, trivial: true}
}

// Add returns a+b mod fhe.T.
func (e *Engine) Add(a, b fhe.Value) fhe.Value {
	return e.mask((e.unmask(a) + e.unmask(b)) % fhe.T)
}

// Sub returns a-b mod fhe.T.
func (e *Engine) Sub(a, b fhe.Value) fhe.Value {
	return e.mask((fhe.T + e.unmask(a) - e.unmask(b)) % fhe.T)
}

// Mul returns a*b mod fhe.T.
func (e *Engine) Mul(a, b fhe.Value) fhe.Value {
	return e.mask(e.unmask(a) * e.unmask(b) % fhe.T)
}

// Eq returns 1 if a == b mod fhe.T and 0 otherwise.
func (e *Engine) Eq(a, b fhe.Value) fhe.Value {
	if e.unmask(a) == e.unmask(b) {
		return e.mask(1)
	}
	return e.mask(0)
}

// Lt returns 1 if a < b under the balanced signed interpretation.
func (e *Engine) Lt(a, b fhe.Value) fhe.Value {
	d := fhe.Signed((fhe.T + e.unmask(a) - e.unmask(b)) % fhe.T)
	if d < 0 {
		return e.mask(1)
	}
	return e.mask(0)
}
