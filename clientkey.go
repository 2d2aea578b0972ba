package hestring

import (
	"errors"
	"strings"

	"github.com/tuneinsight/hestring/fhe"
)

var (
	// ErrNotASCII is returned when encrypting a string holding bytes
	// outside the ASCII range.
	ErrNotASCII = errors.New("hestring: input must only contain ascii characters")

	// ErrInteriorNUL is returned when encrypting a string with NUL bytes
	// anywhere but its end.
	ErrInteriorNUL = errors.New("hestring: input may only contain NUL bytes at its end")
)

// ClientKey encrypts and decrypts string ciphertexts. The block size is
// public: encrypted strings are zero-padded to a multiple of it, hiding the
// exact content length among the block's residues.
type ClientKey struct {
	// Key is the scalar client key the string key wraps.
	Key fhe.ClientKey

	block int
}

// NewClientKey wraps a scalar client key with a padding block size. A block
// of 0 disables padding, making the content length public.
func NewClientKey(key fhe.ClientKey, block int) *ClientKey {
	return &ClientKey{Key: key, block: block}
}

// Block returns the public padding block size.
func (ck *ClientKey) Block() int { return ck.block }

// Encrypt encrypts an ASCII string, appending zero padding so the slot
// count is a multiple of the block size (at least one block when shorter).
// Inputs already carrying trailing NULs are taken as pre-padded.
func (ck *ClientKey) Encrypt(clear string) (*Ciphertext, error) {
	for i := 0; i < len(clear); i++ {
		if clear[i] > 127 {
			return nil, ErrNotASCII
		}
	}
	if strings.ContainsRune(strings.TrimRight(clear, "\x00"), 0) {
		return nil, ErrInteriorNUL
	}

	alreadyPadded := strings.ContainsRune(clear, 0)
	required := 0
	if ck.block > 0 && !alreadyPadded {
		if len(clear) < ck.block {
			required = ck.block - len(clear)
		} else {
			required = (ck.block - len(clear)%ck.block) % ck.block
		}
	}

	chars := make([]Char, 0, len(clear)+required)
	for i := 0; i < len(clear); i++ {
		chars = append(chars, Char{fhe.EncryptUint8(ck.Key, clear[i])})
	}
	for i := 0; i < required; i++ {
		chars = append(chars, Char{fhe.EncryptUint8(ck.Key, 0)})
	}
	return &Ciphertext{
		Chars:   chars,
		Padding: Padding{End: alreadyPadded || ck.block > 0},
	}, nil
}

// Decrypt recovers the cleartext content, dropping padding zeros.
func (ck *ClientKey) Decrypt(ct *Ciphertext) string {
	var sb strings.Builder
	for _, c := range ct.Chars {
		if b := fhe.DecryptUint8(ck.Key, c.Byte); b != 0 {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}
