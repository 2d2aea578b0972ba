package heint

import (
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/heint"

	"github.com/tuneinsight/hestring/fhe"
)

// ClientKey holds the secret key material: it encrypts and decrypts scalar
// values and derives the evaluation engine handed to the computing party.
type ClientKey struct {
	params heint.Parameters
	sk     *rlwe.SecretKey
	ecd    *heint.Encoder
	enc    *rlwe.Encryptor
	dec    *rlwe.Decryptor
	eng    *Engine

	slots []uint64
}

// NewClientKey generates a fresh key pair for the given parameter literal.
func NewClientKey(literal heint.ParametersLiteral) (*ClientKey, error) {
	params, err := heint.NewParametersFromLiteral(literal)
	if err != nil {
		return nil, err
	}
	kgen := rlwe.NewKeyGenerator(params)
	sk := kgen.GenSecretKeyNew()
	rlk := kgen.GenRelinearizationKeyNew(sk)

	ck := &ClientKey{
		params: params,
		sk:     sk,
		ecd:    heint.NewEncoder(params),
		enc:    rlwe.NewEncryptor(params, sk),
		dec:    rlwe.NewDecryptor(params, sk),
		eng:    NewEngine(params, rlwe.NewMemEvaluationKeySet(rlk)),
		slots:  make([]uint64, params.MaxSlots()),
	}
	return ck, nil
}

// ServerKey returns the evaluation engine derived from this key.
func (ck *ClientKey) ServerKey() fhe.Engine { return ck.eng }

// SecretKey exposes the underlying rlwe secret key, e.g. for fingerprinting
// or serialization.
func (ck *ClientKey) SecretKey() *rlwe.SecretKey { return ck.sk }

// Encrypt encrypts v mod T, replicated across the plaintext slots.
func (ck *ClientKey) Encrypt(v uint64) fhe.Value {
	v %= fhe.T
	for i := range ck.slots {
		ck.slots[i] = v
	}
	pt := heint.NewPlaintext(ck.params, ck.params.MaxLevel())
	check(ck.ecd.Encode(ck.slots, pt))
	ct, err := ck.enc.EncryptNew(pt)
	check(err)
	return value{ct: ct}
}

// Decrypt decrypts a value produced under this key. Trivial values decode
// without touching the secret key.
func (ck *ClientKey) Decrypt(v fhe.Value) uint64 {
	val := asValue(v)
	if val.trivial {
		return val.scalar
	}
	pt := ck.dec.DecryptNew(val.ct)
	check(ck.ecd.Decode(pt, ck.slots))
	return ck.slots[0] % fhe.T
}
