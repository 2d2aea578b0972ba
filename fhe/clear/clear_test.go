package clear_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/hestring/fhe"
	"github.com/tuneinsight/hestring/fhe/clear"
)

func newKey(t *testing.T) *clear.ClientKey {
	t.Helper()
	key, err := clear.NewClientKey()
	require.NoError(t, err)
	fhe.SetServerKey(key.ServerKey())
	return key
}

func TestRoundtrip(t *testing.T) {
	key := newKey(t)

	for _, v := range []uint64{0, 1, 255, 65536, fhe.T, fhe.T + 5} {
		require.Equal(t, v%fhe.T, key.Decrypt(key.Encrypt(v)))
	}
}

func TestArithmetic(t *testing.T) {
	key := newKey(t)
	eng := key.ServerKey()

	a := key.Encrypt(40000)
	b := key.Encrypt(30000)
	require.Equal(t, uint64((40000+30000)%fhe.T), key.Decrypt(eng.Add(a, b)))
	require.Equal(t, uint64(10000), key.Decrypt(eng.Sub(a, b)))
	require.Equal(t, uint64(fhe.T-10000), key.Decrypt(eng.Sub(b, a)))
	require.Equal(t, uint64(40000*30000%fhe.T), key.Decrypt(eng.Mul(a, b)))

	// Trivial operands mix freely with encrypted ones.
	require.Equal(t, uint64(40001), key.Decrypt(eng.Add(a, eng.Trivial(1))))
	require.Equal(t, uint64(3), key.Decrypt(eng.Add(eng.Trivial(1), eng.Trivial(2))))
}

func TestComparisons(t *testing.T) {
	key := newKey(t)
	eng := key.ServerKey()

	require.Equal(t, uint64(1), key.Decrypt(eng.Eq(key.Encrypt(7), key.Encrypt(7))))
	require.Equal(t, uint64(0), key.Decrypt(eng.Eq(key.Encrypt(7), key.Encrypt(8))))

	// Lt over the balanced representation.
	lt := func(a, b uint64) uint64 {
		return key.Decrypt(eng.Lt(key.Encrypt(a), key.Encrypt(b)))
	}
	require.Equal(t, uint64(1), lt(3, 5))
	require.Equal(t, uint64(0), lt(5, 3))
	require.Equal(t, uint64(0), lt(5, 5))
	require.Equal(t, uint64(1), lt(fhe.T-2, 1)) // -2 < 1
	require.Equal(t, uint64(0), lt(1, fhe.T-2))
}

func TestBoolAlgebra(t *testing.T) {
	key := newKey(t)

	enc := func(b bool) fhe.Bool {
		if b {
			return fhe.Bool{Val: key.Encrypt(1)}
		}
		return fhe.Bool{Val: key.Encrypt(0)}
	}
	dec := func(b fhe.Bool) bool { return fhe.DecryptBool(key, b) }

	for _, x := range []bool{false, true} {
		for _, y := range []bool{false, true} {
			require.Equal(t, x && y, dec(enc(x).And(enc(y))))
			require.Equal(t, x || y, dec(enc(x).Or(enc(y))))
			require.Equal(t, x != y, dec(enc(x).Xor(enc(y))))
		}
		require.Equal(t, !x, dec(enc(x).Not()))
	}
}

func TestScalarTypes(t *testing.T) {
	key := newKey(t)

	b := fhe.EncryptUint8(key, 'x')
	require.Equal(t, uint8('x'), fhe.DecryptUint8(key, b))
	require.True(t, fhe.DecryptBool(key, b.EqByte('x')))
	require.False(t, fhe.DecryptBool(key, b.EqByte('y')))
	require.True(t, fhe.DecryptBool(key, b.NonZero()))

	// Letter-range boundaries used by the case folding.
	require.True(t, fhe.DecryptBool(key, fhe.EncryptUint8(key, 'a').GtByte(96)))
	require.False(t, fhe.DecryptBool(key, fhe.EncryptUint8(key, '`').GtByte(96)))
	require.True(t, fhe.DecryptBool(key, fhe.EncryptUint8(key, 'z').LtByte(123)))
	require.False(t, fhe.DecryptBool(key, fhe.EncryptUint8(key, '{').LtByte(123)))

	masked := b.Mask(fhe.TrivialBool(false))
	require.Equal(t, uint8(0), fhe.DecryptUint8(key, masked))
	kept := b.Mask(fhe.TrivialBool(true))
	require.Equal(t, uint8('x'), fhe.DecryptUint8(key, kept))

	// Signed decryption applies the balanced mapping.
	neg := fhe.TrivialInt16(0).SubScalar(5)
	require.Equal(t, int16(-5), fhe.DecryptInt16(key, neg))
	require.True(t, fhe.DecryptBool(key, neg.GtScalar(-6)))
	require.False(t, fhe.DecryptBool(key, neg.GtScalar(-5)))
	require.True(t, fhe.DecryptBool(key, neg.LeScalar(-5)))
	require.True(t, fhe.DecryptBool(key, neg.GeScalar(-5)))
	require.False(t, fhe.DecryptBool(key, neg.GeScalar(-4)))
}
