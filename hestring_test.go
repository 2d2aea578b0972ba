package hestring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/hestring/fhe"
	"github.com/tuneinsight/hestring/fhe/clear"
)

type testContext struct {
	key    fhe.ClientKey
	strKey *ClientKey // block-4 padding
	nopad  *ClientKey // no padding
}

func newTestContext(t *testing.T) *testContext {
	t.Helper()
	key, err := clear.NewClientKey()
	require.NoError(t, err)
	fhe.SetServerKey(key.ServerKey())
	return &testContext{
		key:    key,
		strKey: NewClientKey(key, 4),
		nopad:  NewClientKey(key, 0),
	}
}

func (tc *testContext) encrypt(t *testing.T, s string, block int) *Ciphertext {
	t.Helper()
	ct, err := NewClientKey(tc.key, block).Encrypt(s)
	require.NoError(t, err)
	return ct
}

// encryptRaw builds a ciphertext with an explicit slot layout, for tests
// that place padding zeros at chosen positions.
func (tc *testContext) encryptRaw(bytes []byte, padding Padding) *Ciphertext {
	chars := make([]Char, len(bytes))
	for i, b := range bytes {
		chars[i] = Char{fhe.EncryptUint8(tc.key, b)}
	}
	return &Ciphertext{Chars: chars, Padding: padding}
}

func (tc *testContext) decrypt(ct *Ciphertext) string {
	return tc.strKey.Decrypt(ct)
}

func (tc *testContext) decryptLen(v fhe.Uint16) int {
	return int(fhe.DecryptUint16(tc.key, v))
}

func (tc *testContext) decryptBool(v fhe.Bool) bool {
	return fhe.DecryptBool(tc.key, v)
}

func TestLen(t *testing.T) {
	tc := newTestContext(t)

	for _, c := range []struct {
		in    string
		block int
		want  int
	}{
		{" foo bar ", 0, 9},
		{"", 4, 0},
		{"abc", 4, 3},
		{"abcd", 4, 4},
	} {
		ct := tc.encrypt(t, c.in, c.block)
		require.Equal(t, c.want, tc.decryptLen(ct.Len()), "len(%q)", c.in)
	}
}

func TestIsEmpty(t *testing.T) {
	tc := newTestContext(t)

	require.True(t, tc.decryptBool(tc.encrypt(t, "", 4).IsEmpty()))
	require.False(t, tc.decryptBool(tc.encrypt(t, "a", 4).IsEmpty()))
	require.True(t, tc.decryptBool((&Ciphertext{}).IsEmpty()))
}

func TestCaseFolding(t *testing.T) {
	tc := newTestContext(t)

	ct := tc.encrypt(t, " foo Bar9 ", 0)
	require.Equal(t, " FOO BAR9 ", tc.decrypt(ct.ToUpper()))
	require.Equal(t, " foo bar9 ", tc.decrypt(ct.ToLower()))

	// Idempotence.
	up := ct.ToUpper()
	require.Equal(t, tc.decrypt(up), tc.decrypt(up.ToUpper()))
	low := ct.ToLower()
	require.Equal(t, tc.decrypt(low), tc.decrypt(low.ToLower()))

	// Padding maps zero to zero.
	padded := tc.encrypt(t, "AbC", 8)
	require.Equal(t, "ABC", tc.decrypt(padded.ToUpper()))
	require.Equal(t, "abc", tc.decrypt(padded.ToLower()))
}

func TestTrim(t *testing.T) {
	tc := newTestContext(t)

	ct := tc.encrypt(t, " foo bar ", 0)
	require.Equal(t, "foo bar", tc.decrypt(ct.Trim()))
	require.Equal(t, "foo bar ", tc.decrypt(ct.TrimStart()))
	require.Equal(t, " foo bar", tc.decrypt(ct.TrimEnd()))

	// trim = trim_end ∘ trim_start, and trimming is idempotent.
	require.Equal(t, "foo bar", tc.decrypt(ct.TrimStart().TrimEnd()))
	require.Equal(t, "foo bar", tc.decrypt(ct.Trim().Trim()))

	// Leading whitespace behind padding zeros is still leading.
	raw := tc.encryptRaw([]byte{0, ' ', 'x', ' ', 0}, Padding{Start: true, End: true})
	require.Equal(t, "x", tc.decrypt(raw.Trim()))

	require.True(t, ct.TrimStart().Padding.Start)
	require.True(t, ct.TrimEnd().Padding.End)
}

func TestRepeat(t *testing.T) {
	tc := newTestContext(t)

	ct := tc.encrypt(t, "ab", 0)
	n := func(v uint8) MaxedUint8 {
		return MaxedUint8{Val: fhe.EncryptUint8(tc.key, v), Max: 4}
	}
	require.Equal(t, "abab", tc.decrypt(ct.Repeat(n(2))))
	require.Equal(t, "abababab", tc.decrypt(ct.Repeat(n(4))))
	require.Equal(t, "", tc.decrypt(ct.Repeat(n(0))))

	require.Equal(t, "ababab", tc.decrypt(ct.RepeatClear(3)))
	require.Equal(t, "", tc.decrypt(ct.RepeatClear(0)))

	// A padded source spreads its zeros through the middle of the result.
	padded := tc.encrypt(t, "ab", 4)
	require.Equal(t, "abab", tc.decrypt(padded.Repeat(n(2))))
	require.True(t, padded.Repeat(n(2)).Padding.Middle)
}

func TestConcat(t *testing.T) {
	tc := newTestContext(t)

	a := tc.encrypt(t, "hello ", 4)
	b := tc.encrypt(t, "world", 4)
	ab := a.Concat(b)
	require.Equal(t, "hello world", tc.decrypt(ab))
	require.Equal(t,
		tc.decryptLen(a.Len())+tc.decryptLen(b.Len()),
		tc.decryptLen(ab.Len()))

	// Padding at the seam becomes middle padding.
	require.True(t, ab.Padding.Middle)
	require.True(t, ab.Padding.End)
}

func TestReversed(t *testing.T) {
	tc := newTestContext(t)

	ct := tc.encrypt(t, "abc", 4)
	require.Equal(t, "cba", tc.decrypt(ct.Reversed()))
	require.Equal(t, "abc", tc.decrypt(ct.Reversed().Reversed()))

	rev := ct.Reversed()
	require.True(t, rev.Padding.Start)
	require.False(t, rev.Padding.End)
}
