package hestring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptValidation(t *testing.T) {
	tc := newTestContext(t)

	_, err := tc.strKey.Encrypt("héllo")
	require.ErrorIs(t, err, ErrNotASCII)

	_, err = tc.strKey.Encrypt("a\x00b")
	require.ErrorIs(t, err, ErrInteriorNUL)

	// Trailing NULs mark the input as pre-padded.
	ct, err := tc.strKey.Encrypt("ab\x00")
	require.NoError(t, err)
	require.Equal(t, 3, ct.Slots())
	require.True(t, ct.Padding.End)
	require.Equal(t, "ab", tc.strKey.Decrypt(ct))
}

func TestPaddingBlocks(t *testing.T) {
	tc := newTestContext(t)

	for _, c := range []struct {
		in    string
		block int
		slots int
	}{
		{"", 4, 4},
		{"a", 4, 4},
		{"abc", 4, 4},
		{"abcd", 4, 4},
		{"abcde", 4, 8},
		{"abcdefgh", 4, 8},
		{"abc", 0, 3},
		{"", 0, 0},
	} {
		ct, err := NewClientKey(tc.key, c.block).Encrypt(c.in)
		require.NoError(t, err)
		require.Equal(t, c.slots, ct.Slots(), "slots(%q, block=%d)", c.in, c.block)
		require.Equal(t, c.block > 0, ct.Padding.End)
		require.False(t, ct.Padding.Start)
		require.False(t, ct.Padding.Middle)
	}
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	tc := newTestContext(t)

	for _, s := range []string{"", "a", "hello world", " \t spaced \n "} {
		for _, block := range []int{0, 1, 4, 8} {
			ct, err := NewClientKey(tc.key, block).Encrypt(s)
			require.NoError(t, err)
			require.Equal(t, s, tc.strKey.Decrypt(ct), "roundtrip(%q, block=%d)", s, block)
		}
	}
}
