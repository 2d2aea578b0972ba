package heint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/hestring/fhe"
)

func TestInvMod(t *testing.T) {
	for _, x := range []uint64{1, 2, 3, 255, 65535, fhe.T - 1} {
		require.Equal(t, uint64(1), x*invMod(x)%fhe.T, "x=%d", x)
	}
}

// TestNegativeIndicator evaluates the interpolated polynomial at every node
// of its domain: 1 on the negative half, 0 on the non-negative half.
func TestNegativeIndicator(t *testing.T) {
	const r = 64 // small range keeps the quadratic check fast
	coeffs := negativeIndicator(r)
	require.Len(t, coeffs, 2*r)

	eval := func(u uint64) uint64 {
		// Horner, highest coefficient first.
		var acc uint64
		for k := len(coeffs) - 1; k >= 0; k-- {
			acc = (acc*u + coeffs[k]) % fhe.T
		}
		return acc
	}
	for u := 0; u < 2*r; u++ {
		want := uint64(0)
		if u < r {
			want = 1
		}
		require.Equal(t, want, eval(uint64(u)), "u=%d", u)
	}
}

// The production range must interpolate cleanly too; spot-check both sides
// of the threshold.
func TestNegativeIndicatorFullRange(t *testing.T) {
	coeffs := negativeIndicator(fhe.CmpRange)
	require.Len(t, coeffs, 2*fhe.CmpRange)

	eval := func(u uint64) uint64 {
		var acc uint64
		for k := len(coeffs) - 1; k >= 0; k-- {
			acc = (acc*u + coeffs[k]) % fhe.T
		}
		return acc
	}
	for _, u := range []uint64{0, 1, fhe.CmpRange - 1, fhe.CmpRange, fhe.CmpRange + 1, 2*fhe.CmpRange - 1} {
		want := uint64(0)
		if u < fhe.CmpRange {
			want = 1
		}
		require.Equal(t, want, eval(u), "u=%d", u)
	}
}
