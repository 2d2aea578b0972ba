package heint

import (
	"github.com/tuneinsight/hestring/fhe"
)

// negativeIndicator interpolates, over Z_T, the polynomial of degree 2R-1
// that maps the shifted difference u = (a-b) + R to 1 when a-b is negative
// and to 0 otherwise. After the shift, negative differences occupy [0, R)
// and non-negative ones [R, 2R), so the polynomial takes the value 1 on the
// first R interpolation nodes and 0 on the remaining R.
//
// Coefficients are returned in ascending monomial order, the layout
// expected by the polynomial evaluator.
func negativeIndicator(r int) []uint64 {
	n := 2 * r

	// Product prod_{j=0}^{n-1} (x - j), degree n, built incrementally.
	master := make([]uint64, n+1)
	master[0] = 1
	deg := 0
	for j := 0; j < n; j++ {
		// master *= (x - j)
		mj := fhe.T - uint64(j)%fhe.T
		if uint64(j) == 0 {
			mj = 0
		}
		for k := deg + 1; k > 0; k-- {
			master[k] = (master[k-1] + master[k]*mj) % fhe.T
		}
		master[0] = master[0] * mj % fhe.T
		deg++
	}

	// Factorials and their inverses for the Lagrange denominators.
	fact := make([]uint64, n)
	fact[0] = 1
	for i := 1; i < n; i++ {
		fact[i] = fact[i-1] * uint64(i) % fhe.T
	}

	res := make([]uint64, n)
	quot := make([]uint64, n)
	for i := 0; i < r; i++ {
		// quot = master / (x - i), by synthetic division.
		quot[n-1] = master[n]
		for k := n - 1; k > 0; k-- {
			quot[k-1] = (master[k] + uint64(i)*quot[k]) % fhe.T
		}

		// prod_{j!=i} (i-j) = i! * (n-1-i)! * (-1)^(n-1-i)
		denom := fact[i] * fact[n-1-i] % fhe.T
		if (n-1-i)%2 == 1 {
			denom = denom * (fhe.T - 1) % fhe.T
		}
		w := invMod(denom)
		for k := 0; k < n; k++ {
			res[k] = (res[k] + quot[k]*w) % fhe.T
		}
	}
	return res
}

// invMod returns x^-1 mod T for x != 0, via Fermat's little theorem.
func invMod(x uint64) uint64 {
	return powMod(x%fhe.T, fhe.T-2)
}

func powMod(x, e uint64) uint64 {
	res := uint64(1)
	x %= fhe.T
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			res = res * x % fhe.T
		}
		x = x * x % fhe.T
	}
	return res
}
