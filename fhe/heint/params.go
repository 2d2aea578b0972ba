package heint

import (
	"github.com/tuneinsight/lattigo/v5/he/heint"
)

// Parameter sets for the string circuits. The plaintext modulus is always
// 65537: it is prime (required by the Fermat equality circuit), it bounds
// every scalar the string API produces, and it is NTT-friendly up to ring
// degree 2^15 (65537 = 1 mod 2^16).
//
// The scheme is leveled, so the moduli chain bounds the circuits an engine
// can evaluate: one equality costs 16 levels, one comparison about 10, and
// each boolean combination of a matching plan one more. Without
// bootstrapping, depth and security pull against each other at a fixed ring
// degree; the sets below pin the two useful corners.
var (
	// PN15 targets 128-bit security. Its 15 usable levels fit scalar
	// circuits (additions, masking, a single comparison) but not a full
	// equality chain.
	PN15 = heint.ParametersLiteral{
		LogN:             15,
		LogQ:             []int{55, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45},
		LogP:             []int{61},
		PlaintextModulus: 65537,
	}

	// DeepPN15 carries 34 levels, enough for the boolean matching plans of
	// contains, starts_with and eq over block-padded strings up to 16
	// slots. It does not cover every operation: ends_with on end-padded
	// strings costs two more levels per padding slot it may skip, which can
	// exceed the chain at 16 slots, and find, rfind and the strip operations
	// exceed it whenever more than one start is possible, as every StartIndex
	// fold layer evaluates a 16-level equality. Its modulus chain exceeds the
	// 128-bit budget for ring degree 2^15: it must not protect data against
	// a determined adversary.
	DeepPN15 = heint.ParametersLiteral{
		LogN: 15,
		LogQ: []int{55,
			45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45,
			45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45,
			45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45},
		LogP:             []int{61, 61},
		PlaintextModulus: 65537,
	}

	// TestPN12 is an INSECURE small-ring parameter set with the same level
	// budget as DeepPN15, for exercising the engine in tests without the
	// cost of a production ring degree.
	TestPN12 = heint.ParametersLiteral{
		LogN: 12,
		LogQ: []int{45,
			40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40,
			40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40,
			40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40},
		LogP:             []int{50},
		PlaintextModulus: 65537,
	}
)
