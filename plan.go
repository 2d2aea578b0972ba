package hestring

// The matching plan is a DAG of primitive homomorphic operations. Nodes are
// content-addressed: structurally equal nodes intern to the same id, so any
// two alignments that need the same sub-expression share one evaluation.
// Acyclicity holds by construction, as the content position strictly
// increases along every edge.

type nodeKind uint8

const (
	opEq nodeKind = iota
	opAnd
	opOr
	opStartIndex
	opIndexMatch
	opPatternMatch
	opFalse
)

// Pattern identities for opEq nodes, packed into the key's second slot:
// -1 compares against the literal zero byte, [0, 255] against a clear
// pattern byte, and 256+i against position i of an encrypted pattern.
const pidZero int32 = -1

func pidByte(b byte) int32 { return int32(b) }
func pidIndex(i int) int32 { return int32(256 + i) }

// nodeKey is the structural identity of a plan node. For opEq, x is the
// content position and y the pattern identity; for opIndexMatch and
// opPatternMatch, x and y are the content and pattern positions; for the
// binary folds, x and y are operand node ids.
type nodeKey struct {
	kind nodeKind
	x, y int32
}

type plan struct {
	nodes []nodeKey
	ids   map[nodeKey]int32

	// alias maps a combinator node to the PatternMatch nodes whose result
	// it carries; the aliases are populated when the combinator completes.
	alias map[int32][]int32

	root int32
}

func (pl *plan) intern(k nodeKey) int32 {
	if id, ok := pl.ids[k]; ok {
		return id
	}
	id := int32(len(pl.nodes))
	pl.nodes = append(pl.nodes, k)
	pl.ids[k] = id
	return id
}

type builder struct {
	*plan
	n, m    int
	padding Padding
	pat     Pattern
	opts    MatchingOptions

	stack [][2]int
	built map[[2]int]bool
}

// newPlan expands the match recursion into the execution DAG. Candidate
// alignments seed a worklist; each (content, pattern) position contributes
// a pattern-consuming branch and, where the padding flags allow it, a
// zero-consuming branch, OR-combined and recorded as that position's
// PatternMatch node.
func newPlan(content *Ciphertext, pat Pattern, opts MatchingOptions) *plan {
	b := &builder{
		plan: &plan{
			ids:   make(map[nodeKey]int32),
			alias: make(map[int32][]int32),
		},
		n:       len(content.Chars),
		m:       pat.length(),
		padding: content.Padding,
		pat:     pat,
		opts:    opts,
	}
	b.built = make(map[[2]int]bool)

	index := opts.Result != MatchBool
	if opts.SOF {
		if index {
			b.root = b.indexLeaf(0)
		} else {
			b.root = b.pmRef(0, 0)
		}
	} else {
		maxStart := b.n - b.m
		leaves := make([]int32, maxStart+1)
		for c := 0; c <= maxStart; c++ {
			if index {
				leaves[c] = b.indexLeaf(c)
			} else {
				leaves[c] = b.pmRef(c, 0)
			}
		}
		kind := opOr
		if index {
			kind = opStartIndex
		}
		b.root = b.reduce(leaves, kind)
	}

	for len(b.stack) > 0 {
		cp := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		if b.built[cp] {
			continue
		}
		b.built[cp] = true
		b.expand(cp[0], cp[1])
	}
	return b.plan
}

// pmRef interns the PatternMatch node for (c, p) and schedules its
// expansion.
func (b *builder) pmRef(c, p int) int32 {
	id := b.intern(nodeKey{opPatternMatch, int32(c), int32(p)})
	if !b.built[[2]int{c, p}] {
		b.stack = append(b.stack, [2]int{c, p})
	}
	return id
}

// indexLeaf interns the IndexMatch node promoting the match at (c, 0) to an
// encrypted index, along with the zero-equality guarding against a match
// that starts on a padding slot.
func (b *builder) indexLeaf(c int) int32 {
	b.intern(nodeKey{opEq, int32(c), pidZero})
	b.pmRef(c, 0)
	return b.intern(nodeKey{opIndexMatch, int32(c), 0})
}

func (b *builder) and(l, r int32) int32 { return b.intern(nodeKey{opAnd, l, r}) }
func (b *builder) or(l, r int32) int32  { return b.intern(nodeKey{opOr, l, r}) }

// expand builds both branches of the PatternMatch at (c, p) and records
// their combinator as its alias.
func (b *builder) expand(c, p int) {
	pmID := b.intern(nodeKey{opPatternMatch, int32(c), int32(p)})
	remainC := b.n - c
	remainP := b.m - p

	left := int32(-1)
	if remainP > 0 {
		// With an end anchor, consuming the final pattern byte short of the
		// last slot is only valid when the tail can be all padding.
		endShort := b.opts.EOF && remainP == 1 && remainC > 1 && !b.padding.End
		if !endShort {
			left = b.consume(c, p, b.pat.pid(p))
		}
	}

	right := int32(-1)
	canZero := remainC-1 >= remainP &&
		((p == 0 && b.padding.Start) || (p > 0 && b.padding.Middle))
	if canZero {
		right = b.consume(c, p, pidZero)
	}

	var comb int32
	switch {
	case left >= 0 && right >= 0:
		comb = b.or(left, right)
	case left >= 0:
		comb = left
	case right >= 0:
		comb = right
	default:
		comb = b.intern(nodeKey{kind: opFalse})
	}
	b.alias[comb] = append(b.alias[comb], pmID)
}

// consume builds the branch that reads the content byte at c as pid: the
// byte equality, the recursion into the rest of the alignment, and the
// anchored zero-prefix and zero-suffix clamps where they apply.
func (b *builder) consume(c, p int, pid int32) int32 {
	remainC := b.n - c
	remainP := b.m - p

	eq := b.intern(nodeKey{opEq, int32(c), pid})
	var main int32
	switch {
	case pid == pidZero:
		main = b.and(eq, b.pmRef(c+1, p))
	case remainP >= 2:
		main = b.and(eq, b.pmRef(c+1, p+1))
	default:
		main = eq
	}
	if pid == pidZero {
		return main
	}

	zeroPrefixed := c > 0 && p == 0 && b.opts.SOF && b.padding.Start
	zeroSuffixed := remainC > 1 && remainP == 1 && b.opts.EOF && b.padding.End
	switch {
	case zeroPrefixed && zeroSuffixed:
		main = b.and(b.and(b.zeroRange(0, c-1), main), b.zeroRange(c+1, c+remainC-1))
	case zeroPrefixed:
		main = b.and(b.zeroRange(0, c-1), main)
	case zeroSuffixed:
		main = b.and(main, b.zeroRange(c+1, c+remainC-1))
	}
	return main
}

// zeroRange builds the balanced AND of zero-equalities over content
// positions [a, b]. When a is odd, a spurious leading leaf keeps the
// pairing boundaries of the tree on even positions, so the subtrees of
// overlapping ranges hash identically and intern to shared nodes.
func (b *builder) zeroRange(a, bEnd int) int32 {
	if a == bEnd {
		return b.intern(nodeKey{opEq, int32(a), pidZero})
	}
	var leaves []int32
	if a%2 == 1 {
		leaves = append(leaves, b.intern(nodeKey{opEq, int32(a), pidZero}))
	}
	for i := a; i <= bEnd; i++ {
		leaves = append(leaves, b.intern(nodeKey{opEq, int32(i), pidZero}))
	}
	return b.reduce(leaves, opAnd)
}

// reduce folds node ids pairwise into a balanced tree of the given
// combinator. An unpaired tail carries up to the next layer unchanged.
func (b *builder) reduce(ids []int32, kind nodeKind) int32 {
	for len(ids) > 1 {
		next := make([]int32, 0, (len(ids)+1)/2)
		for i := 0; i+1 < len(ids); i += 2 {
			next = append(next, b.intern(nodeKey{kind, ids[i], ids[i+1]}))
		}
		if len(ids)%2 == 1 {
			next = append(next, ids[len(ids)-1])
		}
		ids = next
	}
	return ids[0]
}
