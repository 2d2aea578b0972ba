package hestring

import (
	"fmt"
	"sync"

	"github.com/tuneinsight/hestring/fhe"
)

// evaluation walks the plan in waves. Each wave inspects every pending node
// in parallel: equalities are always computable, a binary fold once both
// operand results landed in a previous wave. PatternMatch nodes never
// compute anything themselves; they take the result of their combinator the
// moment it completes. A wave that makes no progress means the plan holds
// an unreachable node, which is a bug, not a retryable condition.
type evaluation struct {
	plan    *plan
	content *Ciphertext
	pat     Pattern

	results []fhe.Value
	done    []bool
}

func newEvaluation(pl *plan, content *Ciphertext, pat Pattern) *evaluation {
	return &evaluation{
		plan:    pl,
		content: content,
		pat:     pat,
		results: make([]fhe.Value, len(pl.nodes)),
		done:    make([]bool, len(pl.nodes)),
	}
}

func (ev *evaluation) run(workers int) {
	pending := make([]int32, len(ev.plan.nodes))
	for i := range pending {
		pending[i] = int32(i)
	}
	computed := make([]bool, len(ev.plan.nodes))

	for len(pending) > 0 {
		ev.wave(pending, computed, workers)

		progress := false
		next := pending[:0]
		for _, id := range pending {
			if computed[id] {
				ev.done[id] = true
				progress = true
			}
		}
		// A completed combinator completes the PatternMatch nodes it
		// stands for.
		for _, id := range pending {
			if !computed[id] {
				continue
			}
			for _, pm := range ev.plan.alias[id] {
				ev.results[pm] = ev.results[id]
				ev.done[pm] = true
			}
		}
		for _, id := range pending {
			if !ev.done[id] {
				next = append(next, id)
			}
		}
		if !progress {
			panic(fmt.Sprintf("hestring: evaluation stalled with %d pending operations", len(next)))
		}
		pending = next
	}
}

// wave computes every ready pending node, one goroutine per worker over a
// contiguous share of the pending set. Readiness only consults results
// published by earlier waves, so workers never observe half-written values.
func (ev *evaluation) wave(pending []int32, computed []bool, workers int) {
	if workers > len(pending) {
		workers = len(pending)
	}
	var wg sync.WaitGroup
	chunk := (len(pending) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(pending) {
			hi = len(pending)
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(ids []int32) {
			defer wg.Done()
			for _, id := range ids {
				if ev.ready(id) {
					ev.results[id] = ev.compute(id)
					computed[id] = true
				}
			}
		}(pending[lo:hi])
	}
	wg.Wait()
}

func (ev *evaluation) ready(id int32) bool {
	k := ev.plan.nodes[id]
	switch k.kind {
	case opEq, opFalse:
		return true
	case opAnd, opOr, opStartIndex:
		return ev.done[k.x] && ev.done[k.y]
	case opIndexMatch:
		pm := ev.plan.ids[nodeKey{opPatternMatch, k.x, k.y}]
		eqz := ev.plan.ids[nodeKey{opEq, k.x, pidZero}]
		return ev.done[pm] && ev.done[eqz]
	default:
		return false
	}
}

func (ev *evaluation) compute(id int32) fhe.Value {
	k := ev.plan.nodes[id]
	switch k.kind {
	case opEq:
		ch := ev.content.Chars[k.x]
		switch {
		case k.y == pidZero:
			return ch.Byte.IsZero().Val
		case k.y < 256:
			return ch.Byte.EqByte(byte(k.y)).Val
		default:
			return ch.Byte.Eq(ev.pat.enc.Chars[k.y-256].Byte).Val
		}
	case opAnd:
		return fhe.Bool{Val: ev.results[k.x]}.And(fhe.Bool{Val: ev.results[k.y]}).Val
	case opOr:
		return fhe.Bool{Val: ev.results[k.x]}.Or(fhe.Bool{Val: ev.results[k.y]}).Val
	case opStartIndex:
		// Index-preserving OR: the left operand wins whenever non-zero, so
		// the fold keeps the leftmost match.
		l := fhe.Uint16{Val: ev.results[k.x]}
		r := fhe.Uint16{Val: ev.results[k.y]}
		return l.Add(r.Mask(l.NonZero().Not())).Val
	case opIndexMatch:
		pm := fhe.Bool{Val: ev.results[ev.plan.ids[nodeKey{opPatternMatch, k.x, k.y}]]}
		zero := fhe.Bool{Val: ev.results[ev.plan.ids[nodeKey{opEq, k.x, pidZero}]]}
		// A match may not start on a padding slot.
		hit := pm.And(zero.Not())
		return fhe.TrivialUint16(uint16(k.x + 1)).Mask(hit).Val
	case opFalse:
		return fhe.TrivialBool(false).Val
	default:
		panic(fmt.Sprintf("hestring: cache lookup for node kind %d has no evaluation", k.kind))
	}
}

// nodeCensus counts the plan's nodes by kind, for diagnostics and tests.
func (pl *plan) nodeCensus() map[nodeKind]int {
	census := make(map[nodeKind]int)
	for _, k := range pl.nodes {
		census[k.kind]++
	}
	return census
}
