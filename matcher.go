package hestring

import (
	"errors"
	"log/slog"

	"github.com/tuneinsight/hestring/fhe"
)

// ErrPaddedPattern is returned when a matching operation receives a pattern
// whose ciphertext may contain padding zeros. Patterns must be unpadded so
// their length is public.
var ErrPaddedPattern = errors.New("hestring: pattern must not be padded")

// MatchResult selects what a matching call returns.
type MatchResult int

const (
	// MatchBool yields an encrypted boolean: does the pattern occur.
	MatchBool MatchResult = iota
	// MatchStartIndex yields the encrypted 1-based slot index of the
	// leftmost match, 0 when there is none. Callers convert it to a
	// 0-based content index that discounts preceding padding zeros.
	MatchStartIndex
	// MatchRawStartIndex yields the same 1-based slot index without any
	// later padding adjustment, for operations that mask physical slots.
	MatchRawStartIndex
)

// MatchingOptions configure one engine invocation. SOF anchors the match to
// the content start, EOF to its end; both together demand a full match.
type MatchingOptions struct {
	SOF    bool
	EOF    bool
	Result MatchResult
}

// Pattern is what matching operations search for: either a clear ASCII
// string or an encrypted, unpadded string. Its length is public either way.
type Pattern struct {
	clear string
	enc   *Ciphertext
}

// ClearPattern wraps a cleartext pattern.
func ClearPattern(s string) Pattern {
	return Pattern{clear: s}
}

// CipherPattern wraps an encrypted pattern. The ciphertext must be free of
// padding; matching operations reject it otherwise.
func CipherPattern(ct *Ciphertext) Pattern {
	return Pattern{enc: ct}
}

func (p Pattern) hasPadding() bool {
	return p.enc != nil && p.enc.Padding.HasAny()
}

func (p Pattern) length() int {
	if p.enc != nil {
		return len(p.enc.Chars)
	}
	return len(p.clear)
}

// pid returns the comparison identity of pattern position i: the clear byte
// for clear patterns, the position tag for encrypted ones.
func (p Pattern) pid(i int) int32 {
	if p.enc != nil {
		return pidIndex(i)
	}
	return pidByte(p.clear[i])
}

func (p Pattern) reversed() Pattern {
	if p.enc != nil {
		return Pattern{enc: p.enc.Reversed()}
	}
	b := []byte(p.clear)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return Pattern{clear: string(b)}
}

// runMatch drives one engine invocation: public fast rejects, plan
// construction, and parallel evaluation. The returned raw value is an
// encrypted boolean for MatchBool and an encrypted index otherwise.
func (s *Ciphertext) runMatch(pat Pattern, opts MatchingOptions) (fhe.Value, error) {
	if pat.hasPadding() {
		return nil, ErrPaddedPattern
	}
	n, m := len(s.Chars), pat.length()
	full := opts.SOF && opts.EOF

	if n < m || (!s.Padding.HasAny() && full && n != m) {
		return s.rejected(opts), nil
	}
	if m == 0 {
		return s.emptyPattern(opts), nil
	}

	pl := newPlan(s, pat, opts)
	slog.Debug("built pattern matching execution plan",
		"nodes", len(pl.nodes), "slots", n, "pattern", m)

	ev := newEvaluation(pl, s, pat)
	ev.run(numWorkers())
	slog.Debug("completed homomorphic operations", "count", len(pl.nodes))

	return ev.results[pl.root], nil
}

// rejected is the encrypted no-match result for publicly impossible calls.
func (s *Ciphertext) rejected(opts MatchingOptions) fhe.Value {
	if opts.Result == MatchBool {
		return fhe.TrivialBool(false).Val
	}
	return fhe.TrivialUint16(0).Val
}

// emptyPattern resolves a zero-length pattern publicly: it matches anywhere
// unanchored, and a full match reduces to the content being all padding.
func (s *Ciphertext) emptyPattern(opts MatchingOptions) fhe.Value {
	if opts.Result != MatchBool {
		return fhe.TrivialUint16(1).Val
	}
	if !(opts.SOF && opts.EOF) || len(s.Chars) == 0 {
		return fhe.TrivialBool(true).Val
	}
	zeros := make([]fhe.Bool, len(s.Chars))
	for i, c := range s.Chars {
		zeros[i] = c.Byte.IsZero()
	}
	for len(zeros) > 1 {
		next := zeros[:0]
		for i := 0; i+1 < len(zeros); i += 2 {
			next = append(next, zeros[i].And(zeros[i+1]))
		}
		if len(zeros)%2 == 1 {
			next = append(next, zeros[len(zeros)-1])
		}
		zeros = next
	}
	return zeros[0].Val
}

func (s *Ciphertext) hasMatch(pat Pattern, opts MatchingOptions) (fhe.Bool, error) {
	opts.Result = MatchBool
	v, err := s.runMatch(pat, opts)
	if err != nil {
		return fhe.Bool{}, err
	}
	return fhe.Bool{Val: v}, nil
}

func (s *Ciphertext) findIndex(pat Pattern, opts MatchingOptions) (fhe.Uint16, error) {
	v, err := s.runMatch(pat, opts)
	if err != nil {
		return fhe.Uint16{}, err
	}
	return fhe.Uint16{Val: v}, nil
}
