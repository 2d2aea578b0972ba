package hestring

import (
	"strings"

	"github.com/tuneinsight/hestring/fhe"
)

// Contains returns whether the pattern occurs anywhere in the string.
func (s *Ciphertext) Contains(p Pattern) (fhe.Bool, error) {
	return s.hasMatch(p, MatchingOptions{})
}

// StartsWith returns whether the string begins with the pattern.
func (s *Ciphertext) StartsWith(p Pattern) (fhe.Bool, error) {
	return s.hasMatch(p, MatchingOptions{SOF: true})
}

// EndsWith returns whether the string ends with the pattern. It anchors the
// reversed pair at the start, which is exact for every padding
// configuration.
func (s *Ciphertext) EndsWith(p Pattern) (fhe.Bool, error) {
	return s.Reversed().hasMatch(p.reversed(), MatchingOptions{SOF: true})
}

// Eq returns whether string and pattern hold the same content.
func (s *Ciphertext) Eq(p Pattern) (fhe.Bool, error) {
	return s.hasMatch(p, MatchingOptions{SOF: true, EOF: true})
}

// Ne returns whether string and pattern differ.
func (s *Ciphertext) Ne(p Pattern) (fhe.Bool, error) {
	eq, err := s.Eq(p)
	if err != nil {
		return fhe.Bool{}, err
	}
	return eq.Not(), nil
}

// EqIgnoreCase compares contents after lowercasing both sides.
func (s *Ciphertext) EqIgnoreCase(p Pattern) (fhe.Bool, error) {
	if p.enc != nil {
		p = Pattern{enc: p.enc.ToLower()}
	} else {
		p = Pattern{clear: strings.ToLower(p.clear)}
	}
	return s.ToLower().Eq(p)
}

// Find returns the encrypted 0-based content index of the leftmost match,
// -1 when there is none. Padding zeros before the match are not counted.
func (s *Ciphertext) Find(p Pattern) (fhe.Int16, error) {
	raw, err := s.findIndex(p, MatchingOptions{Result: MatchStartIndex})
	if err != nil {
		return fhe.Int16{}, err
	}
	return s.visibleIndex(raw), nil
}

// visibleIndex converts a 1-based slot index (0 = no match) into a 0-based
// content index (-1 = no match) by discounting the padding zeros strictly
// before the matched slot.
func (s *Ciphertext) visibleIndex(raw fhe.Uint16) fhe.Int16 {
	zeros := fhe.TrivialUint16(0)
	for i, c := range s.Chars {
		before := raw.GtScalar(uint16(i + 1))
		zeros = zeros.Add(before.And(c.Byte.IsZero()).AsUint16())
	}
	return raw.AsInt16().SubScalar(1).Sub(zeros.AsInt16())
}

// Rfind returns the encrypted 0-based content index of the rightmost match,
// -1 when there is none. It searches the reversed pair and maps the index
// back through the encrypted content length.
func (s *Ciphertext) Rfind(p Pattern) (fhe.Int16, error) {
	revIdx, err := s.Reversed().Find(p.reversed())
	if err != nil {
		return fhe.Int16{}, err
	}
	found := revIdx.GtScalar(-1)
	sLen := s.Len().AsInt16()
	pLen := int16(p.length())
	return sLen.SubScalar(pLen).Sub(revIdx).AddScalar(1).Mask(found).SubScalar(1), nil
}

// StripPrefix returns the string with the pattern removed from its start,
// unchanged when the string does not begin with it. Matched slots are
// zeroed in place, so the result gains start padding.
func (s *Ciphertext) StripPrefix(p Pattern) (*Ciphertext, error) {
	found, err := s.StartsWith(p)
	if err != nil {
		return nil, err
	}
	raw, err := s.findIndex(p, MatchingOptions{Result: MatchRawStartIndex})
	if err != nil {
		return nil, err
	}
	// 1-based slot of the last matched byte; every slot up to it is zeroed
	// when the prefix is present.
	end := raw.AsInt16().AddScalar(int16(p.length() - 1))

	out := make([]Char, len(s.Chars))
	for i, c := range s.Chars {
		mustZero := found.And(end.GeScalar(int16(i + 1)))
		out[i] = Char{c.Byte.Mask(mustZero.Not())}
	}
	pd := s.Padding
	pd.Start = true
	return &Ciphertext{Chars: out, Padding: pd}, nil
}

// StripSuffix returns the string with the pattern removed from its end,
// unchanged when the string does not end with it. The matched region is
// located through the reversed pair; interior padding inside the matched
// region is assumed absent, i.e. the suffix occupies contiguous slots.
func (s *Ciphertext) StripSuffix(p Pattern) (*Ciphertext, error) {
	found, err := s.EndsWith(p)
	if err != nil {
		return nil, err
	}
	rev := s.Reversed()
	rraw, err := rev.findIndex(p.reversed(), MatchingOptions{Result: MatchRawStartIndex})
	if err != nil {
		return nil, err
	}
	// 0-based slot where the matched suffix starts in the forward string.
	start := fhe.TrivialInt16(int16(len(s.Chars) - p.length() + 1)).Sub(rraw.AsInt16())

	out := make([]Char, len(s.Chars))
	for i, c := range s.Chars {
		mustZero := found.And(start.LeScalar(int16(i)))
		out[i] = Char{c.Byte.Mask(mustZero.Not())}
	}
	pd := s.Padding
	pd.End = true
	return &Ciphertext{Chars: out, Padding: pd}, nil
}
