package hestring

import (
	"github.com/tuneinsight/hestring/fhe"
)

// Len returns the encrypted count of non-zero bytes, i.e. the true content
// length. The public slot count bounds the result.
func (s *Ciphertext) Len() fhe.Uint16 {
	res := fhe.TrivialUint16(0)
	for _, c := range s.Chars {
		res = res.Add(c.Byte.NonZero().AsUint16())
	}
	return res
}

// IsEmpty returns whether the string holds no content. A zero-slot
// ciphertext is trivially empty; otherwise emptiness is the first slot
// being a padding zero.
func (s *Ciphertext) IsEmpty() fhe.Bool {
	if len(s.Chars) == 0 {
		return fhe.TrivialBool(true)
	}
	return s.Chars[0].Byte.IsZero()
}

// ToUpper uppercases every ASCII letter. Padding is unchanged: the
// transform maps zero to zero.
func (s *Ciphertext) ToUpper() *Ciphertext {
	out := make([]Char, len(s.Chars))
	for i, c := range s.Chars {
		out[i] = c.toUpper()
	}
	return &Ciphertext{Chars: out, Padding: s.Padding}
}

// ToLower lowercases every ASCII letter.
func (s *Ciphertext) ToLower() *Ciphertext {
	out := make([]Char, len(s.Chars))
	for i, c := range s.Chars {
		out[i] = c.toLower()
	}
	return &Ciphertext{Chars: out, Padding: s.Padding}
}

// trimRun zeroes the leading run of whitespace and padding zeros. A running
// encrypted flag carries whether every previous byte was zeroed, so a
// single pass suffices.
func trimRun(chars []Char) []Char {
	out := make([]Char, len(chars))
	prevZeroed := fhe.TrivialBool(true)
	for i, c := range chars {
		mustZero := prevZeroed.And(c.IsWhitespace().Or(c.Byte.IsZero()))
		out[i] = Char{c.Byte.Mask(mustZero.Not())}
		prevZeroed = mustZero
	}
	return out
}

func reversedChars(chars []Char) []Char {
	out := make([]Char, len(chars))
	for i, c := range chars {
		out[len(chars)-1-i] = c
	}
	return out
}

// TrimStart zeroes leading whitespace. The result may hold zeros in its
// start region.
func (s *Ciphertext) TrimStart() *Ciphertext {
	p := s.Padding
	p.Start = true
	return &Ciphertext{Chars: trimRun(s.Chars), Padding: p}
}

// TrimEnd zeroes trailing whitespace. The result may hold zeros in its end
// region.
func (s *Ciphertext) TrimEnd() *Ciphertext {
	p := s.Padding
	p.End = true
	return &Ciphertext{
		Chars:   reversedChars(trimRun(reversedChars(s.Chars))),
		Padding: p,
	}
}

// Trim zeroes whitespace on both ends.
func (s *Ciphertext) Trim() *Ciphertext {
	return s.TrimStart().TrimEnd()
}

// MaxedUint8 is an encrypted count together with a public upper bound,
// limiting the work a Repeat call performs.
type MaxedUint8 struct {
	Val fhe.Uint8
	Max uint8
}

// Repeat returns the string repeated n times. The result always spans
// Max*Slots() slots; copies beyond the encrypted count are zeroed, so the
// true repetition count stays secret within the public bound.
func (s *Ciphertext) Repeat(n MaxedUint8) *Ciphertext {
	out := make([]Char, 0, int(n.Max)*len(s.Chars))
	rem := n.Val
	for k := 0; k < int(n.Max); k++ {
		keep := rem.NonZero()
		for _, c := range s.Chars {
			out = append(out, Char{c.Byte.Mask(keep)})
		}
		rem = rem.Sub(keep.AsUint8())
	}
	return &Ciphertext{Chars: out, Padding: Padding{
		Start:  s.Padding.Start,
		Middle: s.Padding.Middle || s.Padding.Start || s.Padding.End,
		End:    true,
	}}
}

// RepeatClear returns the string repeated a public number of times.
func (s *Ciphertext) RepeatClear(n int) *Ciphertext {
	out := make([]Char, 0, n*len(s.Chars))
	for k := 0; k < n; k++ {
		out = append(out, s.Chars...)
	}
	p := s.Padding
	if n == 0 {
		p = Padding{}
	} else if n > 1 && (s.Padding.Start || s.Padding.End) {
		p.Middle = true
	}
	return &Ciphertext{Chars: out, Padding: p}
}

// Concat joins two encrypted strings. Any padding at the seam becomes
// middle padding of the result.
func (s *Ciphertext) Concat(o *Ciphertext) *Ciphertext {
	out := make([]Char, 0, len(s.Chars)+len(o.Chars))
	out = append(out, s.Chars...)
	out = append(out, o.Chars...)
	return &Ciphertext{Chars: out, Padding: Padding{
		Start:  s.Padding.Start,
		Middle: s.Padding.Middle || s.Padding.End || o.Padding.Start || o.Padding.Middle,
		End:    o.Padding.End,
	}}
}

// Reversed returns the byte-reversed string, swapping the start and end
// padding regions.
func (s *Ciphertext) Reversed() *Ciphertext {
	return &Ciphertext{Chars: reversedChars(s.Chars), Padding: Padding{
		Start:  s.Padding.End,
		Middle: s.Padding.Middle,
		End:    s.Padding.Start,
	}}
}
