package fhe

// Bool is an encrypted boolean: the values 0 and 1 mod T.
//
// The Val field is exported, enabling custom instantiations; it must hold a
// Value produced by the installed engine (or a trivial encryption of 0 or 1).
type Bool struct {
	Val Value
}

// Uint8 is an encrypted byte: a value in [0, 255] mod T.
type Uint8 struct {
	Val Value
}

// Uint16 is an encrypted unsigned 16-bit integer mod T.
type Uint16 struct {
	Val Value
}

// Int16 is an encrypted signed integer in balanced representation mod T.
type Int16 struct {
	Val Value
}

// TrivialBool returns a trivial encryption of b.
func TrivialBool(b bool) Bool {
	var v uint64
	if b {
		v = 1
	}
	return Bool{engine().Trivial(v)}
}

// TrivialUint8 returns a trivial encryption of v.
func TrivialUint8(v uint8) Uint8 {
	return Uint8{engine().Trivial(uint64(v))}
}

// TrivialUint16 returns a trivial encryption of v.
func TrivialUint16(v uint16) Uint16 {
	return Uint16{engine().Trivial(uint64(v))}
}

// TrivialInt16 returns a trivial encryption of v.
func TrivialInt16(v int16) Int16 {
	return Int16{engine().Trivial(Unsigned(int64(v)))}
}

// Boolean algebra, arithmetized: and = a*b, or = a+b-a*b, xor = a+b-2*a*b,
// not = 1-a. Operands are assumed to be 0 or 1.

// And returns a AND b.
func (a Bool) And(b Bool) Bool {
	return Bool{engine().Mul(a.Val, b.Val)}
}

// Or returns a OR b.
func (a Bool) Or(b Bool) Bool {
	e := engine()
	ab := e.Mul(a.Val, b.Val)
	return Bool{e.Sub(e.Add(a.Val, b.Val), ab)}
}

// Xor returns a XOR b.
func (a Bool) Xor(b Bool) Bool {
	e := engine()
	ab := e.Mul(a.Val, b.Val)
	return Bool{e.Sub(e.Sub(e.Add(a.Val, b.Val), ab), ab)}
}

// Not returns NOT a.
func (a Bool) Not() Bool {
	e := engine()
	return Bool{e.Sub(e.Trivial(1), a.Val)}
}

// AsUint8 reinterprets the boolean as the byte 0 or 1.
func (a Bool) AsUint8() Uint8 { return Uint8{a.Val} }

// AsUint16 reinterprets the boolean as the integer 0 or 1.
func (a Bool) AsUint16() Uint16 { return Uint16{a.Val} }

// Add returns a + b.
func (a Uint8) Add(b Uint8) Uint8 { return Uint8{engine().Add(a.Val, b.Val)} }

// Sub returns a - b.
func (a Uint8) Sub(b Uint8) Uint8 { return Uint8{engine().Sub(a.Val, b.Val)} }

// Mul returns a * b.
func (a Uint8) Mul(b Uint8) Uint8 { return Uint8{engine().Mul(a.Val, b.Val)} }

// AddByte returns a + v for a clear v.
func (a Uint8) AddByte(v uint8) Uint8 {
	e := engine()
	return Uint8{e.Add(a.Val, e.Trivial(uint64(v)))}
}

// SubByte returns a - v for a clear v.
func (a Uint8) SubByte(v uint8) Uint8 {
	e := engine()
	return Uint8{e.Sub(a.Val, e.Trivial(uint64(v)))}
}

// MulByte returns a * v for a clear v.
func (a Uint8) MulByte(v uint8) Uint8 {
	e := engine()
	return Uint8{e.Mul(a.Val, e.Trivial(uint64(v)))}
}

// Eq returns a == b.
func (a Uint8) Eq(b Uint8) Bool { return Bool{engine().Eq(a.Val, b.Val)} }

// Ne returns a != b.
func (a Uint8) Ne(b Uint8) Bool { return a.Eq(b).Not() }

// EqByte returns a == v for a clear v.
func (a Uint8) EqByte(v uint8) Bool {
	e := engine()
	return Bool{e.Eq(a.Val, e.Trivial(uint64(v)))}
}

// IsZero returns a == 0.
func (a Uint8) IsZero() Bool { return a.EqByte(0) }

// NonZero returns a != 0.
func (a Uint8) NonZero() Bool { return a.IsZero().Not() }

// GtByte returns a > v for a clear v.
func (a Uint8) GtByte(v uint8) Bool {
	e := engine()
	return Bool{e.Lt(e.Trivial(uint64(v)), a.Val)}
}

// LtByte returns a < v for a clear v.
func (a Uint8) LtByte(v uint8) Bool {
	e := engine()
	return Bool{e.Lt(a.Val, e.Trivial(uint64(v)))}
}

// Mask returns a when keep is 1 and 0 when keep is 0.
func (a Uint8) Mask(keep Bool) Uint8 {
	return Uint8{engine().Mul(a.Val, keep.Val)}
}

// AsUint16 widens the byte. The representation mod T is unchanged.
func (a Uint8) AsUint16() Uint16 { return Uint16{a.Val} }

// Add returns a + b.
func (a Uint16) Add(b Uint16) Uint16 { return Uint16{engine().Add(a.Val, b.Val)} }

// Sub returns a - b.
func (a Uint16) Sub(b Uint16) Uint16 { return Uint16{engine().Sub(a.Val, b.Val)} }

// Mul returns a * b.
func (a Uint16) Mul(b Uint16) Uint16 { return Uint16{engine().Mul(a.Val, b.Val)} }

// SubScalar returns a - v for a clear v.
func (a Uint16) SubScalar(v uint16) Uint16 {
	e := engine()
	return Uint16{e.Sub(a.Val, e.Trivial(uint64(v)))}
}

// EqScalar returns a == v for a clear v.
func (a Uint16) EqScalar(v uint16) Bool {
	e := engine()
	return Bool{e.Eq(a.Val, e.Trivial(uint64(v)))}
}

// NonZero returns a != 0.
func (a Uint16) NonZero() Bool { return a.EqScalar(0).Not() }

// GtScalar returns a > v for a clear v. Defined for |a-v| < CmpRange.
func (a Uint16) GtScalar(v uint16) Bool {
	e := engine()
	return Bool{e.Lt(e.Trivial(uint64(v)), a.Val)}
}

// Mask returns a when keep is 1 and 0 when keep is 0.
func (a Uint16) Mask(keep Bool) Uint16 {
	return Uint16{engine().Mul(a.Val, keep.Val)}
}

// AsInt16 reinterprets the value as signed. The representation mod T is
// unchanged.
func (a Uint16) AsInt16() Int16 { return Int16{a.Val} }

// Add returns a + b.
func (a Int16) Add(b Int16) Int16 { return Int16{engine().Add(a.Val, b.Val)} }

// Sub returns a - b.
func (a Int16) Sub(b Int16) Int16 { return Int16{engine().Sub(a.Val, b.Val)} }

// AddScalar returns a + v for a clear v.
func (a Int16) AddScalar(v int16) Int16 {
	e := engine()
	return Int16{e.Add(a.Val, e.Trivial(Unsigned(int64(v))))}
}

// SubScalar returns a - v for a clear v.
func (a Int16) SubScalar(v int16) Int16 {
	e := engine()
	return Int16{e.Sub(a.Val, e.Trivial(Unsigned(int64(v))))}
}

// GtScalar returns a > v for a clear v. Defined for |a-v| < CmpRange.
func (a Int16) GtScalar(v int16) Bool {
	e := engine()
	return Bool{e.Lt(e.Trivial(Unsigned(int64(v))), a.Val)}
}

// GeScalar returns a >= v for a clear v. Defined for |a-v| < CmpRange.
func (a Int16) GeScalar(v int16) Bool {
	e := engine()
	return Bool{e.Lt(a.Val, e.Trivial(Unsigned(int64(v))))}.Not()
}

// LeScalar returns a <= v for a clear v. Defined for |a-v| < CmpRange.
func (a Int16) LeScalar(v int16) Bool {
	e := engine()
	return Bool{e.Lt(e.Trivial(Unsigned(int64(v))), a.Val)}.Not()
}

// Mask returns a when keep is 1 and 0 when keep is 0.
func (a Int16) Mask(keep Bool) Int16 {
	return Int16{engine().Mul(a.Val, keep.Val)}
}

// EncryptUint8 encrypts a byte under ck.
func EncryptUint8(ck ClientKey, v uint8) Uint8 {
	return Uint8{ck.Encrypt(uint64(v))}
}

// DecryptBool decrypts an encrypted boolean.
func DecryptBool(ck ClientKey, b Bool) bool {
	return ck.Decrypt(b.Val)%T != 0
}

// DecryptUint8 decrypts an encrypted byte.
func DecryptUint8(ck ClientKey, v Uint8) uint8 {
	return uint8(ck.Decrypt(v.Val) % T)
}

// DecryptUint16 decrypts an encrypted unsigned integer.
func DecryptUint16(ck ClientKey, v Uint16) uint16 {
	return uint16(ck.Decrypt(v.Val) % T)
}

// DecryptInt16 decrypts an encrypted signed integer, applying the balanced
// mapping.
func DecryptInt16(ck ClientKey, v Int16) int16 {
	return int16(Signed(ck.Decrypt(v.Val)))
}
