// Package heint implements the fhe primitive layer over lattigo's
// homomorphic integer arithmetic (BGV). Each fhe.Value is a single BGV
// ciphertext carrying one scalar mod T = 65537 replicated across the
// plaintext slots; trivial encryptions ride as bare scalars and use the
// evaluator's plaintext operand paths.
//
// Equality is computed with Fermat's little theorem: for prime T,
// (a-b)^(T-1) is 1 exactly when a != b, so eq(a,b) = 1 - (a-b)^(T-1),
// evaluated as sixteen ciphertext squarings. Ordering is computed by
// evaluating a Lagrange-interpolated sign indicator polynomial over the
// balanced range [-CmpRange, CmpRange) with the Paterson-Stockmeyer
// polynomial evaluator.
//
// The scheme is leveled: parameters must carry enough moduli for the
// multiplicative depth of the circuit they will evaluate (sixteen levels per
// equality, about ten per comparison, one per boolean combination). Running
// out of levels indicates mis-sized parameters and panics.
package heint

import (
	"sync"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/heint"

	"github.com/tuneinsight/hestring/fhe"
)

type value struct {
	ct      *rlwe.Ciphertext
	scalar  uint64
	trivial bool
}

// Engine evaluates fhe operations with a BGV evaluator. It implements
// fhe.Engine; concurrent use is supported through a pool of ShallowCopy'd
// evaluators, one per in-flight operation.
type Engine struct {
	params heint.Parameters
	evk    rlwe.EvaluationKeySet
	ltPoly heint.Polynomial

	pool sync.Pool // *worker
}

type worker struct {
	eval *heint.Evaluator
	poly *heint.PolynomialEvaluator
}

// NewEngine returns an evaluation engine for the given parameters. The
// evaluation key set must contain a relinearization key.
func NewEngine(params heint.Parameters, evk rlwe.EvaluationKeySet) *Engine {
	e := &Engine{
		params: params,
		evk:    evk,
		ltPoly: heint.NewPolynomial(negativeIndicator(fhe.CmpRange)),
	}
	base := heint.NewEvaluator(params, evk)
	e.pool.New = func() interface{} {
		eval := base.ShallowCopy()
		return &worker{
			eval: eval,
			poly: heint.NewPolynomialEvaluator(params, eval, false),
		}
	}
	return e
}

// Parameters returns the engine's BGV parameters.
func (e *Engine) Parameters() heint.Parameters { return e.params }

func (e *Engine) acquire() *worker  { return e.pool.Get().(*worker) }
func (e *Engine) release(w *worker) { e.pool.Put(w) }

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func asValue(v fhe.Value) value {
	val, ok := v.(value)
	if !ok {
		panic("heint: operand was not produced by this engine")
	}
	return val
}

// Trivial returns a trivial encryption of v mod T.
func (e *Engine) Trivial(v uint64) fhe.Value {
	return value{scalar: v % fhe.T, trivial: true}
}

// Add returns a+b mod T.
func (e *Engine) Add(a, b fhe.Value) fhe.Value {
	x, y := asValue(a), asValue(b)
	if x.trivial && y.trivial {
		return value{scalar: (x.scalar + y.scalar) % fhe.T, trivial: true}
	}
	if x.trivial {
		x, y = y, x
	}
	w := e.acquire()
	defer e.release(w)
	var (
		ct  *rlwe.Ciphertext
		err error
	)
	if y.trivial {
		ct, err = w.eval.AddNew(x.ct, y.scalar)
	} else {
		ct, err = w.eval.AddNew(x.ct, y.ct)
	}
	check(err)
	return value{ct: ct}
}

// Sub returns a-b mod T.
func (e *Engine) Sub(a, b fhe.Value) fhe.Value {
	x, y := asValue(a), asValue(b)
	if x.trivial && y.trivial {
		return value{scalar: (fhe.T + x.scalar - y.scalar) % fhe.T, trivial: true}
	}
	w := e.acquire()
	defer e.release(w)
	var (
		ct  *rlwe.Ciphertext
		err error
	)
	switch {
	case y.trivial:
		ct, err = w.eval.SubNew(x.ct, y.scalar)
	case x.trivial:
		// s - ct = (T-1)*ct + s
		ct, err = w.eval.MulNew(y.ct, uint64(fhe.T-1))
		check(err)
		ct, err = w.eval.AddNew(ct, x.scalar)
	default:
		ct, err = w.eval.SubNew(x.ct, y.ct)
	}
	check(err)
	return value{ct: ct}
}

// Mul returns a*b mod T. Ciphertext-ciphertext products are relinearized
// and rescaled, consuming one level.
func (e *Engine) Mul(a, b fhe.Value) fhe.Value {
	x, y := asValue(a), asValue(b)
	if x.trivial && y.trivial {
		return value{scalar: x.scalar * y.scalar % fhe.T, trivial: true}
	}
	if x.trivial {
		x, y = y, x
	}
	w := e.acquire()
	defer e.release(w)
	if y.trivial {
		ct, err := w.eval.MulNew(x.ct, y.scalar)
		check(err)
		return value{ct: ct}
	}
	return value{ct: e.mulRelin(w, x.ct, y.ct)}
}

func (e *Engine) mulRelin(w *worker, a, b *rlwe.Ciphertext) *rlwe.Ciphertext {
	ct, err := w.eval.MulRelinNew(a, b)
	check(err)
	// Rescaling fails at level 0, so an exhausted level budget panics here.
	check(w.eval.Rescale(ct, ct))
	return ct
}

// Eq returns 1 if a == b mod T and 0 otherwise.
func (e *Engine) Eq(a, b fhe.Value) fhe.Value {
	d := asValue(e.Sub(a, b))
	if d.trivial {
		if d.scalar == 0 {
			return value{scalar: 1, trivial: true}
		}
		return value{scalar: 0, trivial: true}
	}
	w := e.acquire()
	defer e.release(w)

	// d^(T-1) with T-1 = 2^16: sixteen squarings.
	pow := d.ct
	for i := 0; i < 16; i++ {
		pow = e.mulRelin(w, pow, pow)
	}
	// 1 - pow
	ct, err := w.eval.MulNew(pow, uint64(fhe.T-1))
	check(err)
	ct, err = w.eval.AddNew(ct, uint64(1))
	check(err)
	return value{ct: ct}
}

// Lt returns 1 if a < b under the balanced signed interpretation, for
// operands whose balanced difference lies in [-CmpRange, CmpRange).
func (e *Engine) Lt(a, b fhe.Value) fhe.Value {
	d := asValue(e.Sub(a, b))
	if d.trivial {
		if fhe.Signed(d.scalar) < 0 {
			return value{scalar: 1, trivial: true}
		}
		return value{scalar: 0, trivial: true}
	}
	w := e.acquire()
	defer e.release(w)

	// Shift to [0, 2R): negative differences land in [0, R).
	u, err := w.eval.AddNew(d.ct, uint64(fhe.CmpRange))
	check(err)
	ct, err := w.poly.Evaluate(u, e.ltPoly, e.params.DefaultScale())
	check(err)
	return value{ct: ct}
}
