// Package algebra is the narrow surface through which the rest of the
// module talks to the symbolic backend. It wraps the gosymbol kernel
// with the handful of operations the analysis pipeline needs:
// simplification, differentiation, factoring, polynomial inspection,
// structural introspection and numeric evaluation.
//
// Nothing outside this package imports the backend directly.
package algebra

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/njchilds90/gosymbol"
)

// Expr is the opaque expression handle. Backend nodes are immutable and
// shared by reference, so subtrees may be held by several components
// without copying.
type Expr = gosymbol.Expr

// NodeKind identifies the top-level shape of an expression node.
type NodeKind int

const (
	KindNumber NodeKind = iota
	KindSymbol
	KindAdd
	KindMul
	KindPow
	KindCall
	KindOther
)

// KindOf reports the top-level node kind of e.
func KindOf(e Expr) NodeKind {
	switch e.(type) {
	case *gosymbol.Num:
		return KindNumber
	case *gosymbol.Sym:
		return KindSymbol
	case *gosymbol.Add:
		return KindAdd
	case *gosymbol.Mul:
		return KindMul
	case *gosymbol.Pow:
		return KindPow
	case *gosymbol.Func:
		return KindCall
	}
	return KindOther
}

// Terms returns the summands of a top-level addition, or nil.
func Terms(e Expr) []Expr {
	if a, ok := e.(*gosymbol.Add); ok {
		return a.Terms()
	}
	return nil
}

// Factors returns the factors of a top-level multiplication, or nil.
func Factors(e Expr) []Expr {
	if m, ok := e.(*gosymbol.Mul); ok {
		return m.Factors()
	}
	return nil
}

// PowParts splits a top-level power into base and exponent.
func PowParts(e Expr) (base, exp Expr, ok bool) {
	if p, ok := e.(*gosymbol.Pow); ok {
		return p.Base(), p.ExpExpr(), true
	}
	return nil, nil, false
}

// CallParts splits a top-level function call into name and argument.
func CallParts(e Expr) (name string, arg Expr, ok bool) {
	if f, ok := e.(*gosymbol.Func); ok {
		return f.FuncName(), f.Arg(), true
	}
	return "", nil, false
}

// NumValue returns the rational value of a numeric node as a float.
func NumValue(e Expr) (float64, bool) {
	if n, ok := e.(*gosymbol.Num); ok {
		return n.Float64(), true
	}
	return 0, false
}

// IsIntegerNum reports whether e is an integer literal.
func IsIntegerNum(e Expr) bool {
	n, ok := e.(*gosymbol.Num)
	return ok && n.IsInteger()
}

// IsNegativeNum reports whether e is a negative numeric literal.
func IsNegativeNum(e Expr) bool {
	n, ok := e.(*gosymbol.Num)
	return ok && n.IsNegative()
}

// Simplify applies the backend's one-pass simplifier.
func Simplify(e Expr) Expr { return e.Simplify() }

// DeepSimplify simplifies to a fixed point, interleaving the single
// permitted trigonometric rewrite (sin²+cos²=1).
func DeepSimplify(e Expr) Expr { return gosymbol.DeepSimplify(e) }

// CollapseTrig applies the Pythagorean identity sin²+cos²=1, the only
// trigonometric rewrite the pipeline ever performs.
func CollapseTrig(e Expr) Expr { return gosymbol.TrigSimplify(e) }

// Expand distributes products and integer powers over sums.
func Expand(e Expr) Expr { return gosymbol.Expand(e) }

// Derivative returns the order-th derivative of e with respect to variable.
func Derivative(e Expr, variable string, order int) Expr {
	return gosymbol.DiffN(e, variable, order)
}

// Substitute replaces variable with value throughout e.
func Substitute(e Expr, variable string, value Expr) Expr {
	return gosymbol.Sub(e, variable, value)
}

// Factor attempts a polynomial factorization of e in variable.
// ok is false when the backend has no factoring rule for the shape.
func Factor(e Expr, variable string) (factors []Expr, ok bool) {
	res := gosymbol.Factor(e, variable)
	if !res.Success || len(res.Factors) < 2 {
		return nil, false
	}
	return res.Factors, true
}

// FreeSymbols returns the free symbol names of e in sorted order.
func FreeSymbols(e Expr) []string {
	set := gosymbol.FreeSymbols(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContainsSymbol reports whether name occurs free in e.
func ContainsSymbol(e Expr, name string) bool {
	_, ok := gosymbol.FreeSymbols(e)[name]
	return ok
}

// IsPolynomial reports whether e is a polynomial in variable: built
// from numbers, symbols, sums, products and non-negative integer
// powers, with variable never appearing inside a function call or
// exponent.
func IsPolynomial(e Expr, variable string) bool {
	switch v := e.(type) {
	case *gosymbol.Num:
		return true
	case *gosymbol.Sym:
		return true
	case *gosymbol.Add:
		for _, t := range v.Terms() {
			if !IsPolynomial(t, variable) {
				return false
			}
		}
		return true
	case *gosymbol.Mul:
		for _, f := range v.Factors() {
			if !IsPolynomial(f, variable) {
				return false
			}
		}
		return true
	case *gosymbol.Pow:
		exp, expOK := v.ExpExpr().(*gosymbol.Num)
		if !expOK || !exp.IsInteger() || exp.IsNegative() {
			return false
		}
		return IsPolynomial(v.Base(), variable)
	case *gosymbol.Func:
		return !ContainsSymbol(v.Arg(), variable)
	}
	return false
}

// PolyDegree returns the degree of e as a polynomial in variable.
// The expression is expanded first so factored forms such as (x+1)²
// report their true degree.
func PolyDegree(e Expr, variable string) int {
	return gosymbol.Degree(gosymbol.Expand(e), variable)
}

// PolyCoefficients returns the coefficient map degree → coefficient of
// the expanded polynomial.
func PolyCoefficients(e Expr, variable string) map[int]Expr {
	return gosymbol.PolyCoeffs(gosymbol.Expand(e), variable)
}

// EvalFloat numerically evaluates a closed expression.
func EvalFloat(e Expr) (float64, bool) {
	n, ok := e.Simplify().Eval()
	if !ok {
		return 0, false
	}
	return n.Float64(), true
}

// EvalAt evaluates e at variable = x.
func EvalAt(e Expr, variable string, x float64) (float64, error) {
	v, ok := EvalFloat(gosymbol.Sub(e, variable, gosymbol.NFloat(x)))
	if !ok {
		return 0, fmt.Errorf("failed to evaluate %s at %s=%g", e.String(), variable, x)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expression %s is undefined at %s=%g", e.String(), variable, x)
	}
	return v, nil
}

// IsZero reports whether e simplifies to the literal zero.
func IsZero(e Expr) bool {
	n, ok := e.Simplify().(*gosymbol.Num)
	return ok && n.IsZero()
}

// Equivalent reports whether a and b denote the same function: their
// difference, expanded and deeply simplified, is the literal zero.
// Falls back to a numeric comparison when both sides evaluate.
func Equivalent(a, b Expr) bool {
	if a.Simplify().Equal(b.Simplify()) {
		return true
	}
	diff := gosymbol.AddOf(a, gosymbol.MulOf(gosymbol.N(-1), b))
	if IsZero(gosymbol.DeepSimplify(gosymbol.Expand(diff))) {
		return true
	}
	av, aok := EvalFloat(a)
	bv, bok := EvalFloat(b)
	return aok && bok && math.Abs(av-bv) < 1e-9
}

// niceDenominators are tried in order when snapping a numeric root to
// an exact rational.
var niceDenominators = []int64{1, 2, 3, 4, 5, 6, 8, 10, 12}

// NiceRational snaps x to a small-denominator rational when one lies
// within eps. Used to recover exact roots from numeric solving.
func NiceRational(x float64, eps float64) (Expr, bool) {
	for _, q := range niceDenominators {
		p := math.Round(x * float64(q))
		if math.Abs(p) > 1e6 {
			continue
		}
		if math.Abs(x-p/float64(q)) < eps {
			return gosymbol.F(int64(p), q), true
		}
	}
	return nil, false
}

// Number wraps a float as a backend numeric node.
func Number(x float64) Expr { return gosymbol.NFloat(x) }

// Integer wraps an integer as a backend numeric node.
func Integer(n int64) Expr { return gosymbol.N(n) }

// Symbol returns the backend node for a named symbol.
func Symbol(name string) Expr { return gosymbol.S(name) }

// Sum builds a simplified sum node.
func Sum(terms ...Expr) Expr { return gosymbol.AddOf(terms...) }

// Prod builds a simplified product node.
func Prod(factors ...Expr) Expr { return gosymbol.MulOf(factors...) }

// Power builds a simplified power node.
func Power(base, exp Expr) Expr { return gosymbol.PowOf(base, exp) }

// Negate returns -e.
func Negate(e Expr) Expr { return gosymbol.MulOf(gosymbol.N(-1), e) }

// Call builds an elementary function call by name.
func Call(name string, arg Expr) Expr {
	switch name {
	case "sin":
		return gosymbol.SinOf(arg)
	case "cos":
		return gosymbol.CosOf(arg)
	case "tan":
		return gosymbol.TanOf(arg)
	case "exp":
		return gosymbol.ExpOf(arg)
	case "ln":
		return gosymbol.LnOf(arg)
	case "abs":
		return gosymbol.AbsOf(arg)
	case "sinh":
		return gosymbol.SinhOf(arg)
	case "cosh":
		return gosymbol.CoshOf(arg)
	case "tanh":
		return gosymbol.TanhOf(arg)
	case "asin":
		return gosymbol.AsinOf(arg)
	case "acos":
		return gosymbol.AcosOf(arg)
	case "atan":
		return gosymbol.AtanOf(arg)
	}
	// Uncommon names go through the backend's generic JSON constructor.
	raw, err := gosymbol.ToJSON(arg)
	if err != nil {
		return arg
	}
	var argDoc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &argDoc); err != nil {
		return arg
	}
	e, err := gosymbol.FromJSON(map[string]interface{}{"type": "func", "name": name, "arg": argDoc})
	if err != nil {
		return arg
	}
	return e
}

// FromJSON decodes the backend's JSON expression encoding.
func FromJSON(data []byte) (Expr, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode expression document: %w", err)
	}
	expr, err := gosymbol.FromJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}
	return expr, nil
}

// ToJSON encodes e in the backend's JSON expression encoding.
func ToJSON(e Expr) (string, error) { return gosymbol.ToJSON(e) }
