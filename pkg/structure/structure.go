// Package structure decomposes a classified expression into its
// ordered syntactic components: the summands of a sum, the factors of
// a product, numerator and denominator of a quotient, or the outer and
// inner parts of a one-level composition. Decomposition stops at
// pedagogically terminal categories and is atomic: a child that cannot
// be classified fails the whole operation.
package structure

import (
	"fmt"

	"github.com/strukturlabs/strukt/pkg/algebra"
	"github.com/strukturlabs/strukt/pkg/classify"
)

// CompositionVariable is the auxiliary symbol the outer part of a
// composition is expressed in: sin(x²+1) decomposes into outer sin(u)
// and inner x²+1.
const CompositionVariable = "u"

// Component is one syntactic part of a decomposed expression.
type Component struct {
	// Expr is the component's expression subtree, shared with the parent.
	Expr algebra.Expr
	// Category is the component's own structural category.
	Category classify.Category
	// Term is the plain-text rendering of the component.
	Term string
	// LaTeX is the LaTeX rendering of the component.
	LaTeX string
}

// Info describes the structure of an expression.
type Info struct {
	// Expr is the simplified expression the structure was read from.
	Expr algebra.Expr
	// Category is the top-level structural category.
	Category classify.Category
	// Components are the ordered parts; empty for terminal categories.
	Components []Component
	// Variable is the main variable the analysis ran against.
	Variable string
	// CanFactor reports whether the backend found a factorization.
	CanFactor bool
	// Factors holds the factorization when CanFactor is true.
	Factors []algebra.Expr
}

// DecompositionError reports that a component of an expression could
// not be built. Decomposition is all-or-nothing: when this error is
// returned no partial structure escapes.
type DecompositionError struct {
	// Term is the textual form of the offending sub-expression.
	Term string
	// Category is the structural category being attempted.
	Category string
	// Err is the underlying failure.
	Err error
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("failed to decompose %q as %s: %v", e.Term, e.Category, e.Err)
}

func (e *DecompositionError) Unwrap() error { return e.Err }

// ShouldStop reports whether decomposition halts at a category.
// Constants, linear and quadratic functions, and polynomials of degree
// at most three are never split further.
func ShouldStop(cat classify.Category) bool {
	switch cat.Kind {
	case classify.Constant, classify.Linear, classify.Quadratic:
		return true
	case classify.Polynomial:
		return cat.Degree <= 3
	}
	return false
}

// Decompose classifies e and builds its structural description.
func Decompose(e algebra.Expr, variable string) (*Info, error) {
	cat, err := classify.Classify(e, variable)
	if err != nil {
		return nil, &DecompositionError{Term: safeTerm(e), Category: "unclassified", Err: err}
	}
	e = algebra.Simplify(e)

	info := &Info{Expr: e, Category: cat, Variable: variable}

	var children []algebra.Expr
	switch cat.Kind {
	case classify.Sum:
		children = algebra.Terms(e)
		if len(children) < 2 {
			return nil, &DecompositionError{Term: e.String(), Category: cat.String(),
				Err: fmt.Errorf("sum has %d operands, need at least 2", len(children))}
		}
	case classify.Product:
		children = algebra.Factors(e)
		if len(children) < 2 {
			return nil, &DecompositionError{Term: e.String(), Category: cat.String(),
				Err: fmt.Errorf("product has %d operands, need at least 2", len(children))}
		}
	case classify.Quotient:
		num, den := SplitQuotient(e)
		children = []algebra.Expr{num, den}
	case classify.Composition:
		outer, inner, ok := CompositionParts(e, variable)
		if !ok {
			return nil, &DecompositionError{Term: e.String(), Category: cat.String(),
				Err: fmt.Errorf("no outer/inner split found")}
		}
		children = []algebra.Expr{outer, inner}
	default:
		// Terminal category, nothing to split.
	}

	for _, child := range children {
		comp, err := describeComponent(child, variable)
		if err != nil {
			return nil, &DecompositionError{Term: safeTerm(child), Category: cat.String(), Err: err}
		}
		info.Components = append(info.Components, comp)
	}

	if algebra.IsPolynomial(e, variable) {
		if factors, ok := algebra.Factor(e, variable); ok {
			info.CanFactor = true
			info.Factors = factors
		}
	}
	return info, nil
}

// describeComponent classifies a child expression. The outer part of a
// composition is classified against the auxiliary variable it is
// written in.
func describeComponent(child algebra.Expr, variable string) (Component, error) {
	v := variable
	if algebra.ContainsSymbol(child, CompositionVariable) && !algebra.ContainsSymbol(child, variable) {
		v = CompositionVariable
	}
	cat, err := classify.Classify(child, v)
	if err != nil {
		return Component{}, err
	}
	return Component{
		Expr:     child,
		Category: cat,
		Term:     child.String(),
		LaTeX:    child.LaTeX(),
	}, nil
}

// SplitQuotient splits an expression into numerator and denominator by
// collecting factors with negative exponents. The result is always a
// pair; a missing side degenerates to 1.
func SplitQuotient(e algebra.Expr) (num, den algebra.Expr) {
	var numParts, denParts []algebra.Expr

	collect := func(f algebra.Expr) {
		if base, exp, ok := algebra.PowParts(f); ok && algebra.IsNegativeNum(exp) {
			denParts = append(denParts, algebra.Power(base, algebra.Negate(exp)))
			return
		}
		numParts = append(numParts, f)
	}

	if factors := algebra.Factors(e); factors != nil {
		for _, f := range factors {
			collect(f)
		}
	} else {
		collect(e)
	}

	num = algebra.Integer(1)
	if len(numParts) > 0 {
		num = algebra.Prod(numParts...)
	}
	den = algebra.Integer(1)
	if len(denParts) > 0 {
		den = algebra.Prod(denParts...)
	}
	return num, den
}

// CompositionParts splits a one-level composition into outer and inner,
// with the outer part written in the auxiliary variable u.
// Recognized shapes: f(g(x)) for an elementary call f, g(x)^n for a
// non-polynomial base, and b^g(x) for a variable exponent.
// A split whose outer part is the expression itself — 2^u or u^(1/2)
// analyzed in u, where the inner part is the bare variable — makes no
// progress and is rejected, so such expressions stay terminal leaves
// instead of decomposing into identical copies of themselves forever.
func CompositionParts(e algebra.Expr, variable string) (outer, inner algebra.Expr, ok bool) {
	u := algebra.Symbol(CompositionVariable)

	if name, arg, isCall := algebra.CallParts(e); isCall && algebra.ContainsSymbol(arg, variable) {
		return splitUnlessFixedPoint(callOf(name, u), arg, e)
	}
	if base, exp, isPow := algebra.PowParts(e); isPow {
		if algebra.ContainsSymbol(exp, variable) {
			// b^g(x): outer is b^u, inner the exponent.
			return splitUnlessFixedPoint(algebra.Power(base, u), exp, e)
		}
		if algebra.ContainsSymbol(base, variable) {
			// g(x)^n: outer is u^n, inner the base.
			return splitUnlessFixedPoint(algebra.Power(u, exp), base, e)
		}
	}
	return nil, nil, false
}

// splitUnlessFixedPoint rejects a split that reproduced the whole
// expression, which happens exactly when the inner part is the bare
// auxiliary variable.
func splitUnlessFixedPoint(outer, inner, whole algebra.Expr) (algebra.Expr, algebra.Expr, bool) {
	if algebra.Equivalent(outer, whole) {
		return nil, nil, false
	}
	return outer, inner, true
}

// callOf rebuilds an elementary call around a new argument.
func callOf(name string, arg algebra.Expr) algebra.Expr {
	return algebra.Call(name, arg)
}

func safeTerm(e algebra.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
