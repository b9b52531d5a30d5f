// Package classify assigns a structural category to a symbolic
// expression. Classification is a pure function over the expression
// shape; it never mutates the expression and performs exactly one
// rewrite, the Pythagorean identity, before deciding whether an
// addition is a genuine sum.
package classify

import (
	"fmt"

	"github.com/strukturlabs/strukt/pkg/algebra"
)

// CategoryKind is the coarse algebraic shape of an expression.
type CategoryKind int

//go:generate go tool stringer -type=CategoryKind

const (
	Constant CategoryKind = iota
	Linear
	Quadratic
	Polynomial
	RationalFraction
	Exponential
	Trigonometric
	Sum
	Product
	Quotient
	Composition
	Unknown
)

// Category is a structural category. Degree is populated for
// Polynomial and zero otherwise.
type Category struct {
	Kind   CategoryKind
	Degree int
}

func (c Category) String() string {
	if c.Kind == Polynomial {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Degree)
	}
	return c.Kind.String()
}

// Error message formats.
const (
	ErrNilExpression = "cannot classify: expression is nil"
	ErrOpaqueShape   = "cannot classify %q: backend cannot introspect its shape"
)

// Error reports that an expression could not be classified.
type Error struct {
	// Term is the textual form of the offending expression.
	Term string
	// Reason describes why classification failed.
	Reason string
}

func (e *Error) Error() string {
	if e.Term == "" {
		return fmt.Sprintf("classification failed: %s", e.Reason)
	}
	return fmt.Sprintf("classification of %q failed: %s", e.Term, e.Reason)
}

// parameterSymbols are single-letter names treated as formal parameters
// rather than candidates for the main variable.
var parameterSymbols = map[string]struct{}{
	"a": {}, "b": {}, "c": {}, "k": {}, "m": {}, "n": {}, "p": {}, "q": {},
}

// IsParameter reports whether name denotes a formal parameter.
func IsParameter(name string) bool {
	_, ok := parameterSymbols[name]
	return ok
}

// mainVariableOrder is the preference order when several free symbols
// could serve as the main variable.
var mainVariableOrder = []string{"x", "t", "y", "z"}

// MainVariable picks the main variable of an expression: x before t
// before y before z, then the first non-parameter symbol in sorted
// order, defaulting to x for constant expressions.
func MainVariable(e algebra.Expr) string {
	free := algebra.FreeSymbols(e)
	for _, preferred := range mainVariableOrder {
		for _, name := range free {
			if name == preferred {
				return name
			}
		}
	}
	for _, name := range free {
		if !IsParameter(name) {
			return name
		}
	}
	return "x"
}

// Parameters returns the free parameter symbols of e in sorted order.
func Parameters(e algebra.Expr, variable string) []string {
	var params []string
	for _, name := range algebra.FreeSymbols(e) {
		if name != variable && IsParameter(name) {
			params = append(params, name)
		}
	}
	return params
}

// Classify determines the structural category of e with respect to the
// main variable. Decision order, first match wins:
// constant, polynomial by degree, sum (after the Pythagorean check),
// product or quotient, composition, trigonometric leaf, exponential
// leaf, unknown.
func Classify(e algebra.Expr, variable string) (Category, error) {
	if e == nil {
		return Category{}, &Error{Reason: ErrNilExpression}
	}
	e = algebra.Simplify(e)

	if isConstant(e, variable) {
		return Category{Kind: Constant}, nil
	}

	if algebra.IsPolynomial(e, variable) {
		switch deg := algebra.PolyDegree(e, variable); deg {
		case 0:
			return Category{Kind: Constant}, nil
		case 1:
			return Category{Kind: Linear}, nil
		case 2:
			return Category{Kind: Quadratic}, nil
		default:
			return Category{Kind: Polynomial, Degree: deg}, nil
		}
	}

	switch algebra.KindOf(e) {
	case algebra.KindAdd:
		// The Pythagorean identity may collapse an apparent sum to a
		// single term; if so the collapsed form decides the category.
		collapsed := algebra.CollapseTrig(e)
		if algebra.KindOf(collapsed) != algebra.KindAdd {
			return Classify(collapsed, variable)
		}
		return Category{Kind: Sum}, nil

	case algebra.KindMul:
		if hasDenominatorPart(e, variable) {
			return Category{Kind: Quotient}, nil
		}
		return Category{Kind: Product}, nil

	case algebra.KindPow:
		_, exp, _ := algebra.PowParts(e)
		if algebra.IsNegativeNum(exp) {
			return Category{Kind: Quotient}, nil
		}
		// Polynomial powers were handled above, so what remains is a
		// symbolic exponent (base^exponent) or a power applied to a
		// non-polynomial base (outer u^n of inner f). Both decompose
		// as compositions.
		return Category{Kind: Composition}, nil

	case algebra.KindCall:
		name, arg, _ := algebra.CallParts(e)
		if isBareVariable(arg, variable) {
			switch name {
			case "sin", "cos", "tan":
				return Category{Kind: Trigonometric}, nil
			case "exp":
				return Category{Kind: Exponential}, nil
			}
			return Category{Kind: Unknown}, nil
		}
		if algebra.ContainsSymbol(arg, variable) {
			// Outer function of an inner expression.
			return Category{Kind: Composition}, nil
		}
		return Category{Kind: Constant}, nil

	case algebra.KindNumber, algebra.KindSymbol:
		// Covered by the constant and polynomial rules above; a bare
		// main-variable symbol is Linear and never reaches here.
		return Category{Kind: Unknown}, nil
	}

	return Category{}, &Error{Term: e.String(), Reason: "backend cannot introspect its shape"}
}

// isConstant reports whether e has no free symbols besides parameters.
func isConstant(e algebra.Expr, variable string) bool {
	for _, name := range algebra.FreeSymbols(e) {
		if name == variable || !IsParameter(name) {
			return false
		}
	}
	return true
}

// isBareVariable reports whether e is exactly the main-variable symbol.
func isBareVariable(e algebra.Expr, variable string) bool {
	return algebra.KindOf(e) == algebra.KindSymbol && e.String() == variable
}

// hasDenominatorPart reports whether a product carries a factor with a
// negative exponent, which makes it a quotient rather than a product.
func hasDenominatorPart(e algebra.Expr, variable string) bool {
	for _, f := range algebra.Factors(e) {
		if _, exp, ok := algebra.PowParts(f); ok && algebra.IsNegativeNum(exp) {
			return true
		}
	}
	return false
}
