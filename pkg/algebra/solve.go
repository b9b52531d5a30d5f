package algebra

import (
	"fmt"
	"math"

	"github.com/njchilds90/gosymbol"
)

// SolveOutcome is the result of a root-finding strategy. An empty
// Solutions slice with a nil error is a legitimate empty zero set.
type SolveOutcome struct {
	// Solutions holds the values of the variable, exact nodes where
	// the strategy could produce them, numeric nodes otherwise.
	Solutions []Expr
	// Exact is true when every solution is in closed form.
	Exact bool
}

// snapEpsilon is the residual tolerance below which a numeric root is
// snapped to the nearest small-denominator rational.
const snapEpsilon = 1e-9

// scanSteps is the grid resolution of the numeric sign-change scan.
const scanSteps = 2000

// LinearParts extracts k and b from k·x + b. ok is false when e is not
// linear in variable.
func LinearParts(e Expr, variable string) (k, b Expr, ok bool) {
	if !IsPolynomial(e, variable) || PolyDegree(e, variable) != 1 {
		return nil, nil, false
	}
	coeffs := PolyCoefficients(e, variable)
	k = coeffs[1]
	b = coeffs[0]
	if b == nil {
		b = gosymbol.N(0)
	}
	return k, b, true
}

// SolvePolynomial solves e = 0 for a polynomial in variable. Degrees
// one to three use the backend's exact routines; higher degrees fall
// back to Newton iteration with nice-rational snapping.
func SolvePolynomial(e Expr, variable string) (SolveOutcome, error) {
	if !IsPolynomial(e, variable) {
		return SolveOutcome{}, fmt.Errorf("%s is not a polynomial in %s", e.String(), variable)
	}
	coeffs := PolyCoefficients(e, variable)
	deg := PolyDegree(e, variable)
	c := func(i int) Expr {
		if v, ok := coeffs[i]; ok {
			return v
		}
		return gosymbol.N(0)
	}

	switch deg {
	case 0:
		// A non-zero constant has no roots; the zero polynomial has
		// no isolated roots either. Both are empty, not errors.
		return SolveOutcome{Exact: true}, nil
	case 1:
		return fromSolveResult(gosymbol.SolveLinear(c(1), c(0)))
	case 2:
		return fromSolveResult(gosymbol.SolveQuadraticExact(c(2), c(1), c(0)))
	case 3:
		return fromSolveResult(gosymbol.SolveCubic(c(3), c(2), c(1), c(0)))
	}

	res := gosymbol.SolvePolynomialNewton(e, variable, 100, 1e-10, 100)
	if res.Error != "" && len(res.Solutions) == 0 {
		return SolveOutcome{}, fmt.Errorf("failed to solve %s: %s", e.String(), res.Error)
	}
	return snapSolutions(e, variable, res.Solutions), nil
}

// fromSolveResult converts the backend result, treating a pure
// complex-roots answer as an empty real zero set rather than a failure.
func fromSolveResult(res gosymbol.SolveResult) (SolveOutcome, error) {
	if len(res.Solutions) > 0 {
		return SolveOutcome{Solutions: res.Solutions, Exact: res.ExactForm}, nil
	}
	if res.Error != "" && !isComplexRootsMessage(res.Error) {
		return SolveOutcome{}, fmt.Errorf("solver: %s", res.Error)
	}
	return SolveOutcome{Exact: true}, nil
}

func isComplexRootsMessage(msg string) bool {
	return len(msg) >= 7 && msg[:7] == "complex"
}

// snapSolutions replaces numeric solutions whose residual vanishes at a
// nearby small-denominator rational with that exact value.
func snapSolutions(e Expr, variable string, solutions []Expr) SolveOutcome {
	out := SolveOutcome{Exact: len(solutions) > 0}
	for _, sol := range solutions {
		x, ok := NumValue(sol)
		if !ok {
			out.Solutions = append(out.Solutions, sol)
			out.Exact = false
			continue
		}
		if nice, found := NiceRational(x, snapEpsilon); found {
			if residual, err := EvalAt(e, variable, mustFloat(nice)); err == nil && math.Abs(residual) < snapEpsilon {
				out.Solutions = append(out.Solutions, nice)
				continue
			}
		}
		out.Solutions = append(out.Solutions, sol)
		out.Exact = false
	}
	return out
}

func mustFloat(e Expr) float64 {
	v, _ := NumValue(e)
	return v
}

// SolveCall solves f(arg) = 0 for an elementary function call. Periodic
// functions yield infinite solution families; representatives are
// instantiated for arg values inside [-window, window].
func SolveCall(name string, arg Expr, variable string, window float64) (SolveOutcome, error) {
	if !ContainsSymbol(arg, variable) {
		return SolveOutcome{Exact: true}, nil
	}
	switch name {
	case "sin", "tan":
		// f(u) = 0 at u = n·π.
		return solveArgFamily(arg, variable, window, 0, math.Pi)
	case "cos":
		// cos(u) = 0 at u = π/2 + n·π.
		return solveArgFamily(arg, variable, window, math.Pi/2, math.Pi)
	case "exp", "cosh":
		// Strictly positive, never zero.
		return SolveOutcome{Exact: true}, nil
	case "sinh", "abs":
		return SolveEquals(arg, variable, gosymbol.N(0), window)
	case "tanh":
		return SolveEquals(arg, variable, gosymbol.N(0), window)
	case "ln":
		return SolveEquals(arg, variable, gosymbol.N(1), window)
	}
	return SolveOutcome{}, fmt.Errorf("no zero rule for function %q", name)
}

// solveArgFamily instantiates arg = offset + n·period for every n that
// produces a solution of the variable inside the window.
func solveArgFamily(arg Expr, variable string, window, offset, period float64) (SolveOutcome, error) {
	k, b, linear := solveLinearArg(arg, variable)
	if !linear {
		return SolveOutcome{}, fmt.Errorf("argument %s is not linear in %s", arg.String(), variable)
	}
	var out SolveOutcome
	for n := -maxFamilyIndex; n <= maxFamilyIndex; n++ {
		target := offset + float64(n)*period
		x := (target - b) / k
		if math.Abs(x) <= window+snapEpsilon {
			out.Solutions = append(out.Solutions, gosymbol.NFloat(x))
		}
	}
	sortNumericAscending(out.Solutions)
	return out, nil
}

// maxFamilyIndex bounds family instantiation; with the default window
// of two periods only a handful of indices can land inside it.
const maxFamilyIndex = 32

func solveLinearArg(arg Expr, variable string) (k, b float64, ok bool) {
	ke, be, linear := LinearParts(arg, variable)
	if !linear {
		return 0, 0, false
	}
	kv, kok := EvalFloat(ke)
	bv, bok := EvalFloat(be)
	if !kok || !bok || kv == 0 {
		return 0, 0, false
	}
	return kv, bv, true
}

// SolveEquals solves e = target for variable.
func SolveEquals(e Expr, variable string, target Expr, window float64) (SolveOutcome, error) {
	shifted := gosymbol.AddOf(e, gosymbol.MulOf(gosymbol.N(-1), target)).Simplify()
	if IsPolynomial(shifted, variable) {
		return SolvePolynomial(shifted, variable)
	}
	return SolveRealDomain(shifted, variable, window)
}

// SolveRealDomain solves e = 0 over the reals. Polynomials are solved
// exactly; single elementary calls through their zero rules; everything
// else through a numeric sign-change scan over [-window, window].
// An empty outcome with a nil error means the strategy ran to
// completion and found nothing.
func SolveRealDomain(e Expr, variable string, window float64) (SolveOutcome, error) {
	e = e.Simplify()
	if window <= 0 {
		window = 4 * math.Pi
	}
	if IsPolynomial(e, variable) {
		return SolvePolynomial(e, variable)
	}
	if name, arg, ok := CallParts(e); ok {
		if out, err := SolveCall(name, arg, variable, window); err == nil {
			return out, nil
		}
		// Non-linear call arguments fall through to the numeric scan.
	}
	// A call scaled by a non-zero constant has the zeros of the call.
	if factors := Factors(e); factors != nil {
		if call, rest, ok := splitScaledCall(factors, variable); ok {
			name, arg, _ := CallParts(call)
			if !ContainsSymbol(rest, variable) {
				if out, err := SolveCall(name, arg, variable, window); err == nil {
					return out, nil
				}
			}
		}
	}
	return scanForRoots(e, variable, window)
}

// splitScaledCall finds a single function-call factor among factors,
// returning it and the product of the remaining factors.
func splitScaledCall(factors []Expr, variable string) (call, rest Expr, ok bool) {
	idx := -1
	for i, f := range factors {
		if _, _, isCall := CallParts(f); isCall {
			if idx >= 0 {
				return nil, nil, false
			}
			idx = i
		}
	}
	if idx < 0 {
		return nil, nil, false
	}
	others := make([]Expr, 0, len(factors)-1)
	for i, f := range factors {
		if i != idx {
			others = append(others, f)
		}
	}
	if len(others) == 0 {
		return factors[idx], gosymbol.N(1), true
	}
	return factors[idx], gosymbol.MulOf(others...), true
}

// scanForRoots walks a uniform grid over [-window, window] looking for
// sign changes and exact grid hits, then refines each bracket by
// bisection. Candidates whose refined residual stays large (poles of
// tan-like functions also change sign) are discarded.
func scanForRoots(e Expr, variable string, window float64) (SolveOutcome, error) {
	f := func(x float64) (float64, bool) {
		v, err := EvalAt(e, variable, x)
		return v, err == nil
	}

	var found []float64
	step := 2 * window / scanSteps
	prevX := -window
	prevY, prevOK := f(prevX)
	for i := 1; i <= scanSteps; i++ {
		x := -window + float64(i)*step
		y, ok := f(x)
		if prevOK && math.Abs(prevY) < snapEpsilon {
			found = appendRoot(found, prevX)
		}
		if prevOK && ok && prevY*y < 0 {
			if root, hit := bisect(f, prevX, x); hit {
				found = appendRoot(found, root)
			}
		}
		prevX, prevY, prevOK = x, y, ok
	}
	if prevOK && math.Abs(prevY) < snapEpsilon {
		found = appendRoot(found, prevX)
	}

	out := SolveOutcome{}
	for _, x := range found {
		if nice, ok := NiceRational(x, 1e-6); ok {
			if residual, err := EvalAt(e, variable, mustFloat(nice)); err == nil && math.Abs(residual) < snapEpsilon {
				out.Solutions = append(out.Solutions, nice)
				continue
			}
		}
		out.Solutions = append(out.Solutions, gosymbol.NFloat(x))
	}
	return out, nil
}

// appendRoot adds x unless an existing root is within clustering
// distance, which collapses the duplicate hits a flat crossing produces.
func appendRoot(roots []float64, x float64) []float64 {
	for _, r := range roots {
		if math.Abs(r-x) < 1e-6 {
			return roots
		}
	}
	return append(roots, x)
}

// bisect narrows a sign-change bracket. Returns false when the bracket
// refines onto a pole rather than a root.
func bisect(f func(float64) (float64, bool), lo, hi float64) (float64, bool) {
	flo, ok := f(lo)
	if !ok {
		return 0, false
	}
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		fmid, ok := f(mid)
		if !ok {
			return 0, false
		}
		if math.Abs(fmid) < 1e-13 {
			return mid, true
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	root := (lo + hi) / 2
	v, ok := f(root)
	if !ok || math.Abs(v) > 1e-4 {
		return 0, false
	}
	return root, true
}

func sortNumericAscending(solutions []Expr) {
	for i := 1; i < len(solutions); i++ {
		for j := i; j > 0; j-- {
			a, aok := NumValue(solutions[j-1])
			b, bok := NumValue(solutions[j])
			if aok && bok && b < a {
				solutions[j-1], solutions[j] = solutions[j], solutions[j-1]
			} else {
				break
			}
		}
	}
}
