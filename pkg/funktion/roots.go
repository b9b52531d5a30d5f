package funktion

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/strukturlabs/strukt/pkg/algebra"
	"github.com/strukturlabs/strukt/pkg/classify"
	"github.com/strukturlabs/strukt/pkg/structure"
)

// DefaultRootWindow bounds the representatives extracted from periodic
// solution families, matching the classroom convention of looking at
// [-2π, 2π].
const DefaultRootWindow = 2 * math.Pi

// rootEpsilon is the numeric distance below which two root values are
// considered the same point.
const rootEpsilon = 1e-7

// Root is one element of a zero set.
type Root struct {
	// Value is the root location, exact where possible.
	Value algebra.Expr
	// Multiplicity counts repeated factors; always at least 1.
	Multiplicity int
	// Exact is false when the value came out of numeric approximation.
	Exact bool
}

func (r Root) String() string {
	if r.Multiplicity > 1 {
		return fmt.Sprintf("%s (multiplicity %d)", r.Value.String(), r.Multiplicity)
	}
	return r.Value.String()
}

// RootOptions controls root computation.
type RootOptions struct {
	// OnlyReal drops provably non-real roots; indeterminate symbolic
	// entries are kept.
	OnlyReal bool
	// RoundTo rounds numeric roots to that many decimal places after
	// deduplication. Negative disables rounding.
	RoundTo int
	// Window bounds representatives of periodic families and the
	// numeric scan range.
	Window float64
}

// DefaultRootOptions returns the standard settings: real roots only,
// no rounding, family window [-2π, 2π].
func DefaultRootOptions() RootOptions {
	return RootOptions{OnlyReal: true, RoundTo: -1, Window: DefaultRootWindow}
}

// RootComputationError reports that every root-finding strategy failed.
// It is never returned for a correctly empty zero set.
type RootComputationError struct {
	// Term is the textual form of the function.
	Term string
	// Category is the structural category the computation ran under.
	Category string
	// Attempts lists the failed strategies with their errors.
	Attempts []string
}

func (e *RootComputationError) Error() string {
	return fmt.Sprintf("failed to compute roots of %q (%s): %s",
		e.Term, e.Category, strings.Join(e.Attempts, "; "))
}

// Roots computes the zero set of the function by dispatching on its
// structural category and composing the zero sets of its components.
// The result is deduplicated by symbolic equivalence, filtered,
// rounded per the options, and sorted ascending.
func (f *Function) Roots(opts RootOptions) ([]Root, error) {
	if opts.Window <= 0 {
		opts.Window = DefaultRootWindow
	}
	raw, err := f.computeRoots(opts)
	if err != nil {
		return nil, err
	}
	roots := mergeRoots(nil, raw)
	if opts.OnlyReal {
		roots = dropNonReal(roots)
	}
	if opts.RoundTo >= 0 {
		roots = roundRoots(roots, opts.RoundTo)
	}
	sortRoots(roots)
	return roots, nil
}

func (f *Function) computeRoots(opts RootOptions) ([]Root, error) {
	f.logger.Debug("computing roots", "term", f.Term(), "category", f.category.String())
	switch f.category.Kind {
	case classify.Constant:
		// A constant is either never zero or identically zero; neither
		// yields isolated roots.
		return nil, nil
	case classify.Linear, classify.Quadratic, classify.Polynomial, classify.RationalFraction:
		return f.polynomialRoots(opts)
	case classify.Sum:
		return f.sumRoots(opts)
	case classify.Product:
		return f.productRoots(opts)
	case classify.Quotient:
		return f.quotientRoots(opts)
	case classify.Composition:
		return f.compositionRoots(opts)
	}
	return f.leafRoots(opts)
}

// polynomialRoots tries the exact factor-based routine, then the
// general polynomial solver, then the numeric fallback. The first
// non-empty result wins; an empty result from a strategy that ran to
// completion is final only after every strategy agreed.
func (f *Function) polynomialRoots(opts RootOptions) ([]Root, error) {
	var attempts []string
	succeeded := false
	var found []Root

	if roots, err := f.factoredRoots(); err != nil {
		attempts = append(attempts, fmt.Sprintf("factorization: %v", err))
	} else {
		succeeded = true
		found = roots
	}

	if len(found) == 0 {
		if outcome, err := algebra.SolvePolynomial(f.expr, f.variable); err != nil {
			attempts = append(attempts, fmt.Sprintf("polynomial solve: %v", err))
		} else {
			succeeded = true
			found = outcomeRoots(outcome)
		}
	}

	if len(found) == 0 {
		if outcome, err := algebra.SolveRealDomain(f.expr, f.variable, opts.Window); err != nil {
			attempts = append(attempts, fmt.Sprintf("numeric scan: %v", err))
		} else {
			succeeded = true
			found = outcomeRoots(outcome)
		}
	}

	if !succeeded {
		return nil, &RootComputationError{Term: f.Term(), Category: f.category.String(), Attempts: attempts}
	}
	return f.refineMultiplicities(mergeRoots(nil, found)), nil
}

// refineMultiplicities replaces the multiplicity of each polynomial
// root with the number of successive derivatives vanishing at it.
// Solvers that collapse a double root into a single solution (the
// cubic routine does) would otherwise under-report it.
func (f *Function) refineMultiplicities(roots []Root) []Root {
	deg := algebra.PolyDegree(f.expr, f.variable)
	for i := range roots {
		mult := 1
		for k := 1; k < deg; k++ {
			if !vanishesAt(algebra.Derivative(f.expr, f.variable, k), f.variable, roots[i].Value) {
				break
			}
			mult++
		}
		roots[i].Multiplicity = mult
	}
	return roots
}

// vanishesAt reports whether e evaluates to zero at variable = value,
// symbolically where possible, numerically otherwise.
func vanishesAt(e algebra.Expr, variable string, value algebra.Expr) bool {
	at := algebra.Simplify(algebra.Substitute(e, variable, value))
	if algebra.IsZero(at) {
		return true
	}
	v, ok := algebra.EvalFloat(at)
	return ok && math.Abs(v) < 1e-6
}

// factoredRoots solves each backend factor separately so repeated
// factors carry their multiplicity. The factorization is only trusted
// when its product reproduces the expression; the backend can report
// success with wrong factors for some non-monic shapes.
func (f *Function) factoredRoots() ([]Root, error) {
	factors, ok := algebra.Factor(f.expr, f.variable)
	if !ok {
		return nil, fmt.Errorf("backend found no factorization of %s", f.Term())
	}
	if !algebra.Equivalent(algebra.Prod(factors...), f.expr) {
		return nil, fmt.Errorf("factorization of %s does not multiply back to it", f.Term())
	}
	var all []Root
	for _, factor := range factors {
		mult := 1
		base := factor
		if b, exp, isPow := algebra.PowParts(factor); isPow && algebra.IsIntegerNum(exp) {
			if n, _ := algebra.NumValue(exp); n > 1 {
				base, mult = b, int(n)
			}
		}
		if !algebra.ContainsSymbol(base, f.variable) {
			continue
		}
		outcome, err := algebra.SolvePolynomial(base, f.variable)
		if err != nil {
			return nil, fmt.Errorf("failed to solve factor %s: %w", base.String(), err)
		}
		roots := outcomeRoots(outcome)
		for i := range roots {
			roots[i].Multiplicity *= mult
		}
		all = mergeRoots(all, roots)
	}
	return all, nil
}

// sumRoots has no composition law. It attempts a direct solve of the
// collapsed sum, then a real-domain solve that can instantiate
// periodic families. Exhausting both with nothing found is a
// legitimate empty zero set.
func (f *Function) sumRoots(opts RootOptions) ([]Root, error) {
	var attempts []string
	succeeded := false

	// The Pythagorean identity may reduce the sum to something a
	// direct solve handles.
	collapsed := algebra.CollapseTrig(f.expr)
	if algebra.IsPolynomial(collapsed, f.variable) {
		if outcome, err := algebra.SolvePolynomial(collapsed, f.variable); err != nil {
			attempts = append(attempts, fmt.Sprintf("direct solve: %v", err))
		} else {
			succeeded = true
			if len(outcome.Solutions) > 0 {
				return outcomeRoots(outcome), nil
			}
		}
	}

	if outcome, err := algebra.SolveRealDomain(collapsed, f.variable, opts.Window); err != nil {
		attempts = append(attempts, fmt.Sprintf("real-domain solve: %v", err))
	} else {
		succeeded = true
		if len(outcome.Solutions) > 0 {
			return outcomeRoots(outcome), nil
		}
	}

	if !succeeded {
		return nil, &RootComputationError{Term: f.Term(), Category: f.category.String(), Attempts: attempts}
	}
	f.logger.Debug("sum has no roots in window", "term", f.Term(), "window", opts.Window)
	return nil, nil
}

// productRoots applies the zero-product law: the union of the child
// zero sets, with multiplicities of equivalent roots summed.
func (f *Function) productRoots(opts RootOptions) ([]Root, error) {
	comps, err := f.Components()
	if err != nil {
		return nil, err
	}
	var all []Root
	for _, child := range comps {
		if !algebra.ContainsSymbol(child.expr, f.variable) {
			continue
		}
		childRoots, err := child.Roots(innerOptions(opts))
		if err != nil {
			return nil, err
		}
		all = mergeRoots(all, childRoots)
	}
	return all, nil
}

// quotientRoots keeps numerator roots that do not coincide with a
// denominator root: a zero at a pole is not a zero of the quotient.
func (f *Function) quotientRoots(opts RootOptions) ([]Root, error) {
	comps, err := f.Components()
	if err != nil {
		return nil, err
	}
	numRoots, err := comps[0].Roots(innerOptions(opts))
	if err != nil {
		return nil, err
	}
	denRoots, err := comps[1].Roots(innerOptions(opts))
	if err != nil {
		return nil, err
	}
	var kept []Root
	for _, r := range numRoots {
		excluded := false
		for _, pole := range denRoots {
			if sameRoot(r.Value, pole.Value) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// compositionRoots solves outer(u)=0, then inner(x)=u₀ for every
// solution u₀. Only one nesting level is supported; deeper nesting
// surfaces as an inner component that fails to solve.
func (f *Function) compositionRoots(opts RootOptions) ([]Root, error) {
	// Powers already written in their own variable (2^u, u^(1/2)) have
	// no outer/inner split that makes progress; solve them as leaves.
	if _, _, ok := structure.CompositionParts(f.expr, f.variable); !ok {
		return f.leafRoots(opts)
	}
	comps, err := f.Components()
	if err != nil {
		return nil, err
	}
	outer, inner := comps[0], comps[1]

	outerRoots, err := outer.Roots(innerOptions(opts))
	if err != nil {
		return nil, err
	}
	if len(outerRoots) == 0 {
		return nil, nil
	}

	var all []Root
	var attempts []string
	solvedAny := false
	for _, u0 := range outerRoots {
		outcome, err := algebra.SolveEquals(inner.expr, f.variable, u0.Value, opts.Window)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("inner solve at u=%s: %v", u0.Value.String(), err))
			continue
		}
		solvedAny = true
		for _, sol := range outcome.Solutions {
			all = mergeRoots(all, []Root{{
				Value:        sol,
				Multiplicity: u0.Multiplicity,
				Exact:        u0.Exact && outcome.Exact,
			}})
		}
	}
	if !solvedAny {
		return nil, &RootComputationError{Term: f.Term(), Category: f.category.String(), Attempts: attempts}
	}
	return all, nil
}

// leafRoots handles terminal non-polynomial leaves (trigonometric,
// exponential, unknown) through the real-domain solver.
func (f *Function) leafRoots(opts RootOptions) ([]Root, error) {
	outcome, err := algebra.SolveRealDomain(f.expr, f.variable, opts.Window)
	if err != nil {
		return nil, &RootComputationError{
			Term:     f.Term(),
			Category: f.category.String(),
			Attempts: []string{fmt.Sprintf("real-domain solve: %v", err)},
		}
	}
	return outcomeRoots(outcome), nil
}

// innerOptions strips rounding from recursive calls; rounding happens
// exactly once, after the top-level merge.
func innerOptions(opts RootOptions) RootOptions {
	opts.RoundTo = -1
	return opts
}

func outcomeRoots(outcome algebra.SolveOutcome) []Root {
	roots := make([]Root, 0, len(outcome.Solutions))
	for _, sol := range outcome.Solutions {
		roots = append(roots, Root{Value: sol, Multiplicity: 1, Exact: outcome.Exact})
	}
	return roots
}

// mergeRoots folds src into dst, summing multiplicities and ANDing
// exactness of equivalent roots. Equivalence is symbolic (difference
// simplifies to zero) with a numeric fallback, never literal equality.
func mergeRoots(dst, src []Root) []Root {
	for _, r := range src {
		if r.Multiplicity < 1 {
			r.Multiplicity = 1
		}
		merged := false
		for i := range dst {
			if sameRoot(dst[i].Value, r.Value) {
				dst[i].Multiplicity += r.Multiplicity
				dst[i].Exact = dst[i].Exact && r.Exact
				merged = true
				break
			}
		}
		if !merged {
			dst = append(dst, r)
		}
	}
	return dst
}

func sameRoot(a, b algebra.Expr) bool {
	if algebra.Equivalent(a, b) {
		return true
	}
	av, aok := algebra.EvalFloat(a)
	bv, bok := algebra.EvalFloat(b)
	return aok && bok && math.Abs(av-bv) < rootEpsilon
}

// dropNonReal removes roots that are provably non-real: values whose
// simplified form contains an even root of a negative number. Entries
// that stay symbolic (parametric) are indeterminate and kept.
func dropNonReal(roots []Root) []Root {
	kept := roots[:0]
	for _, r := range roots {
		if !provablyNonReal(algebra.Simplify(r.Value)) {
			kept = append(kept, r)
		}
	}
	return kept
}

func provablyNonReal(e algebra.Expr) bool {
	if base, exp, ok := algebra.PowParts(e); ok {
		if v, isNum := algebra.NumValue(base); isNum && v < 0 {
			if ev, expNum := algebra.NumValue(exp); expNum && ev == 0.5 {
				return true
			}
		}
		return provablyNonReal(base) || provablyNonReal(exp)
	}
	for _, t := range algebra.Terms(e) {
		if provablyNonReal(t) {
			return true
		}
	}
	for _, fac := range algebra.Factors(e) {
		if provablyNonReal(fac) {
			return true
		}
	}
	return false
}

// roundRoots rounds numerically evaluable roots to the requested
// number of decimal places. Runs after deduplication.
func roundRoots(roots []Root, places int) []Root {
	scale := math.Pow(10, float64(places))
	for i, r := range roots {
		v, ok := algebra.EvalFloat(r.Value)
		if !ok {
			continue
		}
		rounded := math.Round(v*scale) / scale
		if rounded != v {
			roots[i].Value = algebra.Number(rounded)
			roots[i].Exact = false
		}
	}
	return roots
}

// sortRoots orders numerically evaluable roots ascending; symbolic
// entries sort after them by term text.
func sortRoots(roots []Root) {
	sort.SliceStable(roots, func(i, j int) bool {
		vi, oki := algebra.EvalFloat(roots[i].Value)
		vj, okj := algebra.EvalFloat(roots[j].Value)
		switch {
		case oki && okj:
			return vi < vj
		case oki:
			return true
		case okj:
			return false
		}
		return roots[i].Value.String() < roots[j].Value.String()
	})
}
