package funktion

import (
	"log/slog"
	"math"
	"testing"

	"github.com/strukturlabs/strukt/internal/testutil"
	"github.com/strukturlabs/strukt/pkg/algebra"
)

// rootValues returns the numeric root locations in the order reported.
func rootValues(t *testing.T, roots []Root) []float64 {
	t.Helper()
	values := make([]float64, 0, len(roots))
	for _, r := range roots {
		v, ok := algebra.EvalFloat(r.Value)
		if !ok {
			t.Fatalf("root %s is not numerically evaluable", r.Value.String())
		}
		values = append(values, v)
	}
	return values
}

func assertRootValues(t *testing.T, roots []Root, want []float64, tol float64) {
	t.Helper()
	got := rootValues(t, roots)
	if len(got) != len(want) {
		t.Fatalf("expected %d roots %v, got %d: %v", len(want), want, len(got), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("root %d: expected %g, got %g", i, want[i], got[i])
		}
	}
}

// multiplicityAt finds the root nearest to x and returns its multiplicity.
func multiplicityAt(t *testing.T, roots []Root, x float64) int {
	t.Helper()
	for _, r := range roots {
		v, ok := algebra.EvalFloat(r.Value)
		if ok && math.Abs(v-x) < 1e-6 {
			return r.Multiplicity
		}
	}
	t.Fatalf("no root near %g in %v", x, roots)
	return 0
}

func TestRoots_Quadratic(t *testing.T) {
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Sum(algebra.Power(x, algebra.Integer(2)), algebra.Integer(-4)))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	assertRootValues(t, roots, []float64{-2, 2}, 1e-9)
	for _, r := range roots {
		if !r.Exact {
			t.Errorf("expected exact root, got approximate %s", r)
		}
		if r.Multiplicity != 1 {
			t.Errorf("expected multiplicity 1, got %d", r.Multiplicity)
		}
	}
}

func TestRoots_NoRealRootsIsEmptyNotError(t *testing.T) {
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Sum(algebra.Power(x, algebra.Integer(2)), algebra.Integer(1)))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("an empty zero set must not be an error, got: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("expected no real roots for x^2+1, got %v", rootValues(t, roots))
	}
}

func TestRoots_ConstantHasNone(t *testing.T) {
	f := mustFn(t, algebra.Integer(5))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 0 {
		t.Error("expected a constant to have no roots")
	}
}

func TestRoots_CubicDoubleRoot(t *testing.T) {
	// (x-1)²·(x+2) has a double root at 1 and a simple root at -2.
	x := algebra.Symbol("x")
	e := algebra.Prod(
		algebra.Power(algebra.Sum(x, algebra.Integer(-1)), algebra.Integer(2)),
		algebra.Sum(x, algebra.Integer(2)),
	)
	f := mustFn(t, e)

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	assertRootValues(t, roots, []float64{-2, 1}, 1e-6)
	if got := multiplicityAt(t, roots, 1); got != 2 {
		t.Errorf("expected multiplicity 2 at x=1, got %d", got)
	}
	if got := multiplicityAt(t, roots, -2); got != 1 {
		t.Errorf("expected multiplicity 1 at x=-2, got %d", got)
	}
}

func TestRoots_QuadraticInProductForm(t *testing.T) {
	// (x-1)·(x-3): the zero set must come from the expression itself,
	// not from an unverified backend factorization.
	x := algebra.Symbol("x")
	e := algebra.Prod(
		algebra.Sum(x, algebra.Integer(-1)),
		algebra.Sum(x, algebra.Integer(-3)),
	)
	f := mustFn(t, e)

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	assertRootValues(t, roots, []float64{1, 3}, 1e-9)
	for _, r := range roots {
		if r.Multiplicity != 1 {
			t.Errorf("expected multiplicity 1, got %d for %s", r.Multiplicity, r)
		}
	}
}

func TestRoots_VariableExponentHasNone(t *testing.T) {
	// 2^x splits into outer 2^u and inner x; the outer part must be
	// solved as a terminal leaf, not decomposed into itself again.
	f := mustFn(t,
		algebra.Power(algebra.Integer(2), algebra.Symbol("x")),
		WithLogger(testutil.NewTestLoggerAt(t, slog.LevelWarn)),
	)

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("an empty zero set must not be an error, got: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("expected 2^x to have no roots, got %v", rootValues(t, roots))
	}
}

func TestRoots_ProductUnion(t *testing.T) {
	// (x+1)·sin(x): the linear factor contributes -1, the sine factor
	// its family representatives inside the window.
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Prod(algebra.Sum(x, algebra.Integer(1)), algebra.Call("sin", x)))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	want := []float64{-2 * math.Pi, -math.Pi, -1, 0, math.Pi, 2 * math.Pi}
	assertRootValues(t, roots, want, 1e-9)

	// -1 came from an exact linear solve; the π-multiples are numeric.
	if got := multiplicityAt(t, roots, -1); got != 1 {
		t.Errorf("expected multiplicity 1 at x=-1, got %d", got)
	}
	for _, r := range roots {
		v, _ := algebra.EvalFloat(r.Value)
		if math.Abs(v-math.Pi) < 1e-9 && r.Exact {
			t.Error("expected the root at π to be marked approximate")
		}
	}
}

func TestRoots_ProductSumsMultiplicitiesOfSharedRoots(t *testing.T) {
	// (x-1)·sin(x-1): both factors vanish at 1, so the multiplicities add.
	x := algebra.Symbol("x")
	shifted := algebra.Sum(x, algebra.Integer(-1))
	f := mustFn(t, algebra.Prod(shifted, algebra.Call("sin", shifted)))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	if got := multiplicityAt(t, roots, 1); got != 2 {
		t.Errorf("expected the shared root at 1 to have multiplicity 2, got %d", got)
	}
}

func TestRoots_QuotientExcludesPoles(t *testing.T) {
	// (x²-1)/(x-1): the numerator root at 1 coincides with the pole and
	// is not a zero of the quotient.
	x := algebra.Symbol("x")
	num := algebra.Sum(algebra.Power(x, algebra.Integer(2)), algebra.Integer(-1))
	den := algebra.Sum(x, algebra.Integer(-1))
	f := mustFn(t, algebra.Prod(num, algebra.Power(den, algebra.Integer(-1))))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	assertRootValues(t, roots, []float64{-1}, 1e-9)
}

func TestRoots_QuotientWithRootlessNumerator(t *testing.T) {
	// (x²+1)/(x-2) has no real zeros at all.
	x := algebra.Symbol("x")
	num := algebra.Sum(algebra.Power(x, algebra.Integer(2)), algebra.Integer(1))
	den := algebra.Sum(x, algebra.Integer(-2))
	f := mustFn(t, algebra.Prod(num, algebra.Power(den, algebra.Integer(-1))))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("an empty zero set must not be an error, got: %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("expected no roots, got %v", rootValues(t, roots))
	}
}

func TestRoots_Composition(t *testing.T) {
	// sin(x²): outer zeros u=n·π; only the non-negative ones have real
	// preimages. Zero is a double root (sin(x²) ≈ x² there).
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Call("sin", algebra.Power(x, algebra.Integer(2))))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	sqrtPi := math.Sqrt(math.Pi)
	sqrt2Pi := math.Sqrt(2 * math.Pi)
	want := []float64{-sqrt2Pi, -sqrtPi, 0, sqrtPi, sqrt2Pi}
	assertRootValues(t, roots, want, 1e-9)
	if got := multiplicityAt(t, roots, 0); got != 2 {
		t.Errorf("expected multiplicity 2 at x=0, got %d", got)
	}
}

func TestRoots_SumNumericFallback(t *testing.T) {
	// x + sin(x) has no composition law; the numeric strategy finds the
	// single root at 0.
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Sum(x, algebra.Call("sin", x)))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	assertRootValues(t, roots, []float64{0}, 1e-6)
}

func TestRoots_Rounding(t *testing.T) {
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Sum(algebra.Power(x, algebra.Integer(2)), algebra.Integer(-2)))

	opts := DefaultRootOptions()
	opts.RoundTo = 3
	roots, err := f.Roots(opts)
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	assertRootValues(t, roots, []float64{-1.414, 1.414}, 1e-12)
	for _, r := range roots {
		if r.Exact {
			t.Errorf("expected a rounded root to be approximate: %s", r)
		}
	}
}

func TestRoots_SortedAscending(t *testing.T) {
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Prod(algebra.Sum(x, algebra.Integer(-3)), algebra.Call("sin", x)))

	roots, err := f.Roots(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to compute roots: %v", err)
	}
	values := rootValues(t, roots)
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("expected ascending order, got %v", values)
		}
	}
}

func TestRootString(t *testing.T) {
	r := Root{Value: algebra.Integer(2), Multiplicity: 1, Exact: true}
	if got := r.String(); got != "2" {
		t.Errorf("expected \"2\", got %q", got)
	}
	r.Multiplicity = 3
	if got := r.String(); got != "2 (multiplicity 3)" {
		t.Errorf("expected multiplicity note, got %q", got)
	}
}
