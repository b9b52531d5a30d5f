package funktion

import (
	"math"
	"testing"

	"github.com/strukturlabs/strukt/pkg/algebra"
)

func TestExtrema_Cubic(t *testing.T) {
	// x³-3x has a maximum at (-1, 2) and a minimum at (1, -2).
	x := algebra.Symbol("x")
	e := algebra.Sum(algebra.Power(x, algebra.Integer(3)), algebra.Prod(algebra.Integer(-3), x))
	f := mustFn(t, e)

	extrema, err := f.Extrema(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to find extrema: %v", err)
	}
	if len(extrema) != 2 {
		t.Fatalf("expected 2 extrema, got %d", len(extrema))
	}

	byX := map[float64]Extremum{}
	for _, ex := range extrema {
		v, ok := algebra.EvalFloat(ex.X)
		if !ok {
			t.Fatalf("extremum location %s is not numeric", ex.X.String())
		}
		byX[math.Round(v)] = ex
	}

	maxAt, ok := byX[-1]
	if !ok {
		t.Fatal("expected an extremum at x=-1")
	}
	if maxAt.Kind != Maximum || math.Abs(maxAt.Y-2) > 1e-9 {
		t.Errorf("expected maximum with value 2 at x=-1, got %s at y=%g", maxAt.Kind, maxAt.Y)
	}

	minAt, ok := byX[1]
	if !ok {
		t.Fatal("expected an extremum at x=1")
	}
	if minAt.Kind != Minimum || math.Abs(minAt.Y+2) > 1e-9 {
		t.Errorf("expected minimum with value -2 at x=1, got %s at y=%g", minAt.Kind, minAt.Y)
	}
}

func TestExtrema_NoneForLinear(t *testing.T) {
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Sum(algebra.Prod(algebra.Integer(2), x), algebra.Integer(1)))

	extrema, err := f.Extrema(DefaultRootOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(extrema) != 0 {
		t.Errorf("expected no extrema for a linear function, got %d", len(extrema))
	}
}

func TestInflectionPoints_Cubic(t *testing.T) {
	x := algebra.Symbol("x")
	e := algebra.Sum(algebra.Power(x, algebra.Integer(3)), algebra.Prod(algebra.Integer(-3), x))
	f := mustFn(t, e)

	points, err := f.InflectionPoints(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to find inflection points: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 inflection point, got %d", len(points))
	}
	v, ok := algebra.EvalFloat(points[0])
	if !ok || math.Abs(v) > 1e-9 {
		t.Errorf("expected the inflection point at 0, got %s", points[0].String())
	}
}

func TestPoles(t *testing.T) {
	// (x²-1) / ((x-1)(x-3)): the pole at 1 cancels against the
	// numerator, the pole at 3 does not.
	x := algebra.Symbol("x")
	num := algebra.Sum(algebra.Power(x, algebra.Integer(2)), algebra.Integer(-1))
	den := algebra.Prod(algebra.Sum(x, algebra.Integer(-1)), algebra.Sum(x, algebra.Integer(-3)))
	f := mustFn(t, algebra.Prod(num, algebra.Power(den, algebra.Integer(-1))))

	poles, err := f.Poles(DefaultRootOptions())
	if err != nil {
		t.Fatalf("failed to find poles: %v", err)
	}
	if len(poles) != 2 {
		t.Fatalf("expected 2 poles, got %d", len(poles))
	}

	for _, p := range poles {
		v, ok := algebra.EvalFloat(p.X)
		if !ok {
			t.Fatalf("pole location %s is not numeric", p.X.String())
		}
		switch math.Round(v) {
		case 1:
			if !p.Removable {
				t.Error("expected the pole at 1 to be removable")
			}
		case 3:
			if p.Removable {
				t.Error("expected the pole at 3 to be genuine")
			}
		default:
			t.Errorf("unexpected pole at %g", v)
		}
	}
}

func TestPoles_NonQuotient(t *testing.T) {
	x := algebra.Symbol("x")
	f := mustFn(t, algebra.Power(x, algebra.Integer(2)))

	poles, err := f.Poles(DefaultRootOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(poles) != 0 {
		t.Errorf("expected no poles for a polynomial, got %d", len(poles))
	}
}
