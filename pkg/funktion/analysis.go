package funktion

import (
	"fmt"
	"math"

	"github.com/strukturlabs/strukt/pkg/algebra"
	"github.com/strukturlabs/strukt/pkg/classify"
)

// curvatureEpsilon separates a genuinely vanishing second derivative
// from numeric noise in the second-derivative test.
const curvatureEpsilon = 1e-9

// ExtremumKind labels a critical point.
type ExtremumKind int

const (
	Minimum ExtremumKind = iota
	Maximum
	Saddle
)

func (k ExtremumKind) String() string {
	switch k {
	case Minimum:
		return "minimum"
	case Maximum:
		return "maximum"
	case Saddle:
		return "saddle"
	}
	return fmt.Sprintf("ExtremumKind(%d)", int(k))
}

// Extremum is a classified critical point.
type Extremum struct {
	// X is the critical location.
	X algebra.Expr
	// Y is the function value there.
	Y float64
	// Kind is the second-derivative-test classification.
	Kind ExtremumKind
}

// Extrema finds the critical points of the function (zeros of the
// first derivative) and classifies each with the second-derivative
// test. Critical points where the function value cannot be evaluated
// (unbound parameters) are skipped.
func (f *Function) Extrema(opts RootOptions) ([]Extremum, error) {
	first, err := f.Ableitung(1)
	if err != nil {
		return nil, err
	}
	critical, err := first.Roots(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find critical points: %w", err)
	}
	if len(critical) == 0 {
		return nil, nil
	}
	second, err := f.Ableitung(2)
	if err != nil {
		return nil, err
	}

	var result []Extremum
	for _, c := range critical {
		x, ok := algebra.EvalFloat(c.Value)
		if !ok {
			continue
		}
		y, err := f.Wert(x)
		if err != nil {
			continue
		}
		curvature, err := second.Wert(x)
		if err != nil {
			continue
		}
		kind := Saddle
		switch {
		case curvature > curvatureEpsilon:
			kind = Minimum
		case curvature < -curvatureEpsilon:
			kind = Maximum
		}
		result = append(result, Extremum{X: c.Value, Y: y, Kind: kind})
	}
	return result, nil
}

// InflectionPoints finds the zeros of the second derivative at which
// the third derivative does not vanish.
func (f *Function) InflectionPoints(opts RootOptions) ([]algebra.Expr, error) {
	second, err := f.Ableitung(2)
	if err != nil {
		return nil, err
	}
	candidates, err := second.Roots(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find inflection candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	third, err := f.Ableitung(3)
	if err != nil {
		return nil, err
	}

	var points []algebra.Expr
	for _, c := range candidates {
		x, ok := algebra.EvalFloat(c.Value)
		if !ok {
			points = append(points, c.Value)
			continue
		}
		v, err := third.Wert(x)
		if err != nil || math.Abs(v) <= curvatureEpsilon {
			continue
		}
		points = append(points, c.Value)
	}
	return points, nil
}

// Pole is a point where a quotient's denominator vanishes.
type Pole struct {
	// X is the pole location.
	X algebra.Expr
	// Removable is true when the numerator vanishes there too, making
	// the point a definition gap rather than a genuine pole.
	Removable bool
}

// Poles returns the denominator zeros of a quotient, split into
// genuine poles and removable definition gaps. Non-quotients have none.
func (f *Function) Poles(opts RootOptions) ([]Pole, error) {
	if f.category.Kind != classify.Quotient {
		return nil, nil
	}
	comps, err := f.Components()
	if err != nil {
		return nil, err
	}
	denRoots, err := comps[1].Roots(innerOptions(opts))
	if err != nil {
		return nil, err
	}
	numRoots, err := comps[0].Roots(innerOptions(opts))
	if err != nil {
		return nil, err
	}

	poles := make([]Pole, 0, len(denRoots))
	for _, d := range denRoots {
		removable := false
		for _, n := range numRoots {
			if sameRoot(d.Value, n.Value) {
				removable = true
				break
			}
		}
		poles = append(poles, Pole{X: d.Value, Removable: removable})
	}
	return poles, nil
}
