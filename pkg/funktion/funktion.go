// Package funktion provides the typed function object at the center of
// the analysis pipeline. A Function owns a symbolic expression, knows
// its structural category, lazily decomposes itself into typed child
// functions, computes its zero set by composing the zero sets of its
// parts, and memoizes derivative requests in a bounded cache.
//
// A Function is not safe for concurrent use; callers sharing one
// across goroutines must synchronize externally.
package funktion

import (
	"fmt"
	"log/slog"

	"github.com/strukturlabs/strukt/pkg/algebra"
	"github.com/strukturlabs/strukt/pkg/classify"
	"github.com/strukturlabs/strukt/pkg/structure"
)

// Function is a typed symbolic function. The concrete variant
// (polynomial leaf, trigonometric leaf, sum, product, quotient,
// composition, generic) is carried by its structural category and
// drives dispatch in root computation and decomposition.
type Function struct {
	expr      algebra.Expr
	variable  string
	params    []string
	category  classify.Category
	logger    *slog.Logger
	cacheSize int

	// Lazily populated; the bool makes the mutation point explicit.
	structureInfo   *structure.Info
	structureBuilt  bool
	components      []*Function
	componentsBuilt bool

	derivatives *DerivativeCache
	values      *valueCache
}

// Option configures a Function at construction time.
type Option func(*Function)

// WithVariable overrides main-variable detection.
func WithVariable(name string) Option {
	return func(f *Function) { f.variable = name }
}

// WithLogger sets the logger used for strategy and cache tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Function) { f.logger = logger }
}

// WithCacheCapacity sets the derivative-cache capacity.
func WithCacheCapacity(n int) Option {
	return func(f *Function) { f.cacheSize = n }
}

// New builds a typed function from an expression. The expression is
// classified immediately; decomposition into components happens on
// first access. Classification failures abort construction.
func New(expr algebra.Expr, opts ...Option) (*Function, error) {
	if expr == nil {
		return nil, &classify.Error{Reason: classify.ErrNilExpression}
	}
	f := &Function{
		expr:      algebra.Simplify(expr),
		cacheSize: DefaultCacheCapacity,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.variable == "" {
		f.variable = classify.MainVariable(f.expr)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	cat, err := classify.Classify(f.expr, f.variable)
	if err != nil {
		return nil, err
	}
	f.category = cat
	f.params = classify.Parameters(f.expr, f.variable)
	f.derivatives = NewDerivativeCache(f.cacheSize)
	f.values = newValueCache(valueCacheCapacity)
	return f, nil
}

// BuildComponent constructs the typed variant for an expression that
// has already been classified. The category of the returned function
// always matches a fresh classification of the same expression; a
// mismatch with the requested category is a decomposition failure.
func BuildComponent(expr algebra.Expr, cat classify.Category, variable string, opts ...Option) (*Function, error) {
	child, err := New(expr, append([]Option{WithVariable(variable)}, opts...)...)
	if err != nil {
		return nil, &structure.DecompositionError{Term: expr.String(), Category: cat.String(), Err: err}
	}
	if child.category.Kind != cat.Kind {
		return nil, &structure.DecompositionError{
			Term:     expr.String(),
			Category: cat.String(),
			Err:      fmt.Errorf("component reclassified as %s", child.category),
		}
	}
	return child, nil
}

// Term returns the plain-text rendering of the function.
func (f *Function) Term() string { return f.expr.String() }

// TermLaTeX returns the LaTeX rendering of the function.
func (f *Function) TermLaTeX() string { return f.expr.LaTeX() }

// String implements fmt.Stringer.
func (f *Function) String() string { return f.Term() }

// Expr exposes the underlying expression handle.
func (f *Function) Expr() algebra.Expr { return f.expr }

// Variable returns the main variable.
func (f *Function) Variable() string { return f.variable }

// Parameters returns the formal parameter symbols, sorted.
func (f *Function) Parameters() []string { return f.params }

// Category returns the structural category the function was built with.
func (f *Function) Category() classify.Category { return f.category }

// Structure returns the structural description, computing it on first
// access and reusing it afterwards.
func (f *Function) Structure() (*structure.Info, error) {
	if f.structureBuilt {
		return f.structureInfo, nil
	}
	info, err := structure.Decompose(f.expr, f.variable)
	if err != nil {
		return nil, err
	}
	f.structureInfo = info
	f.structureBuilt = true
	return info, nil
}

// Components returns the typed child functions, building them on first
// access. Terminal categories have no components. Construction is
// atomic: a child that fails leaves the function without components.
func (f *Function) Components() ([]*Function, error) {
	if f.componentsBuilt {
		return f.components, nil
	}
	info, err := f.Structure()
	if err != nil {
		return nil, err
	}
	built := make([]*Function, 0, len(info.Components))
	for _, comp := range info.Components {
		child, err := BuildComponent(comp.Expr, comp.Category, componentVariable(comp.Expr, f.variable),
			WithLogger(f.logger), WithCacheCapacity(f.cacheSize))
		if err != nil {
			return nil, err
		}
		built = append(built, child)
	}
	f.components = built
	f.componentsBuilt = true
	return f.components, nil
}

// componentVariable picks the variable a child function is analyzed
// against. The outer part of a composition is written in the auxiliary
// symbol and analyzed against it.
func componentVariable(expr algebra.Expr, parent string) string {
	if algebra.ContainsSymbol(expr, parent) {
		return parent
	}
	if algebra.ContainsSymbol(expr, structure.CompositionVariable) {
		return structure.CompositionVariable
	}
	return parent
}

// Wert evaluates the function at x. Results are served from a bounded
// value cache. Evaluation fails when parameters remain unbound or the
// function is undefined at x.
func (f *Function) Wert(x float64) (float64, error) {
	if y, ok := f.values.get(x); ok {
		return y, nil
	}
	y, err := algebra.EvalAt(f.expr, f.variable, x)
	if err != nil {
		return 0, err
	}
	f.values.put(x, y)
	return y, nil
}

// Ableitung returns the derivative of the given order as a new typed
// function. Repeated requests for the same order return the identical
// object from the derivative cache. Order zero is the function itself;
// negative orders violate the cache contract.
func (f *Function) Ableitung(order int) (*Function, error) {
	if order == 0 {
		return f, nil
	}
	return f.derivatives.GetOrCompute(order, func() (*Function, error) {
		derived := algebra.Derivative(f.expr, f.variable, order)
		child, err := New(derived, WithVariable(f.variable), WithLogger(f.logger), WithCacheCapacity(f.cacheSize))
		if err != nil {
			return nil, fmt.Errorf("failed to build derivative of order %d: %w", order, err)
		}
		return child, nil
	})
}

// CacheStats reports derivative-cache hit/miss counters.
func (f *Function) CacheStats() (hits, misses int, hitRate float64) {
	return f.derivatives.Hits(), f.derivatives.Misses(), f.derivatives.HitRate()
}

// WithParameters substitutes numeric values for parameter symbols and
// rebuilds the function; its category may change (a·x² with a=2 is a
// plain quadratic).
func (f *Function) WithParameters(values map[string]float64) (*Function, error) {
	expr := f.expr
	for name, value := range values {
		if !classify.IsParameter(name) {
			return nil, fmt.Errorf("%q is not a parameter symbol", name)
		}
		expr = algebra.Substitute(expr, name, algebra.Number(value))
	}
	return New(expr, WithVariable(f.variable), WithLogger(f.logger), WithCacheCapacity(f.cacheSize))
}
