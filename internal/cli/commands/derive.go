package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeriveOptions holds options for the derive command.
type DeriveOptions struct {
	Order int
	Stats bool
}

type deriveReport struct {
	Term       string  `json:"term"`
	Order      int     `json:"order"`
	Derivative string  `json:"derivative"`
	LaTeX      string  `json:"latex"`
	Category   string  `json:"category"`
	CacheHits  int     `json:"cache_hits,omitempty"`
	CacheMiss  int     `json:"cache_misses,omitempty"`
	HitRate    float64 `json:"cache_hit_rate,omitempty"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand() *cobra.Command {
	opts := &DeriveOptions{}

	cmd := &cobra.Command{
		Use:   "derive <expr>",
		Short: "Compute a derivative of the given order",
		Long: `Differentiate a function. Repeated requests for the same order are
served from the per-function derivative cache.`,
		Example: `  # First derivative
  strukt derive function.json

  # Third derivative with cache statistics
  strukt derive function.json --order 3 --stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Order, "order", 1, "Derivative order")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Show derivative-cache statistics")

	return cmd
}

func runDerive(cmd *cobra.Command, arg string, opts *DeriveOptions) error {
	fn, deps, err := buildFunction(cmd, arg)
	if err != nil {
		return err
	}
	if opts.Order < 0 {
		return fmt.Errorf("derivative order must be non-negative, got %d", opts.Order)
	}

	derived, err := fn.Ableitung(opts.Order)
	if err != nil {
		return err
	}

	report := deriveReport{
		Term:       fn.Term(),
		Order:      opts.Order,
		Derivative: derived.Term(),
		LaTeX:      derived.TermLaTeX(),
		Category:   derived.Category().String(),
	}
	if opts.Stats {
		report.CacheHits, report.CacheMiss, report.HitRate = fn.CacheStats()
	}

	r := deps.Renderer
	if r.JSONEnabled() {
		return r.JSON(report)
	}

	r.Printf("f(%s)    = %s\n", fn.Variable(), report.Term)
	r.Printf("f^(%d)(%s) = %s  [%s]\n", report.Order, fn.Variable(), report.Derivative, report.Category)
	if opts.Stats {
		r.Printf("cache: %d hits, %d misses (%.0f%% hit rate)\n",
			report.CacheHits, report.CacheMiss, report.HitRate*100)
	}
	return nil
}
