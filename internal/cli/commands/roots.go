package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strukturlabs/strukt/pkg/algebra"
)

// RootsOptions holds options for the roots command.
type RootsOptions struct {
	Round      int
	AllComplex bool
	Window     float64
}

type rootsReport struct {
	Term     string       `json:"term"`
	Category string       `json:"category"`
	Roots    []rootRecord `json:"roots"`
}

type rootRecord struct {
	Value        string   `json:"value"`
	Numeric      *float64 `json:"numeric,omitempty"`
	Multiplicity int      `json:"multiplicity"`
	Exact        bool     `json:"exact"`
}

// NewRootsCommand creates the roots command.
func NewRootsCommand() *cobra.Command {
	opts := &RootsOptions{Round: -1}

	cmd := &cobra.Command{
		Use:   "roots <expr>",
		Short: "Compute the zero set of a function",
		Long: `Compute the roots of a function with multiplicities, composing the
zero sets of its structural components: the union for products, the
numerator-minus-poles rule for quotients, and the two-stage
outer/inner rule for one-level compositions.`,
		Example: `  # Roots of a function stored in a file
  strukt roots function.json

  # Round numeric roots to 3 decimal places
  strukt roots function.json --round 3

  # Keep non-real roots
  strukt roots function.json --all-complex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoots(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Round, "round", -1, "Round numeric roots to N decimal places (-1 disables)")
	cmd.Flags().BoolVar(&opts.AllComplex, "all-complex", false, "Keep provably non-real roots")
	cmd.Flags().Float64Var(&opts.Window, "window", 0, "Window for periodic root families, in radians (0 = default)")

	return cmd
}

func runRoots(cmd *cobra.Command, arg string, opts *RootsOptions) error {
	fn, deps, err := buildFunction(cmd, arg)
	if err != nil {
		return err
	}

	rootOpts := rootOptions(deps.Cfg)
	if cmd.Flags().Changed("round") {
		rootOpts.RoundTo = opts.Round
	}
	if opts.AllComplex {
		rootOpts.OnlyReal = false
	}
	if opts.Window > 0 {
		rootOpts.Window = opts.Window
	}

	roots, err := fn.Roots(rootOpts)
	if err != nil {
		return err
	}

	report := rootsReport{
		Term:     fn.Term(),
		Category: fn.Category().String(),
		Roots:    []rootRecord{},
	}
	for _, r := range roots {
		rec := rootRecord{
			Value:        r.Value.String(),
			Multiplicity: r.Multiplicity,
			Exact:        r.Exact,
		}
		if v, ok := algebra.EvalFloat(r.Value); ok {
			rec.Numeric = &v
		}
		report.Roots = append(report.Roots, rec)
	}

	r := deps.Renderer
	if r.JSONEnabled() {
		return r.JSON(report)
	}

	r.Printf("f(%s) = %s  [%s]\n", fn.Variable(), report.Term, report.Category)
	if len(report.Roots) == 0 {
		r.Printf("No roots found.\n")
		return nil
	}
	rows := make([][]string, 0, len(report.Roots))
	for _, rec := range report.Roots {
		numeric := ""
		if rec.Numeric != nil {
			numeric = fmt.Sprintf("%.6g", *rec.Numeric)
		}
		rows = append(rows, []string{rec.Value, numeric, fmt.Sprintf("%d", rec.Multiplicity), fmt.Sprintf("%t", rec.Exact)})
	}
	r.Table([]string{"Root", "Numeric", "Multiplicity", "Exact"}, rows)
	return nil
}
