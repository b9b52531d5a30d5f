package commands

import (
	"github.com/spf13/cobra"
)

// EvalOptions holds options for the eval command.
type EvalOptions struct {
	At float64
}

type evalReport struct {
	Term  string  `json:"term"`
	At    float64 `json:"at"`
	Value float64 `json:"value"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &EvalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <expr>",
		Short: "Evaluate a function at a point",
		Example: `  # f(2) for a function stored in a file
  strukt eval function.json --at 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.At, "at", 0, "Point to evaluate at")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runEval(cmd *cobra.Command, arg string, opts *EvalOptions) error {
	fn, deps, err := buildFunction(cmd, arg)
	if err != nil {
		return err
	}

	value, err := fn.Wert(opts.At)
	if err != nil {
		return err
	}

	r := deps.Renderer
	if r.JSONEnabled() {
		return r.JSON(evalReport{Term: fn.Term(), At: opts.At, Value: value})
	}
	r.Printf("f(%g) = %g\n", opts.At, value)
	return nil
}
