package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	ShowLaTeX bool
}

// analyzeReport is the JSON shape of an analysis result.
type analyzeReport struct {
	Term      string             `json:"term"`
	LaTeX     string             `json:"latex"`
	Variable  string             `json:"variable"`
	Category  string             `json:"category"`
	CanFactor bool               `json:"can_factor"`
	Factors   []string           `json:"factors,omitempty"`
	Parts     []analyzeComponent `json:"components,omitempty"`
}

type analyzeComponent struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	LaTeX    string `json:"latex"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <expr>",
		Short: "Classify an expression and show its structure",
		Long: `Classify the structural category of a symbolic expression and
decompose it into its typed components.

Expressions are given as JSON documents in the backend encoding,
either inline, as a file path, or on stdin with "-".`,
		Example: `  # Analyze an expression from a file
  strukt analyze function.json

  # Analyze an inline product (x+1)*sin(x)
  strukt analyze '{"type":"mul","factors":[{"type":"add","terms":[{"type":"sym","name":"x"},{"type":"num","value":"1"}]},{"type":"func","name":"sin","arg":{"type":"sym","name":"x"}}]}'

  # JSON output
  strukt analyze function.json --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowLaTeX, "latex", false, "Include LaTeX renderings in text output")

	return cmd
}

func runAnalyze(cmd *cobra.Command, arg string, opts *AnalyzeOptions) error {
	fn, deps, err := buildFunction(cmd, arg)
	if err != nil {
		return err
	}

	info, err := fn.Structure()
	if err != nil {
		return fmt.Errorf("failed to analyze structure: %w", err)
	}

	report := analyzeReport{
		Term:      fn.Term(),
		LaTeX:     fn.TermLaTeX(),
		Variable:  fn.Variable(),
		Category:  fn.Category().String(),
		CanFactor: info.CanFactor,
	}
	for _, factor := range info.Factors {
		report.Factors = append(report.Factors, factor.String())
	}
	for _, comp := range info.Components {
		report.Parts = append(report.Parts, analyzeComponent{
			Term:     comp.Term,
			Category: comp.Category.String(),
			LaTeX:    comp.LaTeX,
		})
	}

	r := deps.Renderer
	if r.JSONEnabled() {
		return r.JSON(report)
	}

	r.Printf("f(%s) = %s\n", report.Variable, report.Term)
	r.Printf("Category: %s\n", report.Category)
	if report.CanFactor {
		r.Printf("Factors: %v\n", report.Factors)
	}
	if len(report.Parts) > 0 {
		r.Printf("\n")
		header := []string{"#", "Component", "Category"}
		if opts.ShowLaTeX {
			header = append(header, "LaTeX")
		}
		rows := make([][]string, 0, len(report.Parts))
		for i, part := range report.Parts {
			row := []string{fmt.Sprintf("%d", i+1), part.Term, part.Category}
			if opts.ShowLaTeX {
				row = append(row, part.LaTeX)
			}
			rows = append(rows, row)
		}
		r.Table(header, rows)
	}
	return nil
}
