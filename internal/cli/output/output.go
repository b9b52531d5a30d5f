// Package output renders command results as text tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Mode selects the output format.
type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Renderer writes command results to the configured streams.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
}

// NewRenderer creates a renderer. Unknown modes fall back to text.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode != ModeJSON {
		mode = ModeText
	}
	return &Renderer{out: out, errOut: errOut, mode: mode}
}

// JSONEnabled reports whether the renderer is in JSON mode.
func (r *Renderer) JSONEnabled() bool { return r.mode == ModeJSON }

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes formatted text to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// Table renders a header and rows as a light-styled table.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	t.Render()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
