package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/smallyu/go-sss/internal/codec"
	"github.com/smallyu/go-sss/internal/workflow"
	"github.com/smallyu/go-sss/pkg/sss"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintBundle prints the shares of a split. secretHex is only set when the
// secret was generated by the command itself.
func (p *Printer) PrintBundle(b *workflow.Bundle, secretHex, path string) error {
	switch p.format {
	case OutputFormatJSON:
		out := map[string]interface{}{"bundle": b}
		if secretHex != "" {
			out["secret"] = secretHex
		}
		if path != "" {
			out["written_to"] = path
		}
		return p.printJSON(out)
	case OutputFormatText:
		if secretHex != "" {
			fmt.Fprintf(p.writer, "Secret:    %s\n", secretHex)
		}
		fmt.Fprintf(p.writer, "Session:   %s\n", b.Session)
		fmt.Fprintf(p.writer, "Curve:     %s\n", b.Curve)
		fmt.Fprintf(p.writer, "Threshold: %d of %d\n", b.Params.Threshold, b.Params.Total)
		fmt.Fprintf(p.writer, "Shape:     %s\n", b.Shape)
		fmt.Fprintln(p.writer, "Shares:")
		for i, share := range b.Shares {
			fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, share)
		}
		if path != "" {
			fmt.Fprintf(p.writer, "Bundle written to %s\n", path)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRecovery prints the result of a combine.
func (p *Printer) PrintRecovery(r *workflow.Recovery) error {
	switch p.format {
	case OutputFormatJSON:
		out := map[string]interface{}{
			"hex":   r.Hex,
			"text":  r.Text,
			"shape": r.Shape,
		}
		if r.Verified {
			out["matches"] = r.Matches
		}
		return p.printJSON(out)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Recovered (hex):  %s\n", r.Hex)
		fmt.Fprintf(p.writer, "Recovered (text): %s\n", r.Text)
		if r.Verified {
			fmt.Fprintf(p.writer, "Matches original: %t\n", r.Matches)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintIdentifiers prints freshly drawn identifiers
func (p *Printer) PrintIdentifiers(curve sss.Curve, ids [][]byte) error {
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = codec.BytesToHex(id)
	}
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"curve":       curve,
			"identifiers": hexes,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Identifiers (%s):\n", curve)
		for i, h := range hexes {
			fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, h)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

func (p *Printer) printJSON(v interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
