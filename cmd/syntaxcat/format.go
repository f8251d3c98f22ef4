package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jward/syntaxcat"
)

// formatLanguagesText formats languages as aligned columns.
func formatLanguagesText(w io.Writer, langs []*syntaxcat.Language) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVERSION\tENABLED\tCOMMENT")
	for _, l := range langs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", l.ID, l.Name, l.Version, l.Enabled, l.Syntax.LineComment)
	}
	tw.Flush()
}

// formatFunctionsText formats functions as aligned columns with a signature.
func formatFunctionsText(w io.Writer, fns []*syntaxcat.Function) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSIGNATURE")
	for _, f := range fns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Name, f.Category, signature(f))
	}
	tw.Flush()
}

// signature renders "(x: Number, ndigits?: Number) -> Number".
func signature(f *syntaxcat.Function) string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		name := p.Name
		if !p.Required {
			name += "?"
		}
		params[i] = name + ": " + p.Type
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if f.ReturnType != "" {
		sig += " -> " + f.ReturnType
	}
	return sig
}

func formatSearchText(w io.Writer, s CLISearch) {
	if len(s.Functions) > 0 {
		formatFunctionsText(w, s.Functions)
		return
	}
	fmt.Fprintf(w, "No functions match %q.\n", s.Query)
	if len(s.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(s.Suggestions, ", "))
	}
}

func formatPatternsText(w io.Writer, patterns []CLIPattern) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tKIND\tPATTERN\tIMPORTS")
	for _, p := range patterns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Function, p.Kind, oneLine(p.Pattern), strings.Join(p.Imports, "; "))
	}
	tw.Flush()
}

func formatTypeMappingsText(w io.Writer, mappings []CLITypeMapping) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCONCRETE\tIMPORTS")
	for _, m := range mappings {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Type, m.Concrete, strings.Join(m.Imports, "; "))
	}
	tw.Flush()
}

func formatStatsText(w io.Writer, s CLIStats) {
	fmt.Fprintf(w, "Languages:     %d\n", s.Languages)
	fmt.Fprintf(w, "Functions:     %d\n", s.Functions)
	fmt.Fprintf(w, "Patterns:      %d\n", s.Patterns)
	fmt.Fprintf(w, "Types:         %d\n", s.Types)
	fmt.Fprintf(w, "Type mappings: %d\n", s.TypeMappings)
}

// oneLine escapes newlines so block patterns stay on one row.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []*syntaxcat.Language:
		formatLanguagesText(w, v)
	case []*syntaxcat.Function:
		formatFunctionsText(w, v)
	case CLISearch:
		formatSearchText(w, v)
	case []CLIPattern:
		formatPatternsText(w, v)
	case []CLITypeMapping:
		formatTypeMappingsText(w, v)
	case CLIStats:
		formatStatsText(w, v)
	case CLISnapshot:
		fmt.Fprintf(w, "Snapshot %s (%s)\n", v.ID, v.Path)
		formatStatsText(w, v.Stats)
	case CLIStatus:
		fmt.Fprintf(w, "Catalog %s.\n", v.Status)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputResult writes a CLIResult to the command's output in the selected
// format.
func outputResult(cmd *cobra.Command, result CLIResult) error {
	w := cmd.OutOrStdout()
	switch flagFormat {
	case "text":
		return outputResultText(w, result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON and YAML mode the error is written to
// stdout as a CLIResult envelope. In text mode it goes to stderr.
func outputError(cmd *cobra.Command, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	_ = outputResult(cmd, CLIResult{Command: cmd.Name(), Error: err.Error()})
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "yaml", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, ", "))
}
