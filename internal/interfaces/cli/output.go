package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// tableProvider is implemented by results that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd.OutOrStdout(), data)
	}

	switch cliCtx.OutputFormat {
	case FormatJSON:
		return printJSON(cmd.OutOrStdout(), data)
	case FormatTable:
		return printTable(cmd.OutOrStdout(), data)
	default:
		return printText(cmd.OutOrStdout(), data)
	}
}

// jsonProvider lets a view choose what is encoded in json mode.
type jsonProvider interface {
	JSONValue() interface{}
}

func printJSON(w io.Writer, data interface{}) error {
	if jp, ok := data.(jsonProvider); ok {
		data = jp.JSONValue()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode output")
	}
	return nil
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprintln(w, v.String())
	default:
		fmt.Fprintf(w, "%+v\n", v)
	}
	return nil
}

// printTable falls back to text when data has no table form.
func printTable(w io.Writer, data interface{}) error {
	tp, ok := data.(tableProvider)
	if !ok {
		return printText(w, data)
	}
	out, err := RenderTable(tp.TableHeaders(), tp.TableRows())
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

// RenderTable renders headers and rows with tablewriter.
func RenderTable(headers []string, rows [][]string) (string, error) {
	if len(headers) == 0 {
		return "", nil
	}
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to append table row")
		}
	}
	if err := table.Render(); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to render table")
	}
	return buf.String(), nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	var ee *ExitError
	if errors.As(err, &ee) && ee.Err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// colorSimilarity highlights a score by its similarity band.
func colorSimilarity(score float64) string {
	s := fmt.Sprintf("%.4f", score)
	switch domainMol.ClassifySimilarity(score) {
	case "identical", "high":
		return color.GreenString(s)
	case "moderate":
		return color.YellowString(s)
	case "low":
		return color.New(color.FgHiYellow).Sprint(s)
	default:
		return color.RedString(s)
	}
}

func passFail(ok bool) string {
	if ok {
		return color.GreenString("pass")
	}
	return color.RedString("fail")
}

func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

//Personal.AI order the ending
