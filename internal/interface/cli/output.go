package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// printResult renders query rows as a tab-aligned table.
func printResult(out io.Writer, result models.Result) error {
	if len(result.Rows) == 0 {
		fmt.Fprintln(out, "No rows returned.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, col := range result.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)

	for _, row := range result.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, formatCell(cell))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d row(s)\n", len(result.Rows))
	return nil
}

// formatCell renders one JSON-decoded cell value. Whole-number floats are
// shown without a decimal point since JSON numbers all decode as float64.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
