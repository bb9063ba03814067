package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "hello"},
		{"whole float", float64(42), "42"},
		{"fractional float", 3.25, "3.25"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.in); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrintResult(t *testing.T) {
	result := models.Result{
		Columns: []string{"region", "total"},
		Rows: [][]any{
			{"east", float64(1200)},
			{"west", float64(900)},
		},
	}

	var buf bytes.Buffer
	if err := printResult(&buf, result); err != nil {
		t.Fatalf("printResult: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"region", "east", "1200", "2 row(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printResult(&buf, models.Result{Columns: []string{"a"}}); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(buf.String(), "No rows returned.") {
		t.Errorf("output = %q", buf.String())
	}
}
