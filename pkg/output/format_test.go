package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nick-lortz/steelbuild-pro-sub006/internal/config"
	"github.com/nick-lortz/steelbuild-pro-sub006/internal/report"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/datetime"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/testutil"
	"go.uber.org/zap"
)

func sampleReport(t *testing.T) report.Report {
	t.Helper()
	now := datetime.MustParseTime(datetime.DateLayout, "2025-06-30")
	return report.GetReportAt(zap.NewNop(), testutil.SampleSnapshot(), config.Default(), now)
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleReport(t))
	out := buf.String()

	for _, expected := range []string{
		"Performance report for project proj-1",
		"Earned value",
		"Change order waterfall",
		"Budget variance",
		"Burn rate",
		"Risk:",
		"co-1",
		"co-2",
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("pretty output missing %q:\n%s", expected, out)
		}
	}

	// The approved change order carries the committed marker.
	if !strings.Contains(out, "* co-1") {
		t.Errorf("approved change order not marked committed:\n%s", out)
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, sampleReport(t))
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != `"section","name","status","before","after","impact"` {
		t.Errorf("header = %q", lines[0])
	}
	// Two waterfall rows plus the labor and material variance rows.
	if len(lines) != 5 {
		t.Errorf("csv rows = %d, expected 5:\n%s", len(lines), out)
	}
	if !strings.Contains(out, `"waterfall","co-1"`) {
		t.Errorf("missing waterfall row:\n%s", out)
	}
	if !strings.Contains(out, `"variance","labor"`) {
		t.Errorf("missing variance row:\n%s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleReport(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["projectId"] != "proj-1" {
		t.Errorf("projectId = %v, expected proj-1", decoded["projectId"])
	}
	for _, key := range []string{"earnedValue", "waterfall", "variance", "burnRate", "risk"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("decoded report missing %q section", key)
		}
	}
}
