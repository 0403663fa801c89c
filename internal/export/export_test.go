package export

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"prospectsheet/internal/model"
)

func rows() []model.Row {
	a := model.Row{ID: "api_1", RecordID: "1", SDR: "Acme, Inc.", Pais: `He said "hi"`, MargenMin: "12.5", Activo: true}
	b := model.Row{ID: "api_2", RecordID: "2", SDR: "line\nbreak", Sheet: "https://docs.google.com/spreadsheets/d/x"}
	b.Set("client", "Globex")
	return []model.Row{a, b}
}

func TestCSVQuoting(t *testing.T) {
	out, err := CSVString(rows())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.SplitN(out, "\n", 2)
	if lines[0] != strings.Join(model.Labels(), ",") {
		t.Fatalf("header: %q", lines[0])
	}
	if !strings.Contains(out, `"Acme, Inc.","He said ""hi"""`) {
		t.Fatalf("quoting: %s", out)
	}
	if !strings.Contains(out, "\"line\nbreak\"") {
		t.Fatalf("newline quoting: %s", out)
	}
}

func TestCSVHeaderOnlyForNoRows(t *testing.T) {
	out, err := CSVString(nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected header only: %q", out)
	}
}

func TestToCSVWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(path, rows()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "SDR,") {
		t.Fatalf("unexpected content: %q", b)
	}
	if err := ToCSV(path, nil); err != ErrNoRows {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestToXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := ToXLSX(path, rows()); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("rows: %d", len(got))
	}
	if got[0][0] != "SDR" || got[1][0] != "Acme, Inc." {
		t.Fatalf("cells: %v", got[:2])
	}
}

func TestToNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	if err := ToNDJSON(path, rows()); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	var objs []map[string]any
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		objs = append(objs, m)
	}
	if len(objs) != 2 {
		t.Fatalf("objects: %d", len(objs))
	}
	if objs[0]["margen_min"] != 12.5 || objs[0]["activo"] != true {
		t.Fatalf("first: %v", objs[0])
	}
	if objs[1]["margen_min"] != nil || objs[1]["client"] != "Globex" {
		t.Fatalf("second: %v", objs[1])
	}
}
