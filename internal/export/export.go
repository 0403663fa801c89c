package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"prospectsheet/internal/model"
)

// DefaultCSVName is the file name used when no output path is given.
const DefaultCSVName = "datos.csv"

var ErrNoRows = errors.New("no rows")

// WriteCSV writes one header row of column labels and one line per row.
// Values with separators, quotes or newlines are quoted with doubled quotes.
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Labels()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVString renders rows as a CSV document.
func CSVString(rows []model.Row) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func ToCSV(path string, rows []model.Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	if path == "" {
		path = DefaultCSVName
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ToXLSX writes the same table as ToCSV into the first sheet of a workbook.
func ToXLSX(path string, rows []model.Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := make([]any, 0, len(model.Columns))
	for _, l := range model.Labels() {
		header = append(header, l)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := record(r)
		line := make([]any, len(vals))
		for j, v := range vals {
			line[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// ToNDJSON writes one JSON object per row keyed by field name, including the
// fields the table does not show.
func ToNDJSON(path string, rows []model.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, r := range rows {
		b, err := json.Marshal(r.Fields())
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func record(r model.Row) []string {
	out := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		out[i] = r.Get(c.Key)
	}
	return out
}
