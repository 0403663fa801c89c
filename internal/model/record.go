package model

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Record is a remote row as decoded from the NocoDB API.
type Record map[string]any

// Payload is a set of remote field names and values to write.
type Payload map[string]any

// RecordID returns the remote id (id, then Id) in string form.
func (r Record) RecordID() (string, bool) {
	for _, k := range []string{"id", "Id"} {
		if v, ok := r[k]; ok && v != nil {
			s := AnyToString(v)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// MapRemoteToRow converts a remote record into a Row. Missing values become
// "" or false; it never fails.
func MapRemoteToRow(rec Record) Row {
	row := Row{}
	if id, ok := rec.RecordID(); ok {
		row.RecordID = id
		row.ID = "api_" + id
	} else {
		row.ID = "api_" + strconv.FormatInt(rand.Int63(), 36)
	}
	for k, v := range rec {
		switch k {
		case "id", "Id":
			continue
		case KeyActivo, KeyUploadCatchAll:
			row.Set(k, strconv.FormatBool(anyTruthy(v)))
		default:
			row.Set(k, AnyToString(v))
		}
	}
	return row
}

// AnyToString stringifies a decoded JSON value; nil is "".
func AnyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return FormatNumber(t)
	case float32, int, int32, int64, uint, uint32, uint64, bool:
		return fmt.Sprint(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func anyTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

// DraftField describes one creation-form input and where it lands remotely.
type DraftField struct {
	Key     string
	Label   string
	Remote  string
	Numeric bool
}

// KeyCliente is carried over by "save and create another".
const KeyCliente = "cliente"

// DraftFields is the creation form, in display order.
var DraftFields = []DraftField{
	{Key: KeySDR, Label: "SDR", Remote: KeySDR},
	{Key: KeyPais, Label: "País", Remote: KeyPais},
	{Key: KeyHoraProgramada, Label: "Hora programada", Remote: KeyHoraProgramada},
	{Key: KeySheet, Label: "Sheet URL", Remote: KeySheet},
	{Key: KeySpreadsheetID, Label: "Spreadsheet ID", Remote: KeySpreadsheetID},
	{Key: KeySheetName, Label: "Nombre sheet", Remote: KeySheetName},
	{Key: KeyStatusSinHumanizar, Label: "Status sin humanizar", Remote: KeyStatusSinHumanizar},
	{Key: KeyStatusHumanizado, Label: "Status humanizado", Remote: KeyStatusHumanizado},
	{Key: KeyAPIKey, Label: "API Key", Remote: KeyAPIKey},
	{Key: KeyComentario, Label: "Comentario", Remote: KeyComentario},
	{Key: "margen", Label: "Margen (min)", Remote: KeyMargenMin, Numeric: true},
	{Key: KeyCliente, Label: "Cliente", Remote: "client"},
}

// Draft holds creation-form values keyed by DraftField.Key.
type Draft map[string]string

// NewDraft returns an empty draft with every form key present.
func NewDraft() Draft {
	d := Draft{}
	for _, f := range DraftFields {
		d[f.Key] = ""
	}
	return d
}

// DraftFromRow pre-fills a draft from an existing row for duplication.
func DraftFromRow(r Row) Draft {
	d := NewDraft()
	for _, f := range DraftFields {
		d[f.Key] = r.Get(f.Remote)
	}
	return d
}

// ResetKeeping returns an empty draft that keeps only the given key.
func (d Draft) ResetKeeping(key string) Draft {
	out := NewDraft()
	out[key] = d[key]
	return out
}

// RowToRemotePayload renames draft keys to remote field names. The numeric
// field maps "" to null and parseable text to a number.
func RowToRemotePayload(d Draft) Payload {
	p := Payload{}
	for _, f := range DraftFields {
		v := d[f.Key]
		if f.Numeric {
			p[f.Remote] = numericValue(v)
			continue
		}
		p[f.Remote] = v
	}
	return p
}

// FieldPayload is the single-field body of an inline edit.
func FieldPayload(key, value string) Payload {
	if IsNumeric(key) {
		return Payload{key: numericValue(value)}
	}
	return Payload{key: value}
}

func numericValue(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if f, ok := ParseNumber(v); ok {
		return f
	}
	return v
}

// Merge overlays the server response on the submitted payload so fields the
// server did not echo back are kept.
func Merge(p Payload, rec Record) Record {
	out := Record{}
	for k, v := range p {
		out[k] = v
	}
	for k, v := range rec {
		out[k] = v
	}
	if id, ok := rec.RecordID(); ok {
		out["id"] = id
	}
	return out
}
