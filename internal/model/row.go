package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Field keys as named by the remote table.
const (
	KeySDR                = "sdr"
	KeyPais               = "pais"
	KeySheetName          = "sheet_name"
	KeySpreadsheetID      = "spreadsheet_id"
	KeyHoraProgramada     = "hora_programada"
	KeyUltimaHumanizacion = "ultima_humanizacion"
	KeyUltimoEnvioReply   = "ultimo_envio_reply"
	KeyMargenMin          = "margen_min"
	KeyActivo             = "activo"
	KeyComentario         = "comentario"
	KeyStatusSinHumanizar = "status_sin_humanizar"
	KeyStatusHumanizado   = "status_humanizado"
	KeyUploadCatchAll     = "upload_catch_all"
	KeySheet              = "sheet"
	KeyAPIKey             = "api_key"
)

// Row is one locally held campaign record. ID is local and stable for the
// row's lifetime; RecordID stays empty until the remote store has it.
type Row struct {
	ID       string
	RecordID string

	SDR                string
	Pais               string
	SheetName          string
	SpreadsheetID      string
	HoraProgramada     string
	UltimaHumanizacion string
	UltimoEnvioReply   string
	MargenMin          string
	Activo             bool
	Comentario         string
	StatusSinHumanizar string
	StatusHumanizado   string
	UploadCatchAll     bool
	Sheet              string
	APIKey             string

	// Extra carries remote fields outside the catalog (e.g. client).
	Extra map[string]string
}

// Get returns the string form of a field. Unknown keys fall back to Extra.
func (r Row) Get(key string) string {
	switch key {
	case KeySDR:
		return r.SDR
	case KeyPais:
		return r.Pais
	case KeySheetName:
		return r.SheetName
	case KeySpreadsheetID:
		return r.SpreadsheetID
	case KeyHoraProgramada:
		return r.HoraProgramada
	case KeyUltimaHumanizacion:
		return r.UltimaHumanizacion
	case KeyUltimoEnvioReply:
		return r.UltimoEnvioReply
	case KeyMargenMin:
		return r.MargenMin
	case KeyActivo:
		return strconv.FormatBool(r.Activo)
	case KeyComentario:
		return r.Comentario
	case KeyStatusSinHumanizar:
		return r.StatusSinHumanizar
	case KeyStatusHumanizado:
		return r.StatusHumanizado
	case KeyUploadCatchAll:
		return strconv.FormatBool(r.UploadCatchAll)
	case KeySheet:
		return r.Sheet
	case KeyAPIKey:
		return r.APIKey
	}
	return r.Extra[key]
}

// Set stores v under key. Boolean fields accept anything truthy.
func (r *Row) Set(key, v string) {
	switch key {
	case KeySDR:
		r.SDR = v
	case KeyPais:
		r.Pais = v
	case KeySheetName:
		r.SheetName = v
	case KeySpreadsheetID:
		r.SpreadsheetID = v
	case KeyHoraProgramada:
		r.HoraProgramada = v
	case KeyUltimaHumanizacion:
		r.UltimaHumanizacion = v
	case KeyUltimoEnvioReply:
		r.UltimoEnvioReply = v
	case KeyMargenMin:
		r.MargenMin = v
	case KeyActivo:
		r.Activo = truthy(v)
	case KeyComentario:
		r.Comentario = v
	case KeyStatusSinHumanizar:
		r.StatusSinHumanizar = v
	case KeyStatusHumanizado:
		r.StatusHumanizado = v
	case KeyUploadCatchAll:
		r.UploadCatchAll = truthy(v)
	case KeySheet:
		r.Sheet = v
	case KeyAPIKey:
		r.APIKey = v
	default:
		if r.Extra == nil {
			r.Extra = map[string]string{}
		}
		r.Extra[key] = v
	}
}

// Clone returns a copy that shares nothing with r.
func (r Row) Clone() Row {
	out := r
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "null":
		return false
	}
	return true
}

// IsNumeric reports whether key holds the score-like numeric field.
func IsNumeric(key string) bool { return key == KeyMargenMin }

// ParseNumber parses a finite number. Blank or non-finite input is not ok.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f without trailing zeros.
func FormatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// CoerceNumeric canonicalises a numeric field value: "" stays "", a parseable
// number is reformatted, anything else is kept verbatim.
func CoerceNumeric(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	if f, ok := ParseNumber(v); ok {
		return FormatNumber(f)
	}
	return v
}

// NewLocalID returns an id for a row that has no remote record yet.
func NewLocalID() string {
	return "local_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Fields returns every field keyed by remote name with JSON-friendly values:
// booleans stay booleans and the numeric field is a number, null when blank.
func (r Row) Fields() map[string]any {
	m := map[string]any{
		"id":                  r.RecordID,
		KeySDR:                r.SDR,
		KeyPais:               r.Pais,
		KeySheetName:          r.SheetName,
		KeySpreadsheetID:      r.SpreadsheetID,
		KeyHoraProgramada:     r.HoraProgramada,
		KeyUltimaHumanizacion: r.UltimaHumanizacion,
		KeyUltimoEnvioReply:   r.UltimoEnvioReply,
		KeyActivo:             r.Activo,
		KeyComentario:         r.Comentario,
		KeyStatusSinHumanizar: r.StatusSinHumanizar,
		KeyStatusHumanizado:   r.StatusHumanizado,
		KeyUploadCatchAll:     r.UploadCatchAll,
		KeySheet:              r.Sheet,
		KeyAPIKey:             r.APIKey,
	}
	switch f, ok := ParseNumber(r.MargenMin); {
	case ok:
		m[KeyMargenMin] = f
	case strings.TrimSpace(r.MargenMin) == "":
		m[KeyMargenMin] = nil
	default:
		m[KeyMargenMin] = r.MargenMin
	}
	for k, v := range r.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return m
}
