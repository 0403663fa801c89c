package model

// Kind decides how a column renders and whether it is editable in place.
type Kind int

const (
	KindText Kind = iota
	KindTimestamp
	KindLink
	KindSecret
)

type Column struct {
	Key   string
	Label string
	Kind  Kind
}

// Editable reports whether the cell takes inline edits.
func (c Column) Editable() bool { return c.Kind == KindText }

// Columns are the tracked columns in display order. The snapshot holds one
// entry per row per column.
var Columns = []Column{
	{Key: KeySDR, Label: "SDR", Kind: KindText},
	{Key: KeyPais, Label: "País", Kind: KindText},
	{Key: KeyHoraProgramada, Label: "Hora programada", Kind: KindText},
	{Key: KeyUltimaHumanizacion, Label: "Última humanización", Kind: KindTimestamp},
	{Key: KeyUltimoEnvioReply, Label: "Último envío", Kind: KindTimestamp},
	{Key: KeySheet, Label: "Sheet URL", Kind: KindLink},
	{Key: KeyStatusSinHumanizar, Label: "Status sin humanizar", Kind: KindText},
	{Key: KeyStatusHumanizado, Label: "Status humanizado", Kind: KindText},
	{Key: KeyAPIKey, Label: "API Key", Kind: KindSecret},
}

// ColumnByKey looks up a tracked column.
func ColumnByKey(key string) (Column, bool) {
	for _, c := range Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// IsTimestamp reports whether key holds one of the two timestamp fields.
func IsTimestamp(key string) bool {
	return key == KeyUltimaHumanizacion || key == KeyUltimoEnvioReply
}

// Labels returns the display labels in column order.
func Labels() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Label
	}
	return out
}
