package filter

import (
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"prospectsheet/internal/model"
)

var reSheetURL = regexp.MustCompile(`(?i)https?://docs\.google\.com/spreadsheets/d/([^/?#]+)`)

// Criteria narrows the row view.
type Criteria struct {
	Query string // substring over sdr, pais and spreadsheet_id; a Sheets URL matches on its id
	Expr  string // govaluate expression over row fields
}

// Empty reports whether the criteria select every row.
func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Query) == "" && strings.TrimSpace(c.Expr) == ""
}

// Filter keeps the rows whose sdr, pais or spreadsheet_id contains query,
// case-insensitively. A blank query returns rows itself.
func Filter(rows []model.Row, query string) []model.Row {
	needle := Needle(query)
	if needle == "" {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if matchQuery(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

// Needle is the lower-cased search term of query. A Google Sheets URL is
// reduced to the spreadsheet id it embeds.
func Needle(query string) string {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return ""
	}
	if m := reSheetURL.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	return strings.ToLower(raw)
}

func matchQuery(r model.Row, needle string) bool {
	return strings.Contains(strings.ToLower(r.SDR), needle) ||
		strings.Contains(strings.ToLower(r.Pais), needle) ||
		strings.Contains(strings.ToLower(r.SpreadsheetID), needle)
}

type Evaluator struct {
	needle string
	expr   *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	e := &Evaluator{needle: Needle(c.Query)}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err := govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
		e.expr = expr
	}
	return e, nil
}

// Match applies the query then the expression. An expression that fails to
// evaluate or yields a non-bool rejects the row.
func (e *Evaluator) Match(r model.Row) bool {
	if e.needle != "" && !matchQuery(r, e.needle) {
		return false
	}
	if e.expr == nil {
		return true
	}
	result, err := e.expr.Evaluate(Params(r))
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

// Apply returns the matching rows. With nothing to match it returns rows itself.
func (e *Evaluator) Apply(rows []model.Row) []model.Row {
	if e.needle == "" && e.expr == nil {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if e.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Params exposes a row to expressions: booleans stay booleans, the numeric
// field is a number when it parses, everything else is a string.
func Params(r model.Row) map[string]any {
	params := map[string]any{
		"id":                    r.RecordID,
		model.KeyActivo:         r.Activo,
		model.KeyUploadCatchAll: r.UploadCatchAll,
	}
	for _, k := range []string{
		model.KeySDR, model.KeyPais, model.KeySheetName, model.KeySpreadsheetID,
		model.KeyHoraProgramada, model.KeyUltimaHumanizacion, model.KeyUltimoEnvioReply,
		model.KeyComentario, model.KeyStatusSinHumanizar, model.KeyStatusHumanizado,
		model.KeySheet, model.KeyAPIKey,
	} {
		params[k] = r.Get(k)
	}
	if f, ok := model.ParseNumber(r.MargenMin); ok {
		params[model.KeyMargenMin] = f
	} else {
		params[model.KeyMargenMin] = r.MargenMin
	}
	for k, v := range r.Extra {
		if _, taken := params[k]; !taken {
			params[k] = v
		}
	}
	return params
}
