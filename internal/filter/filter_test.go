package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"prospectsheet/internal/model"
)

func row(id string, kv ...string) model.Row {
	r := model.Row{ID: id}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func ids(rows []model.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

var sample = []model.Row{
	row("a", "sdr", "Ana", "pais", "AR", "spreadsheet_id", "1AbC"),
	row("b", "sdr", "Bruno", "pais", "CL", "spreadsheet_id", "9xYz"),
	row("c", "sdr", "Carla", "pais", "ar", "spreadsheet_id", "77"),
}

func TestFilterEmptyIsIdentity(t *testing.T) {
	for _, q := range []string{"", "   ", "\t"} {
		got := Filter(sample, q)
		if len(got) != len(sample) || &got[0] != &sample[0] {
			t.Fatalf("query %q: expected the input slice back", q)
		}
	}
}

func TestFilterMatchesFields(t *testing.T) {
	cases := map[string][]string{
		"ar":    {"a", "c"},
		"BRUNO": {"b"},
		"xy":    {"b"},
		"zzz":   {},
	}
	for q, want := range cases {
		if diff := cmp.Diff(want, ids(Filter(sample, q))); diff != "" {
			t.Fatalf("query %q (-want +got):\n%s", q, diff)
		}
	}
}

func TestFilterSheetURLMatchesEmbeddedID(t *testing.T) {
	q := "https://docs.google.com/spreadsheets/d/9xYz/edit#gid=0"
	if diff := cmp.Diff([]string{"b"}, ids(Filter(sample, q))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if got := Needle("HTTPS://DOCS.GOOGLE.COM/spreadsheets/d/AbC?x=1"); got != "abc" {
		t.Fatalf("needle: %q", got)
	}
}

func TestEvaluatorExpression(t *testing.T) {
	rows := []model.Row{
		row("a", "pais", "AR", "activo", "true", "margen_min", "10"),
		row("b", "pais", "AR", "activo", "false", "margen_min", "30"),
		row("c", "pais", "CL", "activo", "true", "margen_min", "x"),
	}
	ev, err := NewEvaluator(Criteria{Expr: `pais == "AR" && activo`})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, ids(ev.Apply(rows))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	ev, _ = NewEvaluator(Criteria{Expr: `margen_min > 15`})
	if diff := cmp.Diff([]string{"b"}, ids(ev.Apply(rows))); diff != "" {
		t.Fatalf("numeric (-want +got):\n%s", diff)
	}
	ev, _ = NewEvaluator(Criteria{Query: "cl", Expr: `activo`})
	if diff := cmp.Diff([]string{"c"}, ids(ev.Apply(rows))); diff != "" {
		t.Fatalf("combined (-want +got):\n%s", diff)
	}
	if _, err := NewEvaluator(Criteria{Expr: `pais ==`}); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestEvaluatorWithoutCriteriaIsIdentity(t *testing.T) {
	ev, err := NewEvaluator(Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	got := ev.Apply(sample)
	if &got[0] != &sample[0] {
		t.Fatalf("expected the input slice back")
	}
	if !(Criteria{Query: " "}).Empty() {
		t.Fatalf("blank criteria should be empty")
	}
}
