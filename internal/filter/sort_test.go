package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"prospectsheet/internal/model"
)

func TestSortNoneReturnsInput(t *testing.T) {
	got := Sort(sample, Directive{Key: "sdr", Dir: DirNone})
	if &got[0] != &sample[0] {
		t.Fatalf("expected input order untouched")
	}
	got = Sort(sample, Directive{})
	if &got[0] != &sample[0] {
		t.Fatalf("expected input order untouched")
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := []model.Row{row("1", "sdr", "Zoe"), row("2", "sdr", "Ana")}
	out := Sort(in, Directive{Key: "sdr", Dir: DirAsc})
	if diff := cmp.Diff([]string{"2", "1"}, ids(out)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2"}, ids(in)); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestSortIsStable(t *testing.T) {
	in := []model.Row{
		row("1", "pais", "CL"),
		row("2", "pais", "AR"),
		row("3", "pais", "CL"),
		row("4", "pais", "AR"),
	}
	if diff := cmp.Diff([]string{"2", "4", "1", "3"}, ids(Sort(in, Directive{Key: "pais", Dir: DirAsc}))); diff != "" {
		t.Fatalf("asc (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "3", "2", "4"}, ids(Sort(in, Directive{Key: "pais", Dir: DirDesc}))); diff != "" {
		t.Fatalf("desc (-want +got):\n%s", diff)
	}
}

func TestSortTextIsCaseInsensitiveCollation(t *testing.T) {
	in := []model.Row{row("1", "sdr", "beto"), row("2", "sdr", "Álvaro"), row("3", "sdr", "Carla")}
	if diff := cmp.Diff([]string{"2", "1", "3"}, ids(Sort(in, Directive{Key: "sdr", Dir: DirAsc}))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSortTimestampBlanksLast(t *testing.T) {
	in := []model.Row{
		row("blank1", "ultima_humanizacion", ""),
		row("dashed", "ultima_humanizacion", "2025-03-02 10:00"),
		row("compact", "ultima_humanizacion", "202503011200"),
		row("blank2", "ultima_humanizacion", "   "),
		row("tz", "ultima_humanizacion", "2025-03-03 08:30:00+00:00"),
	}
	asc := ids(Sort(in, Directive{Key: "ultima_humanizacion", Dir: DirAsc}))
	if diff := cmp.Diff([]string{"compact", "dashed", "tz", "blank1", "blank2"}, asc); diff != "" {
		t.Fatalf("asc (-want +got):\n%s", diff)
	}
	desc := ids(Sort(in, Directive{Key: "ultima_humanizacion", Dir: DirDesc}))
	if diff := cmp.Diff([]string{"tz", "dashed", "compact", "blank1", "blank2"}, desc); diff != "" {
		t.Fatalf("desc (-want +got):\n%s", diff)
	}
}

func TestSortNumericUnparseableIsLowest(t *testing.T) {
	in := []model.Row{
		row("5", "margen_min", "5"),
		row("x", "margen_min", "abc"),
		row("neg", "margen_min", "-3"),
		row("blank", "margen_min", ""),
		row("10", "margen_min", "10"),
	}
	asc := ids(Sort(in, Directive{Key: "margen_min", Dir: DirAsc}))
	if diff := cmp.Diff([]string{"x", "blank", "neg", "5", "10"}, asc); diff != "" {
		t.Fatalf("asc (-want +got):\n%s", diff)
	}
	desc := ids(Sort(in, Directive{Key: "margen_min", Dir: DirDesc}))
	if diff := cmp.Diff([]string{"10", "5", "neg", "x", "blank"}, desc); diff != "" {
		t.Fatalf("desc (-want +got):\n%s", diff)
	}
}

func TestDirectiveToggle(t *testing.T) {
	d := Directive{}
	d = d.Toggle("sdr")
	if d != (Directive{Key: "sdr", Dir: DirAsc}) {
		t.Fatalf("first toggle: %+v", d)
	}
	d = d.Toggle("sdr")
	if d.Dir != DirDesc {
		t.Fatalf("second toggle: %+v", d)
	}
	d = d.Toggle("sdr")
	if d.Active() {
		t.Fatalf("third toggle should clear: %+v", d)
	}
	d = Directive{Key: "sdr", Dir: DirDesc}.Toggle("pais")
	if d != (Directive{Key: "pais", Dir: DirAsc}) {
		t.Fatalf("switching key: %+v", d)
	}
}

func TestParseDirective(t *testing.T) {
	d, err := ParseDirective("margen_min:desc")
	if err != nil || d != (Directive{Key: "margen_min", Dir: DirDesc}) {
		t.Fatalf("got %+v %v", d, err)
	}
	d, _ = ParseDirective("sdr")
	if d.Dir != DirAsc {
		t.Fatalf("default dir: %v", d.Dir)
	}
	if _, err := ParseDirective("sdr:up"); err == nil {
		t.Fatalf("expected error")
	}
}
