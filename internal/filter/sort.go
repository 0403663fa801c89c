package filter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"prospectsheet/internal/model"
)

type Direction int

const (
	DirNone Direction = iota
	DirAsc
	DirDesc
)

func (d Direction) String() string {
	switch d {
	case DirAsc:
		return "asc"
	case DirDesc:
		return "desc"
	}
	return "none"
}

// Directive is the active sort: a field key and a direction.
type Directive struct {
	Key string
	Dir Direction
}

// Active reports whether the directive reorders rows.
func (d Directive) Active() bool { return d.Key != "" && d.Dir != DirNone }

// Toggle cycles key through asc, desc and back to insertion order. A key
// other than the current one starts at asc.
func (d Directive) Toggle(key string) Directive {
	if d.Key != key {
		return Directive{Key: key, Dir: DirAsc}
	}
	switch d.Dir {
	case DirAsc:
		return Directive{Key: key, Dir: DirDesc}
	case DirDesc:
		return Directive{}
	}
	return Directive{Key: key, Dir: DirAsc}
}

// ParseDirective reads "key" or "key:asc|desc".
func ParseDirective(s string) (Directive, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Directive{}, nil
	}
	key, dir, _ := strings.Cut(s, ":")
	d := Directive{Key: strings.TrimSpace(key), Dir: DirAsc}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		d.Dir = DirDesc
	case "none":
		d.Dir = DirNone
	default:
		return Directive{}, fmt.Errorf("unknown sort direction %q", dir)
	}
	return d, nil
}

// Sort returns a stably ordered copy of rows. An inactive directive returns
// rows itself.
func Sort(rows []model.Row, d Directive) []model.Row {
	if !d.Active() {
		return rows
	}
	out := make([]model.Row, len(rows))
	copy(out, rows)
	sign := 1
	if d.Dir == DirDesc {
		sign = -1
	}
	var cmp func(a, b model.Row) int
	switch {
	case model.IsNumeric(d.Key):
		cmp = func(a, b model.Row) int {
			return sign * compareFloat(number(a.Get(d.Key)), number(b.Get(d.Key)))
		}
	case model.IsTimestamp(d.Key):
		col := collate.New(language.Spanish)
		cmp = func(a, b model.Row) int {
			sa := strings.TrimSpace(a.Get(d.Key))
			sb := strings.TrimSpace(b.Get(d.Key))
			switch {
			case sa == "" && sb == "":
				return 0
			case sa == "":
				return 1
			case sb == "":
				return -1
			}
			return sign * col.CompareString(model.SortKey(sa), model.SortKey(sb))
		}
	default:
		col := collate.New(language.Spanish)
		cmp = func(a, b model.Row) int {
			return sign * col.CompareString(a.Get(d.Key), b.Get(d.Key))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	return out
}

func number(s string) float64 {
	if f, ok := model.ParseNumber(s); ok {
		return f
	}
	return math.Inf(-1)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
