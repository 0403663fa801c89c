package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// colorizeFields renders a row's field map as indented, colored JSON for the
// inspector.
func colorizeFields(fields map[string]any, st Styles) string {
	var b strings.Builder
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString(st.JSONPunct.Render("{"))
	if len(keys) > 0 {
		b.WriteString("\n")
	}
	for i, k := range keys {
		b.WriteString("  ")
		b.WriteString(st.JSONKey.Render(strconv.Quote(k)))
		b.WriteString(st.JSONPunct.Render(": "))
		b.WriteString(jsonValue(fields[k], st))
		if i < len(keys)-1 {
			b.WriteString(st.JSONPunct.Render(","))
		}
		b.WriteString("\n")
	}
	b.WriteString(st.JSONPunct.Render("}"))
	return b.String()
}

func jsonValue(v any, st Styles) string {
	switch t := v.(type) {
	case string:
		return st.JSONString.Render(strconv.Quote(t))
	case float64:
		return st.JSONNumber.Render(strconv.FormatFloat(t, 'f', -1, 64))
	case int, int64:
		return st.JSONNumber.Render(fmt.Sprint(t))
	case bool:
		return st.JSONBool.Render(strconv.FormatBool(t))
	case nil:
		return st.JSONNull.Render("null")
	default:
		return st.JSONString.Render(strconv.Quote(fmt.Sprint(t)))
	}
}
