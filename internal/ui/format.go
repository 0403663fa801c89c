package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"prospectsheet/internal/filter"
	"prospectsheet/internal/model"
	"prospectsheet/internal/util"
)

var pendingFrames = spinner.Dot.Frames

// cellText is what a cell shows when it is not being edited.
func cellText(r model.Row, c model.Column) string {
	v := r.Get(c.Key)
	switch c.Kind {
	case model.KindTimestamp:
		return model.DisplayStamp(v)
	case model.KindLink:
		if strings.TrimSpace(v) == "" {
			return ""
		}
		return "Link"
	case model.KindSecret:
		if v == "" {
			return ""
		}
		return util.RedactToken(v)
	}
	return strings.ReplaceAll(v, "\n", " ")
}

func (m *Model) cellStyle(r model.Row, c model.Column) lipgloss.Style {
	g := m.styles.Grid
	switch c.Kind {
	case model.KindTimestamp:
		switch model.HighlightFor(r.Get(c.Key), m.opt.Now()) {
		case model.HighlightToday:
			return g.Today
		case model.HighlightYesterday:
			return g.Yesterday
		}
	case model.KindLink:
		return g.Link
	case model.KindSecret:
		return g.Secret
	}
	return g.Cell
}

func (m *Model) renderCell(r model.Row, ci int, w int, cursor bool) string {
	c := model.Columns[ci]
	if m.editing != nil && m.editing.rowID == r.ID && m.editing.key == c.Key {
		m.editor.Width = w - 2
		return padRight(m.editor.View(), w)
	}
	text := cellText(r, c)
	if m.store.IsPending(r.ID, c.Key) {
		frame := pendingFrames[m.frame%len(pendingFrames)]
		text = truncateRunes(text, w-3) + " " + m.styles.Grid.Pending.Render(frame)
		return padRight(text, w)
	}
	text = padRight(truncateRunes(text, w-1), w)
	if cursor {
		return m.styles.Grid.Cursor.Render(text)
	}
	return m.cellStyle(r, c).Render(text)
}

func (m *Model) renderHeader(cols []int) string {
	var b strings.Builder
	box := "[ ]"
	if m.allSelected() {
		box = "[x]"
	}
	b.WriteString(padRight(box, checkWidth))
	for _, ci := range cols {
		c := model.Columns[ci]
		label := c.Label
		if m.sort.Active() && m.sort.Key == c.Key {
			if m.sort.Dir == filter.DirAsc {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		b.WriteString(padRight(truncateRunes(label, columnWidth(c)-1), columnWidth(c)))
	}
	return m.styles.Grid.Header.Render(b.String())
}

func (m *Model) renderRow(i int, cols []int) string {
	r := m.view[i]
	var b strings.Builder
	box := "[ ]"
	if m.selected[r.ID] {
		box = m.styles.Grid.Selected.Render("[x]")
	}
	b.WriteString(box + " ")
	for _, ci := range cols {
		b.WriteString(m.renderCell(r, ci, columnWidth(model.Columns[ci]), i == m.rowIdx && ci == m.colIdx))
	}
	return b.String()
}

func (m *Model) renderSkeletonRow(cols []int) string {
	var b strings.Builder
	b.WriteString(m.styles.Grid.Skeleton.Render(padRight("░", checkWidth)))
	for _, ci := range cols {
		w := columnWidth(model.Columns[ci])
		b.WriteString(m.styles.Grid.Skeleton.Render(padRight(strings.Repeat("░", w-3), w)))
	}
	return b.String()
}
