package ui

import (
	"prospectsheet/internal/filter"
	"prospectsheet/internal/model"
)

const (
	checkWidth   = 4
	skeletonRows = 8
	panelWidth   = 44
)

// refreshView re-derives the filtered and sorted view, keeping the cursor on
// the same row when it is still visible.
func (m *Model) refreshView() {
	cur := m.currentRowID()
	m.view = filter.Sort(m.eval.Apply(m.store.Rows()), m.sort)
	if cur != "" {
		for i, r := range m.view {
			if r.ID == cur {
				m.rowIdx = i
				break
			}
		}
	}
	m.clampCursor()
}

func (m *Model) currentRow() (model.Row, bool) {
	if m.rowIdx < 0 || m.rowIdx >= len(m.view) {
		return model.Row{}, false
	}
	return m.view[m.rowIdx], true
}

func (m *Model) currentRowID() string {
	if r, ok := m.currentRow(); ok {
		return r.ID
	}
	return ""
}

func (m *Model) currentColumn() model.Column {
	return model.Columns[m.colIdx]
}

func (m *Model) clampCursor() {
	if m.rowIdx >= len(m.view) {
		m.rowIdx = len(m.view) - 1
	}
	if m.rowIdx < 0 {
		m.rowIdx = 0
	}
	if m.colIdx >= len(model.Columns) {
		m.colIdx = len(model.Columns) - 1
	}
	if m.colIdx < 0 {
		m.colIdx = 0
	}
	m.ensureVisible()
}

func (m *Model) moveRow(delta int) {
	m.rowIdx += delta
	m.clampCursor()
}

func (m *Model) moveCol(delta int) {
	m.colIdx += delta
	m.clampCursor()
}

// bodyHeight is the number of grid rows that fit: title, header and status
// lines are reserved.
func (m *Model) bodyHeight() int {
	h := m.termHeight - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) gridWidth() int {
	w := m.termWidth
	if m.panel != nil {
		w -= panelWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if m.rowIdx < m.rowOffset {
		m.rowOffset = m.rowIdx
	}
	if m.rowIdx >= m.rowOffset+h {
		m.rowOffset = m.rowIdx - h + 1
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}
	if m.colIdx < m.colOffset {
		m.colOffset = m.colIdx
	}
	for m.colOffset < m.colIdx && m.colIdx >= m.colOffset+len(m.visibleColumns()) {
		m.colOffset++
	}
}

// visibleColumns returns the indexes of the columns that fit from colOffset.
// At least one column is always shown.
func (m *Model) visibleColumns() []int {
	avail := m.gridWidth() - checkWidth
	var out []int
	for i := m.colOffset; i < len(model.Columns); i++ {
		w := columnWidth(model.Columns[i])
		if len(out) > 0 && w > avail {
			break
		}
		out = append(out, i)
		avail -= w
	}
	return out
}

func columnWidth(c model.Column) int {
	min := 14
	switch c.Kind {
	case model.KindTimestamp:
		min = 16
	case model.KindLink:
		min = 10
	case model.KindSecret:
		min = 12
	}
	if w := runeLen(c.Label) + 4; w > min {
		return w
	}
	return min
}

func (m *Model) allSelected() bool {
	rows := m.store.Rows()
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !m.selected[r.ID] {
			return false
		}
	}
	return true
}
