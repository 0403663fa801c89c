package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"prospectsheet/internal/filter"
	"prospectsheet/internal/util/logx"
)

func (m *Model) openInline(mode inlineMode) {
	m.inlineMode = mode
	switch mode {
	case inlineSearch:
		m.input.Prompt = "/"
		m.input.Placeholder = "sdr, país o link de sheet"
		m.inputPrev = m.criteria.Query
	case inlineFilter:
		m.input.Prompt = "f> "
		m.input.Placeholder = `activo && pais == "AR"`
		m.inputPrev = m.criteria.Expr
	}
	m.input.SetValue(m.inputPrev)
	m.input.Focus()
	m.input.CursorEnd()
}

func (m *Model) closeInline() {
	m.inlineMode = inlineNone
	m.input.Blur()
}

// updateInline drives the search and filter bars. Search applies on every
// keystroke; filter expressions apply on enter.
func (m *Model) updateInline(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if m.inlineMode == inlineFilter {
			c := m.criteria
			c.Expr = m.input.Value()
			if err := m.applyCriteria(c); err != nil {
				m.toast("Filtro inválido: " + err.Error())
				return nil
			}
		}
		m.closeInline()
		return nil
	case tea.KeyEsc:
		c := m.criteria
		if m.inlineMode == inlineSearch {
			c.Query = m.inputPrev
		}
		_ = m.applyCriteria(c)
		m.closeInline()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inlineMode == inlineSearch {
		c := m.criteria
		c.Query = m.input.Value()
		_ = m.applyCriteria(c)
	}
	return cmd
}

// applyCriteria swaps in c when its expression compiles. On error the
// previous criteria stay active.
func (m *Model) applyCriteria(c filter.Criteria) error {
	ev, err := filter.NewEvaluator(c)
	if err != nil {
		logx.Debugf("filter %q: %v", c.Expr, err)
		return err
	}
	m.criteria = c
	m.eval = ev
	m.refreshView()
	return nil
}

func (m *Model) clearFilter() {
	_ = m.applyCriteria(filter.Criteria{})
}
