package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prospectsheet/internal/model"
)

// panel is the side form used to create and duplicate rows. While it is open
// the selection is locked and the search bar is disabled.
type panel struct {
	title  string
	inputs []textinput.Model
	focus  int
	saving bool
}

func newPanel(title string, d model.Draft) *panel {
	p := &panel{title: title, inputs: make([]textinput.Model, len(model.DraftFields))}
	for i := range model.DraftFields {
		p.inputs[i] = newInput("", 256)
		p.inputs[i].Width = panelWidth - 6
	}
	p.reset(d)
	return p
}

// reset loads d into the inputs and focuses the first field.
func (p *panel) reset(d model.Draft) {
	for i, f := range model.DraftFields {
		p.inputs[i].SetValue(d[f.Key])
		p.inputs[i].CursorEnd()
	}
	p.setFocus(0)
}

func (p *panel) setFocus(i int) {
	n := len(p.inputs)
	i = (i%n + n) % n
	for j := range p.inputs {
		p.inputs[j].Blur()
	}
	p.focus = i
	p.inputs[i].Focus()
}

func (p *panel) draft() model.Draft {
	d := model.NewDraft()
	for i, f := range model.DraftFields {
		d[f.Key] = p.inputs[i].Value()
	}
	return d
}

func (m *Model) openCreate() {
	// A new row starts from a clean selection
	m.selected = map[string]bool{}
	m.panel = newPanel("Nuevo registro", model.NewDraft())
	m.clampCursor()
}

func (m *Model) openDuplicate() {
	if m.panel != nil {
		return
	}
	if len(m.selected) != 1 {
		m.toast("Selecciona exactamente una fila para duplicar")
		return
	}
	var id string
	for k := range m.selected {
		id = k
	}
	r, ok := m.store.Row(id)
	if !ok {
		return
	}
	m.panel = newPanel("Duplicar registro", model.DraftFromRow(r))
	m.clampCursor()
}

func (m *Model) closePanel() {
	m.panel = nil
	m.clampCursor()
}

func (m *Model) updatePanel(msg tea.KeyMsg) tea.Cmd {
	p := m.panel
	switch {
	case msg.Type == tea.KeyEsc:
		m.closePanel()
		return nil
	case keyMatches(msg, m.keymap.Save), keyMatches(msg, m.keymap.SaveAnother):
		if p.saving {
			return nil
		}
		p.saving = true
		return m.create(p.draft(), keyMatches(msg, m.keymap.SaveAnother))
	case msg.Type == tea.KeyTab || msg.Type == tea.KeyDown:
		p.setFocus(p.focus + 1)
		return nil
	case msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp:
		p.setFocus(p.focus - 1)
		return nil
	case msg.Type == tea.KeyEnter:
		if p.focus == len(p.inputs)-1 {
			if p.saving {
				return nil
			}
			p.saving = true
			return m.create(p.draft(), false)
		}
		p.setFocus(p.focus + 1)
		return nil
	}
	if p.saving {
		return nil
	}
	p.inputs[p.focus], _ = p.inputs[p.focus].Update(msg)
	return nil
}

func (m *Model) renderPanel(height int) string {
	p := m.panel
	lines := []string{m.styles.PopupTitle.Render(p.title), ""}
	for i, f := range model.DraftFields {
		label := f.Label
		if i == p.focus {
			label = "> " + label
		} else {
			label = "  " + label
		}
		lines = append(lines, m.styles.PanelLabel.Render(label), "  "+p.inputs[i].View())
	}
	lines = append(lines, "")
	if p.saving {
		lines = append(lines, m.styles.Help.Render("Guardando…"))
	} else {
		lines = append(lines, m.styles.Help.Render("[ctrl+s]=guardar [ctrl+n]=guardar y otro"), m.styles.Help.Render("[tab]=campo [esc]=cancelar"))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return m.styles.Panel.Width(panelWidth - 1).Render(strings.Join(lines, "\n"))
}
