package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"prospectsheet/internal/util/logx"
	"prospectsheet/internal/version"
)

func (m *Model) View() string {
	grid := m.renderGrid()
	if m.panel != nil {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, m.renderPanel(m.termHeight))
	}
	v := grid
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	if len(m.toasts) > 0 {
		v = overlay(v, m.renderToasts())
	}
	return v
}

func (m *Model) renderGrid() string {
	w := m.gridWidth()
	cols := m.visibleColumns()
	lines := make([]string, 0, m.termHeight)
	lines = append(lines, m.renderTopLine(w))
	lines = append(lines, m.renderHeader(cols))
	h := m.bodyHeight()
	switch {
	case m.store.Loading() && m.store.Len() == 0:
		for i := 0; i < skeletonRows && i < h; i++ {
			lines = append(lines, m.renderSkeletonRow(cols))
		}
	case len(m.view) == 0:
		lines = append(lines, m.styles.Help.Render("  Sin resultados"))
	default:
		end := m.rowOffset + h
		if end > len(m.view) {
			end = len(m.view)
		}
		for i := m.rowOffset; i < end; i++ {
			lines = append(lines, m.renderRow(i, cols))
		}
	}
	for len(lines) < m.termHeight-1 {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderStatus(w))
	for i, l := range lines {
		lines[i] = padRight(l, w)
	}
	return strings.Join(lines, "\n")
}

// renderTopLine shows the title, or the search/filter input while one is open.
func (m *Model) renderTopLine(w int) string {
	if m.inlineMode != inlineNone {
		m.input.Width = w - runeLen(m.input.Prompt) - 2
		return m.input.View()
	}
	title := m.styles.Title.Render("Prospección")
	if m.store.Loading() {
		title += " " + m.styles.Grid.Pending.Render(pendingFrames[m.frame%len(pendingFrames)]+" cargando")
	}
	return title
}

func (m *Model) renderStatus(w int) string {
	parts := []string{fmt.Sprintf("filas: %d/%d", len(m.view), m.store.Len())}
	if n := len(m.selected); n > 0 {
		parts = append(parts, fmt.Sprintf("seleccionadas: %d", n))
	}
	if m.sort.Active() {
		parts = append(parts, fmt.Sprintf("orden: %s %s", m.sort.Key, m.sort.Dir))
	}
	if q := strings.TrimSpace(m.criteria.Query); q != "" {
		parts = append(parts, "búsqueda: "+q)
	}
	if e := strings.TrimSpace(m.criteria.Expr); e != "" {
		parts = append(parts, "filtro: "+e)
	}
	if n := m.store.PendingCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("guardando: %d", n))
	}
	if m.dispatching {
		parts = append(parts, fmt.Sprintf("inicio manual: %d/%d", m.dispatchDone, m.dispatchTotal))
	}
	hint := "[?]=ayuda"
	left := truncateRunes(strings.Join(parts, "  "), w-runeLen(hint)-1)
	gap := w - runeLen(left) - runeLen(hint)
	if gap < 1 {
		gap = 1
	}
	return m.styles.Status.Render(left + strings.Repeat(" ", gap) + hint)
}

func (m *Model) renderToasts() string {
	var boxes []string
	for _, t := range m.toasts {
		boxes = append(boxes, m.styles.Toast.Render(t.msg))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	return lipgloss.Place(m.termWidth, m.termHeight-1, lipgloss.Right, lipgloss.Bottom, stack)
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	lines := []string{"Atajos:"}
	group := ""
	selLine := 0
	for i, it := range m.helpItems {
		if it.group != group {
			group = it.group
			lines = append(lines, "", group+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			selLine = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Keep the selection inside the viewport
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		switch {
		case selLine <= top:
			m.modalVP.YOffset = max(selLine-1, 0)
		case selLine >= bottom:
			m.modalVP.YOffset = max(selLine-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Ayuda"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	m.modalActive = true
	m.modalKind = modalInspector
	m.modalTitle = "Registro " + r.RecordID
	if r.RecordID == "" {
		m.modalTitle = "Registro (local)"
	}
	m.modalBody = colorizeFields(r.Fields(), m.styles)
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Logs de la aplicación"
	m.modalBody = logx.Dump()
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	var content string
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=cerrar  [enter]=ejecutar"
	case modalLogs:
		header := []string{
			"Estado:",
			fmt.Sprintf("versión: %s", version.String()),
			fmt.Sprintf("filas: %d  pendientes: %d  snapshot: %d", m.store.Len(), m.store.PendingCount(), m.store.SnapshotLen()),
		}
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=cerrar  [c]=copiar"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=cerrar  [c]=copiar"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}
