package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"prospectsheet/internal/audit"
	"prospectsheet/internal/model"
	"prospectsheet/internal/util/logx"
)

const toastTTL = 2 * time.Second

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navegación", text: "Fila anterior", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navegación", text: "Fila siguiente", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navegación", text: "Columna anterior", key: tea.Key{Type: tea.KeyLeft}},
		{group: "Navegación", text: "Columna siguiente", key: tea.Key{Type: tea.KeyRight}},
		{group: "Navegación", text: "Página arriba", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navegación", text: "Página abajo", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navegación", text: "Ir al inicio", key: km.Top},
		{group: "Navegación", text: "Ir al final", key: km.Bottom},

		{group: "Edición", text: "Editar celda / copiar link", key: km.Edit},
		{group: "Edición", text: "Copiar celda", key: km.Copy},
		{group: "Edición", text: "Inspeccionar fila", key: km.Inspect},

		{group: "Selección", text: "Marcar fila", key: km.Select},
		{group: "Selección", text: "Marcar todas", key: km.SelectAll},

		{group: "Vista", text: "Ordenar por columna", key: km.Sort},
		{group: "Vista", text: "Buscar", key: km.Search},
		{group: "Vista", text: "Filtro por expresión", key: km.Filter},
		{group: "Vista", text: "Quitar filtros", key: km.ClearFilter},

		{group: "Registros", text: "Nuevo registro", key: km.New},
		{group: "Registros", text: "Duplicar seleccionada", key: km.Duplicate},
		{group: "Registros", text: "Quitar seleccionadas (local)", key: km.Remove},
		{group: "Registros", text: "Inicio manual", key: km.Start},
		{group: "Registros", text: "Recargar", key: km.Reload},

		{group: "Control", text: "Exportar CSV", key: km.Export},
		{group: "Control", text: "Exportar XLSX", key: km.ExportXLSX},
		{group: "Control", text: "Logs de la aplicación", key: km.AppLogs},
		{group: "Control", text: "Ayuda", key: km.Help},
		{group: "Control", text: "Salir", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.clampCursor()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tickMsg:
		m.frame++
		m.pruneToasts()
		return m, tick()
	case loadedMsg:
		m.onLoaded(msg)
		return m, nil
	case commitDoneMsg:
		m.onCommitDone(msg)
		return m, nil
	case createdMsg:
		m.onCreated(msg)
		return m, nil
	case dispatchResultMsg:
		m.onDispatchResult(msg.r)
		return m, waitDispatch(m.dispatchCh)
	case dispatchDoneMsg:
		m.onDispatchDone()
		return m, nil
	case exportedMsg:
		m.onExported(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	switch {
	case m.modalActive:
		return m.updateModal(msg)
	case m.panel != nil:
		return m.updatePanel(msg)
	case m.editing != nil:
		return m.updateEditing(msg)
	case m.inlineMode != inlineNone:
		return m.updateInline(msg)
	}
	return m.updateGrid(msg)
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	if m.modalKind == modalHelp {
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc, keyMatches(msg, m.keymap.Quit), keyMatches(msg, m.keymap.Help):
			m.modalActive = false
		}
		return nil
	}
	switch {
	case msg.Type == tea.KeyEsc, msg.Type == tea.KeyEnter, keyMatches(msg, m.keymap.Quit):
		m.modalActive = false
		return nil
	case keyMatches(msg, m.keymap.Copy):
		m.copyText(stripANSI(m.modalBody), "Copiado")
		return nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

func (m *Model) beginEdit() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	c := m.currentColumn()
	v := r.Get(c.Key)
	m.editing = &editState{rowID: r.ID, key: c.Key, focusVal: v}
	m.editor.SetValue(v)
	m.editor.Focus()
	m.editor.CursorEnd()
}

// finishEdit leaves the cell. The write goes out only when the value moved
// since focus; the store still drops it if it matches the saved value.
func (m *Model) finishEdit() tea.Cmd {
	e := m.editing
	m.editing = nil
	m.editor.Blur()
	val := m.editor.Value()
	if val == e.focusVal {
		return nil
	}
	return m.commit(e.rowID, e.key, val)
}

func (m *Model) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		return m.finishEdit()
	case tea.KeyTab:
		cmd := m.finishEdit()
		m.moveCol(1)
		return cmd
	case tea.KeyShiftTab:
		cmd := m.finishEdit()
		m.moveCol(-1)
		return cmd
	}
	m.editor, _ = m.editor.Update(msg)
	if m.store.SetField(m.editing.rowID, m.editing.key, m.editor.Value()) {
		m.refreshView()
	}
	return nil
}

func (m *Model) updateGrid(msg tea.KeyMsg) tea.Cmd {
	km := m.keymap
	switch {
	case msg.Type == tea.KeyUp:
		m.moveRow(-1)
	case msg.Type == tea.KeyDown:
		m.moveRow(1)
	case msg.Type == tea.KeyLeft, msg.Type == tea.KeyShiftTab:
		m.moveCol(-1)
	case msg.Type == tea.KeyRight, msg.Type == tea.KeyTab:
		m.moveCol(1)
	case msg.Type == tea.KeyPgUp:
		m.moveRow(-m.bodyHeight())
	case msg.Type == tea.KeyPgDown:
		m.moveRow(m.bodyHeight())
	case keyMatches(msg, km.Top):
		m.rowIdx = 0
		m.clampCursor()
	case keyMatches(msg, km.Bottom):
		m.rowIdx = len(m.view) - 1
		m.clampCursor()
	case keyMatches(msg, km.Edit):
		return m.activateCell()
	case keyMatches(msg, km.Select):
		m.toggleSelected()
	case keyMatches(msg, km.SelectAll):
		m.toggleAll()
	case keyMatches(msg, km.Sort):
		m.sort = m.sort.Toggle(m.currentColumn().Key)
		m.refreshView()
	case keyMatches(msg, km.Search):
		m.openInline(inlineSearch)
	case keyMatches(msg, km.Filter):
		m.openInline(inlineFilter)
	case keyMatches(msg, km.ClearFilter):
		m.clearFilter()
	case keyMatches(msg, km.New):
		m.openCreate()
	case keyMatches(msg, km.Duplicate):
		m.openDuplicate()
	case keyMatches(msg, km.Remove):
		m.removeSelected()
	case keyMatches(msg, km.Start):
		return m.startDispatch()
	case keyMatches(msg, km.Export):
		return m.exportCmd(false)
	case keyMatches(msg, km.ExportXLSX):
		return m.exportCmd(true)
	case keyMatches(msg, km.Reload):
		if m.store.Loading() {
			return nil
		}
		return m.load()
	case keyMatches(msg, km.Copy):
		m.copyCell()
	case keyMatches(msg, km.Inspect):
		m.openInspectorModal()
	case keyMatches(msg, km.AppLogs):
		m.openAppLogsModal()
	case keyMatches(msg, km.Help):
		m.openHelpModal()
	case keyMatches(msg, km.Quit):
		return tea.Quit
	}
	return nil
}

// activateCell edits text cells. Link and secret cells are read-only, so
// enter copies them instead.
func (m *Model) activateCell() tea.Cmd {
	if _, ok := m.currentRow(); !ok {
		return nil
	}
	if m.currentColumn().Editable() {
		m.beginEdit()
		return nil
	}
	m.copyCell()
	return nil
}

func (m *Model) copyCell() {
	r, ok := m.currentRow()
	if !ok {
		return
	}
	c := m.currentColumn()
	v := r.Get(c.Key)
	if v == "" {
		return
	}
	msg := "Copiado"
	if c.Kind == model.KindSecret {
		msg = "API Key copiada"
	}
	m.copyText(v, msg)
}

func (m *Model) copyText(s, okMsg string) {
	if err := m.opt.Copy(s); err != nil {
		logx.Warnf("copy: %v", err)
		m.toast("No se pudo copiar: " + err.Error())
		return
	}
	m.toast(okMsg)
}

func (m *Model) toggleSelected() {
	if m.panel != nil {
		return
	}
	r, ok := m.currentRow()
	if !ok {
		return
	}
	if m.selected[r.ID] {
		delete(m.selected, r.ID)
	} else {
		m.selected[r.ID] = true
	}
}

// toggleAll works over every loaded row, including filtered-out ones.
func (m *Model) toggleAll() {
	if m.panel != nil {
		return
	}
	if m.allSelected() {
		m.selected = map[string]bool{}
		return
	}
	for _, r := range m.store.Rows() {
		m.selected[r.ID] = true
	}
}

func (m *Model) removeSelected() {
	if len(m.selected) == 0 {
		return
	}
	var gone []model.Row
	for _, r := range m.store.Rows() {
		if m.selected[r.ID] {
			gone = append(gone, r)
		}
	}
	n := m.store.Remove(m.selected)
	for _, r := range gone {
		m.journal(audit.Entry{Kind: audit.KindRemove, RowID: r.ID, RecordID: r.RecordID, SpreadsheetID: r.SpreadsheetID})
	}
	m.selected = map[string]bool{}
	m.refreshView()
	m.toast(fmt.Sprintf("Eliminadas %d filas (solo local)", n))
}

func (m *Model) toast(msg string) {
	m.toastSeq++
	m.toasts = append(m.toasts, toast{id: m.toastSeq, msg: msg, until: m.opt.Now().Add(toastTTL)})
}

func (m *Model) pruneToasts() {
	now := m.opt.Now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.until) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}
