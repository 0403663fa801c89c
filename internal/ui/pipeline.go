package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"prospectsheet/internal/audit"
	"prospectsheet/internal/dispatch"
	"prospectsheet/internal/export"
	"prospectsheet/internal/model"
	"prospectsheet/internal/util/logx"
)

// load starts a fetch. The store shows skeleton rows until loadedMsg lands.
func (m *Model) load() tea.Cmd {
	m.store.BeginLoad()
	ctx, remote := m.ctx, m.opt.Remote
	return func() tea.Msg {
		recs, err := remote.List(ctx)
		return loadedMsg{records: recs, err: err}
	}
}

func (m *Model) onLoaded(msg loadedMsg) {
	if msg.err != nil {
		m.store.AbortLoad()
		logx.Errorf("load: %v", msg.err)
		m.toast("Error al cargar: " + msg.err.Error())
		m.refreshView()
		return
	}
	rows := make([]model.Row, 0, len(msg.records))
	for _, rec := range msg.records {
		rows = append(rows, model.MapRemoteToRow(rec))
	}
	m.store.Load(rows)
	for id := range m.selected {
		if _, ok := m.store.Row(id); !ok {
			delete(m.selected, id)
		}
	}
	logx.Infof("loaded %d rows (snapshot %d entries)", len(rows), m.store.SnapshotLen())
	m.refreshView()
}

// commit writes a left cell when its value differs from the last persisted one.
func (m *Model) commit(rowID, key, value string) tea.Cmd {
	c, need := m.store.BeginCommit(rowID, key, value)
	if !need {
		logx.Debugf("commit %s/%s: unchanged", rowID, key)
		return nil
	}
	ctx, remote := m.ctx, m.opt.Remote
	return func() tea.Msg {
		_, err := remote.Update(ctx, c.RecordID, c.Payload)
		return commitDoneMsg{c: c, err: err}
	}
}

func (m *Model) onCommitDone(msg commitDoneMsg) {
	res := m.store.FinishCommit(msg.c, msg.err)
	if res.Superseded {
		logx.Debugf("commit %s/%s: superseded by a later write", res.RowID, res.Key)
	}
	e := audit.Entry{
		Kind:     audit.KindCommit,
		RowID:    res.RowID,
		RecordID: msg.c.RecordID,
		Key:      res.Key,
		Value:    model.AnyToString(msg.c.Payload[res.Key]),
	}
	if msg.err != nil {
		e.Error = msg.err.Error()
		logx.Warnf("commit %s/%s: %v", res.RowID, res.Key, msg.err)
		m.toast(fmt.Sprintf("Error (%s): %v", res.Key, msg.err))
	} else {
		m.toast(fmt.Sprintf("Guardado OK (%s)", res.Key))
	}
	m.journal(e)
}

func (m *Model) create(d model.Draft, again bool) tea.Cmd {
	payload := model.RowToRemotePayload(d)
	ctx, remote := m.ctx, m.opt.Remote
	return func() tea.Msg {
		rec, err := remote.Create(ctx, payload)
		return createdMsg{draft: d, payload: payload, rec: rec, again: again, err: err}
	}
}

func (m *Model) onCreated(msg createdMsg) {
	if m.panel != nil {
		m.panel.saving = false
	}
	if msg.err != nil {
		logx.Warnf("create: %v", msg.err)
		m.toast("Error al crear: " + msg.err.Error())
		m.journal(audit.Entry{Kind: audit.KindCreate, Error: msg.err.Error()})
		return
	}
	merged := model.Merge(msg.payload, msg.rec)
	row := model.MapRemoteToRow(merged)
	if _, ok := merged.RecordID(); !ok {
		row.ID = model.NewLocalID()
	}
	m.store.Prepend(row)
	m.selected = map[string]bool{}
	m.journal(audit.Entry{Kind: audit.KindCreate, RowID: row.ID, RecordID: row.RecordID})
	m.toast("Creado OK")
	if msg.again && m.panel != nil {
		m.panel.reset(msg.draft.ResetKeeping(model.KeyCliente))
	} else {
		m.closePanel()
	}
	m.refreshView()
}

func (m *Model) startDispatch() tea.Cmd {
	if len(m.selected) == 0 {
		return nil
	}
	if m.opt.Dispatcher == nil {
		m.toast("Webhook no configurado")
		return nil
	}
	if m.dispatching || m.opt.Dispatcher.Busy() {
		m.toast("Inicio manual en curso")
		return nil
	}
	var items []dispatch.Item
	for _, r := range m.store.Rows() {
		if m.selected[r.ID] {
			items = append(items, dispatch.Item{RowID: r.ID, SpreadsheetID: r.SpreadsheetID})
		}
	}
	ch, err := m.opt.Dispatcher.Start(m.ctx, items)
	if err != nil {
		m.toast("Error al iniciar: " + err.Error())
		return nil
	}
	m.dispatching = true
	m.dispatchCh = ch
	m.dispatchDone, m.dispatchTotal = 0, len(items)
	m.toast(fmt.Sprintf("Inicio manual: %d filas", len(items)))
	return waitDispatch(ch)
}

func waitDispatch(ch <-chan dispatch.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return dispatchDoneMsg{}
		}
		return dispatchResultMsg{r: r}
	}
}

func (m *Model) onDispatchResult(r dispatch.Result) {
	m.dispatchDone++
	m.toast(r.Message())
	e := audit.Entry{Kind: audit.KindDispatch, RowID: r.Item.RowID, SpreadsheetID: r.Item.SpreadsheetID}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	m.journal(e)
}

func (m *Model) onDispatchDone() {
	logx.Infof("manual start finished: %d/%d", m.dispatchDone, m.dispatchTotal)
	m.dispatching = false
	m.dispatchCh = nil
}

// exportCmd writes every loaded row, not only the filtered view.
func (m *Model) exportCmd(xlsx bool) tea.Cmd {
	rows := make([]model.Row, len(m.store.Rows()))
	copy(rows, m.store.Rows())
	path := m.opt.ExportPath
	if xlsx {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
	}
	return func() tea.Msg {
		var err error
		if xlsx {
			err = export.ToXLSX(path, rows)
		} else {
			err = export.ToCSV(path, rows)
		}
		return exportedMsg{path: path, rows: len(rows), err: err}
	}
}

func (m *Model) onExported(msg exportedMsg) {
	switch {
	case errors.Is(msg.err, export.ErrNoRows):
		m.toast("Nada para exportar")
	case msg.err != nil:
		logx.Errorf("export %s: %v", msg.path, msg.err)
		m.toast("Error al exportar: " + msg.err.Error())
	default:
		m.toast(fmt.Sprintf("Exportadas %d filas a %s", msg.rows, msg.path))
	}
}

func (m *Model) journal(e audit.Entry) {
	if m.opt.Journal == nil {
		return
	}
	if err := m.opt.Journal.Append(e); err != nil {
		logx.Warnf("audit: %v", err)
	}
}
