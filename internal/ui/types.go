package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"prospectsheet/internal/audit"
	"prospectsheet/internal/dispatch"
	"prospectsheet/internal/filter"
	"prospectsheet/internal/model"
	"prospectsheet/internal/store"
)

// Remote is the record table behind the grid.
type Remote interface {
	List(ctx context.Context) ([]model.Record, error)
	Create(ctx context.Context, p model.Payload) (model.Record, error)
	Update(ctx context.Context, recordID string, p model.Payload) (model.Record, error)
}

// Dispatcher runs a manual-start batch in the background.
type Dispatcher interface {
	Start(ctx context.Context, items []dispatch.Item) (<-chan dispatch.Result, error)
	Busy() bool
}

type Journal interface {
	Append(e audit.Entry) error
}

type Options struct {
	Remote Remote
	// Dispatcher is nil when no webhook is configured.
	Dispatcher Dispatcher
	Journal    Journal
	Dark       bool
	ExportPath string
	Copy       func(string) error
	Now        func() time.Time
}

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalInspector
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineFilter
)

type toast struct {
	id    int
	msg   string
	until time.Time
}

// editState is the cell being edited and its value when focus arrived.
type editState struct {
	rowID    string
	key      string
	focusVal string
}

type Model struct {
	ctx   context.Context
	opt   Options
	store *store.Store

	// Derived view
	view     []model.Row
	sort     filter.Directive
	criteria filter.Criteria
	eval     *filter.Evaluator

	selected map[string]bool

	// Cursor and scrolling over the view
	rowIdx    int
	colIdx    int
	rowOffset int
	colOffset int

	editing *editState
	editor  textinput.Model

	inlineMode inlineMode
	input      textinput.Model
	inputPrev  string

	panel *panel

	dispatchCh    <-chan dispatch.Result
	dispatching   bool
	dispatchDone  int
	dispatchTotal int

	toasts   []toast
	toastSeq int

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string
	helpItems   []helpItem
	helpSel     int

	styles     Styles
	keymap     KeyMap
	frame      int
	termWidth  int
	termHeight int
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

type tickMsg struct{}

type loadedMsg struct {
	records []model.Record
	err     error
}

type commitDoneMsg struct {
	c   store.Commit
	err error
}

type createdMsg struct {
	draft   model.Draft
	payload model.Payload
	rec     model.Record
	again   bool
	err     error
}

type dispatchResultMsg struct{ r dispatch.Result }

type dispatchDoneMsg struct{}

type exportedMsg struct {
	path string
	rows int
	err  error
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeySpace:
		return "space"
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
