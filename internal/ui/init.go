package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"prospectsheet/internal/export"
	"prospectsheet/internal/filter"
	"prospectsheet/internal/model"
	"prospectsheet/internal/store"
)

const tickEvery = 150 * time.Millisecond

func NewModel(ctx context.Context, opt Options) *Model {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Copy == nil {
		opt.Copy = copyToClipboard
	}
	if opt.ExportPath == "" {
		opt.ExportPath = export.DefaultCSVName
	}
	m := &Model{
		ctx:        ctx,
		opt:        opt,
		store:      store.New(),
		sort:       filter.Directive{Key: model.KeyUltimaHumanizacion, Dir: filter.DirDesc},
		selected:   map[string]bool{},
		styles:     NewStyles(opt.Dark),
		keymap:     DefaultKeyMap(),
		editor:     newInput("", 512),
		input:      newInput("/", 256),
		modalVP:    viewport.New(80, 20),
		termWidth:  120,
		termHeight: 30,
	}
	m.eval, _ = filter.NewEvaluator(m.criteria)
	return m
}

func newInput(prompt string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func Run(ctx context.Context, opt Options) error {
	m := NewModel(ctx, opt)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} })
}
