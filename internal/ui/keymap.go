package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Top         tea.Key
	Bottom      tea.Key
	Edit        tea.Key
	Select      tea.Key
	SelectAll   tea.Key
	Sort        tea.Key
	Search      tea.Key
	Filter      tea.Key
	ClearFilter tea.Key
	New         tea.Key
	Duplicate   tea.Key
	Remove      tea.Key
	Start       tea.Key
	Export      tea.Key
	ExportXLSX  tea.Key
	Reload      tea.Key
	Copy        tea.Key
	Inspect     tea.Key
	AppLogs     tea.Key
	Help        tea.Key
	Quit        tea.Key

	// Creation panel
	Save        tea.Key
	SaveAnother tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		Edit:        tea.Key{Type: tea.KeyEnter},
		Select:      tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		SelectAll:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'a'}},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		New:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		Duplicate:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'d'}},
		Remove:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		Start:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'S'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		ExportXLSX:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'E'}},
		Reload:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		Copy:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Inspect:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		Save:        tea.Key{Type: tea.KeyCtrlS},
		SaveAnother: tea.Key{Type: tea.KeyCtrlN},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		if k.Runes[0] == ' ' && msg.Type == tea.KeySpace {
			return true
		}
		return msg.String() == string(k.Runes)
	}
	return false
}
