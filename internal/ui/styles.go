package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base       lipgloss.Style
	Title      lipgloss.Style
	Status     lipgloss.Style
	Help       lipgloss.Style
	Toast      lipgloss.Style
	PopupBox   lipgloss.Style
	PopupTitle lipgloss.Style
	Panel      lipgloss.Style
	PanelLabel lipgloss.Style
	Grid       GridStyles

	JSONKey    lipgloss.Style
	JSONString lipgloss.Style
	JSONNumber lipgloss.Style
	JSONBool   lipgloss.Style
	JSONNull   lipgloss.Style
	JSONPunct  lipgloss.Style
}

type GridStyles struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Pending   lipgloss.Style
	Today     lipgloss.Style
	Yesterday lipgloss.Style
	Link      lipgloss.Style
	Secret    lipgloss.Style
	Skeleton  lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Toast = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("60")).Padding(0, 1)
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Panel = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("60")).Padding(0, 1)
		s.PanelLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		s.Grid = GridStyles{
			Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
			Today:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("114")),
			Yesterday: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("222")),
			Link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("75")),
			Skeleton:  lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		}
	} else {
		s.Base = lipgloss.NewStyle()
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Toast = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25")).Padding(0, 1)
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Panel = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
		s.PanelLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Grid = GridStyles{
			Header:    lipgloss.NewStyle().Bold(true),
			Today:     lipgloss.NewStyle().Background(lipgloss.Color("157")),
			Yesterday: lipgloss.NewStyle().Background(lipgloss.Color("229")),
			Link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("25")),
			Skeleton:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		}
	}
	s.Grid.Cell = lipgloss.NewStyle()
	s.Grid.Cursor = lipgloss.NewStyle().Reverse(true)
	s.Grid.Selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	s.Grid.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	s.Grid.Secret = lipgloss.NewStyle().Faint(true)

	s.JSONKey = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	s.JSONString = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	s.JSONNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	s.JSONBool = lipgloss.NewStyle().Foreground(lipgloss.Color("177"))
	s.JSONNull = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	s.JSONPunct = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	return s
}
