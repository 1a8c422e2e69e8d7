package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"chatwin/internal/i18n"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Search   key.Binding
	Copy     key.Binding
	Refresh  key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func defaultKeyMap(lang i18n.Language) keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", lang.T(i18n.HelpUp))),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", lang.T(i18n.HelpDown))),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", lang.T(i18n.HelpPageUp))),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn", lang.T(i18n.HelpPageDown))),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", lang.T(i18n.HelpHome))),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", lang.T(i18n.HelpEnd))),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", lang.T(i18n.HelpSearch))),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", lang.T(i18n.HelpCopy))),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", lang.T(i18n.HelpRefresh))),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", lang.T(i18n.HelpQuit))),
		Confirm:  key.NewBinding(key.WithKeys("enter")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageUp, k.End, k.Search, k.Copy, k.Quit}
}
