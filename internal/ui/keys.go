package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"todoclient/internal/config"
)

type keyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Up            key.Binding
	Down          key.Binding
	PrevPage      key.Binding
	NextPage      key.Binding
	Toggle        key.Binding
	Add           key.Binding
	Delete        key.Binding
	Search        key.Binding
	ClearSearch   key.Binding
	Reload        key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	ConfirmDelete key.Binding
	CancelDelete  key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	km := keyMap{
		Quit:          key.NewBinding(key.WithKeys(k.Quit), key.WithHelp(k.Quit, "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
		Up:            key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up+"/↑", "prev")),
		Down:          key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down+"/↓", "next")),
		PrevPage:      key.NewBinding(key.WithKeys(k.PrevPage, "left"), key.WithHelp(k.PrevPage+"/←", "prev page")),
		NextPage:      key.NewBinding(key.WithKeys(k.NextPage, "right"), key.WithHelp(k.NextPage+"/→", "next page")),
		Toggle:        key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(helpName(k.Toggle), "toggle")),
		Add:           key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add")),
		Delete:        key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Search:        key.NewBinding(key.WithKeys(k.Search), key.WithHelp(k.Search, "search")),
		ClearSearch:   key.NewBinding(key.WithKeys(k.ClearSearch), key.WithHelp(k.ClearSearch, "clear search")),
		Reload:        key.NewBinding(key.WithKeys(k.Reload), key.WithHelp(k.Reload, "reload")),
		Confirm:       key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "submit")),
		Cancel:        key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "cancel")),
		ConfirmDelete: key.NewBinding(key.WithKeys("y", "Y", k.Confirm), key.WithHelp("y/"+k.Confirm, "delete")),
		CancelDelete:  key.NewBinding(key.WithKeys("n", "N", k.Cancel), key.WithHelp("n/"+k.Cancel, "keep")),
	}
	km.ClearSearch.SetEnabled(false)
	return km
}

// ShortHelp lists the bindings of the grid screen. Disabled bindings are
// skipped by the help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevPage, k.NextPage, k.Toggle, k.Add, k.Delete, k.Search, k.ClearSearch, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Toggle, k.Add, k.Delete},
		{k.Search, k.ClearSearch, k.Reload, k.Quit},
	}
}

func helpName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
