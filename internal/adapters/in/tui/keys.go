package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	PrevDay   key.Binding
	NextDay   key.Binding
	PrevWeek  key.Binding
	NextWeek  key.Binding
	PrevRange key.Binding
	NextRange key.Binding
	Today     key.Binding
	View      key.Binding
	Search    key.Binding
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	NextItem  key.Binding
	PrevItem  key.Binding
	Reload    key.Binding
	Quit      key.Binding

	// Форма
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	CycleBack key.Binding
	Save      key.Binding
	Close     key.Binding

	// Подтверждение удаления
	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	PrevDay:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "día")),
	NextDay:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "día")),
	PrevWeek:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "semana")),
	NextWeek:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "semana")),
	PrevRange: key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "anterior")),
	NextRange: key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "siguiente")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "hoy")),
	View:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "mes/semana")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "buscar")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nueva")),
	Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "editar")),
	Delete:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "eliminar")),
	NextItem:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cita")),
	PrevItem:  key.NewBinding(key.WithKeys("shift+tab")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),

	NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "campo")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab", "up")),
	Cycle:     key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "opción")),
	CycleBack: key.NewBinding(key.WithKeys("left")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("enter", "guardar")),
	Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cerrar")),

	Confirm: key.NewBinding(key.WithKeys("y", "s", "enter"), key.WithHelp("s", "confirmar")),
	Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancelar")),
}

func (k keyMap) calendarHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.PrevWeek, k.PrevRange, k.NextRange, k.Today, k.View, k.Search, k.New, k.Edit, k.Delete, k.NextItem, k.Reload, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Cycle, k.Save, k.Close}
}

func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}
