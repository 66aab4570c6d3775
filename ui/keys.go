package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send            key.Binding
	Newline         key.Binding
	Clear           key.Binding
	Settings        key.Binding
	CheckConnection key.Binding
	NextField       key.Binding
	PrevField       key.Binding
	CycleMode       key.Binding
	CycleFormat     key.Binding
	CopyLast        key.Binding
	CopyAll         key.Binding
	ScrollUp        key.Binding
	ScrollDown      key.Binding
	Quit            key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:            key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send")),
		Newline:         key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("Alt+Enter", "New line")),
		Clear:           key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("Ctrl+L", "Clear")),
		Settings:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "Settings")),
		CheckConnection: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("Ctrl+T", "Check connection")),
		NextField:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("Tab", "Next field")),
		PrevField:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("Shift+Tab", "Previous field")),
		CycleMode:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("Ctrl+F", "Prompt mode")),
		CycleFormat:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Response format")),
		CopyLast:        key.NewBinding(key.WithKeys("alt+y"), key.WithHelp("Alt+Y", "Copy")),
		CopyAll:         key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("Alt+C", "Copy all")),
		ScrollUp:        key.NewBinding(key.WithKeys("pgup", "alt+k", "alt+up")),
		ScrollDown:      key.NewBinding(key.WithKeys("pgdown", "alt+j", "alt+down")),
		Quit:            key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
	}
}

// footer renders bindings as "Key Description" pairs.
func footer(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key, h.Desc)
	}
	return FormatFooter(UserStyle, parts...)
}
