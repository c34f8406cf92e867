package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePlay key.Binding
	addMinute  key.Binding
	subMinute  key.Binding
	complete   key.Binding
	abandon    key.Binding
	voiceMenu  key.Binding
	esc        key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause/resume"),
	),
	addMinute: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "add a minute"),
	),
	subMinute: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "drop a minute"),
	),
	complete: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "complete"),
	),
	abandon: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "abandon"),
	),
	voiceMenu: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "voice"),
	),
	esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close menu"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
