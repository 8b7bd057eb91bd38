package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap 终端界面的按键，F5/F6 和窗口版保持一致
type keyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	Longer    key.Binding
	Shorter   key.Binding
	CountDown key.Binding
	Sound     key.Binding
	About     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("f5", " ", "space"),
			key.WithHelp("f5/space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("f6", "r"),
			key.WithHelp("f6/r", "reset"),
		),
		Longer: key.NewBinding(
			key.WithKeys("up", "+", "k"),
			key.WithHelp("↑/+", "more minutes"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("down", "-", "j"),
			key.WithHelp("↓/-", "fewer minutes"),
		),
		CountDown: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "count down/up"),
		),
		Sound: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sound"),
		),
		About: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "about"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Quit},
		{k.Longer, k.Shorter, k.CountDown, k.Sound},
		{k.About, k.Help},
	}
}
