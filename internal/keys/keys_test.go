package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBindings_Match(t *testing.T) {
	tests := []struct {
		name    string
		binding key.Binding
		match   []string
		miss    []string
	}{
		{"menu up", Menu.Up, []string{"up", "k"}, []string{"j", "enter"}},
		{"menu down", Menu.Down, []string{"down", "j"}, []string{"k"}},
		{"menu select", Menu.Select, []string{"enter"}, []string{"tab"}},
		{"menu choose", Menu.Choose, []string{"1", "6", "7", "0"}, []string{"a", "q"}},
		{"menu quit", Menu.Quit, []string{"q", "esc"}, []string{"ctrl+c", "Q"}},
		{"form next", Form.Next, []string{"tab", "down"}, []string{"enter"}},
		{"form prev", Form.Prev, []string{"shift+tab", "up"}, []string{"tab"}},
		{"form submit", Form.Submit, []string{"enter"}, []string{"esc"}},
		{"form cancel", Form.Cancel, []string{"esc"}, []string{"q"}},
		{"force quit", Common.ForceQuit, []string{"ctrl+c"}, []string{"q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.match {
				require.True(t, key.Matches(press(k), tt.binding), "%q should match", k)
			}
			for _, k := range tt.miss {
				require.False(t, key.Matches(press(k), tt.binding), "%q should not match", k)
			}
		})
	}
}

func TestHelpText(t *testing.T) {
	for _, b := range append(Menu.ShortHelp(), Form.ShortHelp()...) {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
	}
}

func TestHelpLine(t *testing.T) {
	require.Equal(t,
		"↑/k up • ↓/j down • enter select • 1-6 choose • q quit",
		HelpLine(Menu.ShortHelp()))
	require.Equal(t, "tab next field • enter submit • esc cancel", HelpLine(Form.ShortHelp()))

	disabled := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled())
	require.Equal(t, "q quit", HelpLine([]key.Binding{disabled, Menu.Quit}))
	require.Empty(t, HelpLine(nil))
}
