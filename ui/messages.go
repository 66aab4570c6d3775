package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"chatterm/model"
)

// stateMsg signals a controller transition and carries its snapshot.
type stateMsg struct {
	State model.State
}

// subscriptionClosedMsg is sent once the controller stops publishing.
type subscriptionClosedMsg struct{}

// waitForState blocks on the next snapshot from ch.
func waitForState(ch <-chan model.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return stateMsg{State: st}
	}
}
