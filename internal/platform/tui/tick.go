// Package tui provides the Bubble Tea front end for Cognify Quest.
// It maps keys to session commands, renders the board and hosts
// sessions over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cognify-quest/internal/session"
)

// TickMsg drives redraws of the countdown between session events.
type TickMsg time.Time

// sessionEventMsg wraps an event delivered by the controller.
type sessionEventMsg struct {
	event session.Event
}

// subscriptionClosedMsg is sent once the subscription ends.
type subscriptionClosedMsg struct{}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 4
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForEvent blocks on the next controller event.
func waitForEvent(sub *session.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-sub.Events():
			return sessionEventMsg{event: evt}
		case <-sub.Done():
			return subscriptionClosedMsg{}
		}
	}
}
