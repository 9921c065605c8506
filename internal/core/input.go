package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the board to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow - nudge selected piece up
	ActionDown             // S, Down arrow - nudge selected piece down
	ActionLeft             // A, Left arrow - nudge selected piece left
	ActionRight            // D, Right arrow - nudge selected piece right
	ActionRotate           // Space, R - rotate selected piece by 45 degrees
	ActionNextPiece        // Tab - select next piece
	ActionPrevPiece        // Shift+Tab - select previous piece
	ActionHint             // H - highlight the suggested piece
	ActionConfirm          // Enter - next level / retry after a result
	ActionBack             // B, Escape - go back to menu
	ActionQuit             // Q, Ctrl+C - exit
	ActionPause            // P - pause/resume
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRotate:
		return "Rotate"
	case ActionNextPiece:
		return "NextPiece"
	case ActionPrevPiece:
		return "PrevPiece"
	case ActionHint:
		return "Hint"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Delta returns the board-space direction of a nudge action scaled by step.
// Non-movement actions return (0, 0).
func (a Action) Delta(step float64) (dx, dy float64) {
	switch a {
	case ActionUp:
		return 0, -step
	case ActionDown:
		return 0, step
	case ActionLeft:
		return -step, 0
	case ActionRight:
		return step, 0
	default:
		return 0, 0
	}
}
