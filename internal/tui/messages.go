package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-face-lock/models"
)

// NavigateTo switches the active page. Payload, when set, is delivered to
// the new page instead of calling its Init.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// AutoLockedMsg is sent from outside the program when the session locked
// itself after a period of inactivity.
type AutoLockedMsg struct{}

// statusMsg replaces the status line of the receiving page.
type statusMsg string

// enrollmentMsg carries the result of an enrollment check.
type enrollmentMsg struct {
	enrolled bool
	err      error
}

type startScanMsg struct {
	kind scanKind
}

type scanEventMsg struct {
	ev models.Event
	ch <-chan models.Event
}

type scanDoneMsg struct {
	kind     scanKind
	text     string
	err      error
	unlocked bool
}

type fileResultMsg struct {
	res models.FileResult
	ch  <-chan models.FileResult
}

type filesDoneMsg struct {
	count int
	err   error
}
