package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-face-lock/internal/app"
	"github.com/MKhiriev/go-face-lock/internal/service"
)

type menuAction int

const (
	actionUnlock menuAction = iota
	actionFiles
	actionLock
	actionEnroll
	actionQuit
)

type menuItem struct {
	title  string
	action menuAction
}

type enrollState int

const (
	enrollUnknown enrollState = iota
	enrollPresent
	enrollMissing
)

type MenuModel struct {
	ctx        context.Context
	session    service.SessionService
	enrollment service.EnrollmentService
	enrolled   enrollState
	items      []menuItem
	idx        int
	status     string
}

// NewMenuModel builds the main menu. enrollment may be nil, in which case
// the menu never reports whether a face is enrolled.
func NewMenuModel(ctx context.Context, session service.SessionService, enrollment service.EnrollmentService) *MenuModel {
	return &MenuModel{
		ctx:        ctx,
		session:    session,
		enrollment: enrollment,
		items: []menuItem{
			{title: "Unlock with face", action: actionUnlock},
			{title: "Encrypt / decrypt files", action: actionFiles},
			{title: "Lock", action: actionLock},
			{title: "Scan face (replace enrollment)", action: actionEnroll},
			{title: "Quit", action: actionQuit},
		},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return m.checkEnrollment()
}

// checkEnrollment asks the store whether a face is enrolled.
func (m *MenuModel) checkEnrollment() tea.Cmd {
	if m.enrollment == nil {
		return nil
	}
	ctx, enrollment := m.ctx, m.enrollment
	return func() tea.Msg {
		ok, err := enrollment.Enrolled(ctx)
		return enrollmentMsg{enrolled: ok, err: err}
	}
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		// a finished scan may have replaced the enrollment
		m.status = string(msg)
		return m, m.checkEnrollment()
	case enrollmentMsg:
		switch {
		case msg.err != nil:
			m.enrolled = enrollUnknown
		case msg.enrolled:
			m.enrolled = enrollPresent
		default:
			m.enrolled = enrollMissing
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.enter):
		return m.choose(m.items[m.idx].action)
	}

	return m, nil
}

func (m *MenuModel) choose(action menuAction) (tea.Model, tea.Cmd) {
	m.status = ""
	switch action {
	case actionUnlock:
		if m.enrolled == enrollMissing {
			m.status = app.MsgNoBiometricData
			return m, nil
		}
		return m, navigate(pageScan, startScanMsg{kind: scanUnlock})
	case actionEnroll:
		return m, navigate(pageScan, startScanMsg{kind: scanEnroll})
	case actionFiles:
		return m, navigate(pageFiles, nil)
	case actionLock:
		m.session.Lock()
		m.status = app.MsgLocked
	case actionQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder

	b.WriteString("Session: ")
	b.WriteString(lockState(m.session.Unlocked()))
	b.WriteString("\n")
	if m.enrolled == enrollMissing {
		b.WriteString(app.MsgNotEnrolled)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	renderStatus(&b, m.status, "")
	if m.status != "" {
		b.WriteString("\n")
	}

	idColWidth := lipgloss.Width(fmt.Sprintf("%d", len(m.items))) + 2
	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		b.WriteString(fmt.Sprintf("%-*s │ %s\n", idColWidth, idCell, item.title))
	}

	return renderPage("FACE LOCK", strings.TrimRight(b.String(), "\n"), "enter: select │ ↑/↓: navigate │ v: version │ q: quit")
}

func navigate(page string, payload tea.Msg) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page, Payload: payload} }
}
