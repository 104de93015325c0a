// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-face-lock/internal/app"
	"github.com/MKhiriev/go-face-lock/internal/service"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

const maxLogLines = 200

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// FilesModel takes dropped or typed paths and runs them through the
// session's file batch.
type FilesModel struct {
	ctx     context.Context
	session service.SessionService

	input   textinput.Model
	mode    models.FileMode
	task    *workers.Task
	results <-chan models.FileResult
	running bool

	log        []string
	lastOutput string
	status     string
	errMsg     string
}

func NewFilesModel(ctx context.Context, session service.SessionService) *FilesModel {
	input := textinput.New()
	input.Placeholder = "drop files here or type paths, separated by spaces"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Width = 60

	return &FilesModel{ctx: ctx, session: session, input: input, mode: models.FileModeAuto}
}

func (m *FilesModel) Init() tea.Cmd {
	m.errMsg = ""
	if !m.session.Unlocked() {
		m.status = app.MsgSessionLocked
	}
	return m.input.Focus()
}

func (m *FilesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileResultMsg:
		if msg.ch != m.results {
			return m, nil
		}
		m.appendLog(app.FileResultLine(msg.res))
		if msg.res.OK() {
			m.lastOutput = msg.res.Output
		}
		return m, waitForFileResult(msg.ch)
	case filesDoneMsg:
		m.running = false
		m.task = nil
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Processed %d file(s)", msg.count)
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *FilesModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.esc):
		if m.running {
			m.task.Cancel()
			m.status = "Cancelling..."
			return nil, true
		}
		m.input.Blur()
		return navigate(pageMenu, nil), true
	case key.Matches(msg, keys.tab):
		m.mode = nextMode(m.mode)
		return nil, true
	case key.Matches(msg, keys.copy):
		m.copyLastOutput()
		return nil, true
	case key.Matches(msg, keys.enter):
		return m.submit(), true
	}
	return nil, false
}

func (m *FilesModel) submit() tea.Cmd {
	if m.running {
		return nil
	}
	paths := splitPaths(m.input.Value())
	if len(paths) == 0 {
		m.status = "Nothing to process"
		return nil
	}
	if !m.session.Unlocked() {
		m.errMsg = app.MsgSessionLocked
		return nil
	}

	results := make(chan models.FileResult, len(paths))
	session, mode := m.session, m.mode

	var processed int
	task := workers.StartTask(m.ctx, func(ctx context.Context) error {
		res, err := session.ProcessFiles(ctx, paths, mode, func(r models.FileResult) { results <- r })
		processed = len(res)
		return err
	})

	m.task = task
	m.results = results
	m.running = true
	m.status, m.errMsg = fmt.Sprintf("Processing %d file(s)...", len(paths)), ""
	m.input.Reset()

	return tea.Batch(
		waitForFileResult(results),
		func() tea.Msg {
			err := task.Wait()
			close(results)
			return filesDoneMsg{count: processed, err: err}
		},
	)
}

func (m *FilesModel) copyLastOutput() {
	if m.lastOutput == "" {
		m.status = "Nothing to copy"
		return
	}
	if err := copyToClipboard(m.lastOutput); err != nil {
		m.errMsg = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = app.MsgCopiedToClipboard
}

func (m *FilesModel) appendLog(line string) {
	m.log = append(m.log, line)
	if over := len(m.log) - maxLogLines; over > 0 {
		m.log = m.log[over:]
	}
}

func (m *FilesModel) View() string {
	var b strings.Builder

	b.WriteString("Session: ")
	b.WriteString(lockState(m.session.Unlocked()))
	b.WriteString("   Mode: ")
	b.WriteString(m.mode.String())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	renderStatus(&b, m.status, m.errMsg)

	if len(m.log) > 0 {
		b.WriteString("\n")
		start := max(0, len(m.log)-15)
		for _, line := range m.log[start:] {
			b.WriteString(fitText(line, 100))
			b.WriteString("\n")
		}
	}

	hotKeys := "enter: process │ tab: mode │ ctrl+y: copy last output │ esc: menu"
	if m.running {
		hotKeys = "esc: cancel"
	}
	return renderPage("FILES", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func nextMode(mode models.FileMode) models.FileMode {
	switch mode {
	case models.FileModeAuto:
		return models.FileModeEncrypt
	case models.FileModeEncrypt:
		return models.FileModeDecrypt
	default:
		return models.FileModeAuto
	}
}

func waitForFileResult(ch <-chan models.FileResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return fileResultMsg{res: res, ch: ch}
	}
}

// splitPaths splits terminal input into paths. Terminals paste dropped files
// either quoted or with backslash-escaped spaces, sometimes as file:// URIs.
func splitPaths(s string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)
	flush := func() {
		if started {
			paths = append(paths, strings.TrimPrefix(current.String(), "file://"))
		}
		current.Reset()
		started = false
	}

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()
	return paths
}
