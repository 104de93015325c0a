// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-face-lock/internal/app"
	"github.com/MKhiriev/go-face-lock/internal/service"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

type scanKind int

const (
	scanUnlock scanKind = iota
	scanEnroll
)

// eventBuffer lets the capture loop run ahead of rendering.
const eventBuffer = 64

// ScanModel runs one enrollment or verification on a background task and
// renders its progress.
type ScanModel struct {
	ctx        context.Context
	services   *service.ClientServices
	enrollOpts service.EnrollOptions

	kind      scanKind
	task      *workers.Task
	events    <-chan models.Event
	running   bool
	progress  string
	deviation float64
	samples   int
	total     int

	result   string
	errMsg   string
	unlocked bool
}

func NewScanModel(ctx context.Context, services *service.ClientServices, enrollOpts service.EnrollOptions) *ScanModel {
	return &ScanModel{ctx: ctx, services: services, enrollOpts: enrollOpts, deviation: -1}
}

func (m *ScanModel) Init() tea.Cmd {
	return nil
}

func (m *ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startScanMsg:
		if m.running {
			return m, nil
		}
		return m, m.start(msg.kind)
	case scanEventMsg:
		if msg.ch != m.events {
			return m, nil
		}
		m.apply(msg.ev)
		return m, waitForEvent(msg.ch)
	case scanDoneMsg:
		m.running = false
		m.task = nil
		m.result = msg.text
		m.errMsg = humanizeError(msg.err)
		m.unlocked = msg.unlocked
		return m, nil
	case statusMsg:
		m.result = string(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ScanModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		if m.running {
			m.task.Cancel()
			m.progress = "Cancelling..."
			return m, nil
		}
		return m, navigate(pageMenu, statusMsg(m.summary()))
	case key.Matches(msg, keys.enter):
		if m.running {
			return m, nil
		}
		if m.unlocked {
			return m, navigate(pageFiles, nil)
		}
		return m, navigate(pageMenu, statusMsg(m.summary()))
	}
	return m, nil
}

func (m *ScanModel) start(kind scanKind) tea.Cmd {
	events := make(chan models.Event, eventBuffer)
	opts := m.enrollOpts
	opts.Events = events
	services := m.services

	m.kind = kind
	m.events = events
	m.running = true
	m.progress = "Starting camera..."
	m.deviation = -1
	m.samples, m.total = 0, opts.Count
	m.result, m.errMsg = "", ""
	m.unlocked = false

	var done scanDoneMsg
	task := workers.StartTask(m.ctx, func(ctx context.Context) error {
		done.kind = kind
		if kind == scanEnroll {
			res, err := services.EnrollmentService.Enroll(ctx, opts)
			if err == nil && res.Status == models.EnrollmentStatusCommitted {
				// a new identity invalidates the key of the previous one
				services.Session.Lock()
			}
			done.text, done.err = app.EnrollmentMessage(res), err
			return err
		}

		out, err := services.Session.Unlock(ctx, events)
		done.text, done.err = app.OutcomeMessage(out), err
		done.unlocked = err == nil && out.Matched()
		return err
	})
	m.task = task

	return tea.Batch(
		waitForEvent(events),
		func() tea.Msg {
			_ = task.Wait()
			close(events)
			return done
		},
	)
}

func (m *ScanModel) apply(ev models.Event) {
	switch ev.Kind {
	case models.EventDistance:
		if m.deviation < 0 || ev.Distance < m.deviation {
			m.deviation = ev.Distance
		}
	case models.EventSampleAccepted:
		m.samples = ev.Sample
	}
	if ev.Total > 0 {
		m.total = ev.Total
	}
	if line := app.ProgressLine(ev); line != "" {
		m.progress = line
	}
}

func (m *ScanModel) summary() string {
	if m.errMsg != "" {
		return m.errMsg
	}
	return m.result
}

func (m *ScanModel) View() string {
	var b strings.Builder

	title := "UNLOCK"
	if m.kind == scanEnroll {
		title = "FACE SCAN"
		b.WriteString(fmt.Sprintf("Samples: %d/%d\n", m.samples, m.total))
	}
	if m.deviation >= 0 {
		b.WriteString(fmt.Sprintf("Best deviation: %.4f\n", m.deviation))
	}
	if m.running {
		b.WriteString(m.progress)
		b.WriteString("\n")
		return renderPage(title, b.String(), "esc: cancel")
	}

	renderStatus(&b, m.result, m.errMsg)
	hotKeys := "enter/esc: back to menu"
	if m.unlocked {
		hotKeys = "enter: open files │ esc: back to menu"
	}
	return renderPage(title, b.String(), hotKeys)
}

func waitForEvent(ch <-chan models.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return scanEventMsg{ev: ev, ch: ch}
	}
}
