package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/service"
	"github.com/MKhiriev/go-face-lock/models"
)

type TUI struct {
	services   *service.ClientServices
	enrollOpts service.EnrollOptions
	buildInfo  models.AppBuildInfo
	logger     *logger.Logger

	mu      sync.Mutex
	program *tea.Program
}

func New(services *service.ClientServices, enrollOpts service.EnrollOptions, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || services.Session == nil {
		return nil, service.ErrInvalidDataProvided
	}
	return &TUI{services: services, enrollOpts: enrollOpts, buildInfo: buildInfo, logger: logger}, nil
}

// Run shows the menu and blocks until the user quits. It returns
// ErrUserQuit when the program was left with ctrl+c.
func (t *TUI) Run(ctx context.Context) error {
	pages := map[string]tea.Model{
		pageMenu:  NewMenuModel(ctx, t.services.Session, t.services.EnrollmentService),
		pageScan:  NewScanModel(ctx, t.services, t.enrollOpts),
		pageFiles: NewFilesModel(ctx, t.services.Session),
	}
	root := NewRootModel(pages, pageMenu, t.buildInfo)

	program := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
	t.mu.Lock()
	t.program = program
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.program = nil
		t.mu.Unlock()
	}()

	finalModel, runErr := program.Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}

// Notify delivers msg to the running program. It is a no-op when the
// program is not running.
func (t *TUI) Notify(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

// NotifyAutoLocked tells the running program the session locked itself.
func (t *TUI) NotifyAutoLocked() {
	t.logger.Info().Msg("session locked after inactivity")
	t.Notify(AutoLockedMsg{})
}
