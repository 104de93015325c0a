package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-face-lock/internal/capture"
	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/service"
	"github.com/MKhiriev/go-face-lock/internal/store"
	"github.com/MKhiriev/go-face-lock/internal/tui"
	"github.com/MKhiriev/go-face-lock/internal/utils"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

var (
	_ Client = (*App)(nil)
	_ UI     = (*tui.TUI)(nil)
)

type App struct {
	services *service.ClientServices
	ui       UI
	workers  *workers.Workers
	closers  []io.Closer
	logger   *logger.Logger
}

// NewApp opens the fingerprint store with the passphrase resolved from cfg
// or prompt, starts the landmark detector and builds the services and the UI.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, prompt utils.PassphrasePrompt, log *logger.Logger) (*App, error) {
	passphrase, err := utils.ResolvePassphrase(cfg.Storage.Passphrase, cfg.Storage.PassphraseFile, prompt)
	if err != nil {
		return nil, fmt.Errorf("resolve storage passphrase: %w", err)
	}

	keyChain := crypto.NewKeyChain()
	storages, err := store.NewClientStorages(ctx, cfg.Storage, passphrase, keyChain, log)
	clear(passphrase)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	detector, detectorCloser, err := newDetector(cfg.Capture)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("start landmark detector: %w", err)
	}

	camera := capture.NewReplayCamera(cfg.Capture.Source, cfg.Capture.Loop)
	services := service.NewClientServices(cfg, camera, detector, storages.FingerprintRepository, keyChain, log)

	ui, err := tui.New(services, service.EnrollOptionsFromConfig(cfg.Enroll, cfg.Match), buildInfo, log.GetChildLogger())
	if err != nil {
		storages.Close()
		detectorCloser.Close()
		return nil, fmt.Errorf("create ui: %w", err)
	}

	return newApp(services, ui, cfg.Session, []io.Closer{detectorCloser, storages}, log), nil
}

func newApp(services *service.ClientServices, ui UI, session config.Session, closers []io.Closer, log *logger.Logger) *App {
	background := workers.NewWorkers()
	if job := service.NewAutoLockJob(services.Session, session.IdleLock, ui.NotifyAutoLocked); job != nil {
		background.Add(job)
	}

	return &App{
		services: services,
		ui:       ui,
		workers:  background,
		closers:  closers,
		logger:   log,
	}
}

// Run shows the UI and blocks until the user quits or the process receives
// a termination signal. The session is locked on the way out.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer a.services.Session.Lock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info().Msg("client started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.workers.Run(gctx)
	})
	g.Go(func() error {
		// leaving the UI stops the background workers
		defer cancel()
		err := a.ui.Run(gctx)
		if errors.Is(err, tui.ErrUserQuit) {
			a.logger.Info().Msg("user quit")
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("client run: %w", err)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}

// Close releases the detector and the store.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newDetector(cfg config.Capture) (capture.LandmarkDetector, io.Closer, error) {
	if cfg.Detector == config.DetectorProcess {
		detector, err := capture.NewProcessDetector(cfg.DetectorCmd)
		if err != nil {
			return nil, nil, err
		}
		return detector, detector, nil
	}
	return capture.NewEmbeddedDetector(), io.NopCloser(nil), nil
}
