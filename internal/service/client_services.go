package service

import (
	"github.com/MKhiriev/go-face-lock/internal/capture"
	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/store"
	"github.com/MKhiriev/go-face-lock/internal/workers"
)

type ClientServices struct {
	EnrollmentService EnrollmentService
	MatchingService   MatchingService
	FileCipherService FileCipherService
	Session           SessionService
}

func NewClientServices(cfg *config.StructuredConfig, camera capture.Camera, detector capture.LandmarkDetector,
	repo store.FingerprintRepository, keyChain crypto.KeyChain, logger *logger.Logger) *ClientServices {
	enrollSvc := NewEnrollmentService(camera, detector, repo, logger.GetChildLogger())
	matchSvc := NewMatchingService(camera, detector, repo, cfg.Match.PollInterval, logger.GetChildLogger())
	fileSvc := NewFileCipherService(keyChain, logger.GetChildLogger())
	batch := workers.NewFileBatch(fileSvc, cfg.Workers.FileWorkers, logger.GetChildLogger())

	return &ClientServices{
		EnrollmentService: enrollSvc,
		MatchingService:   matchSvc,
		FileCipherService: fileSvc,
		Session:           NewSession(matchSvc, keyChain, batch, cfg.Match, cfg.Session.IdleLock, logger.GetChildLogger()),
	}
}
