// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return fmt.Errorf("%w: dsn %q", ErrInvalidStorageConfigs, cfg.Storage.DB.DSN)
	}

	switch cfg.Capture.Detector {
	case DetectorEmbedded:
	case DetectorProcess:
		if strings.TrimSpace(cfg.Capture.DetectorCmd) == "" {
			return fmt.Errorf("%w: process detector needs a command", ErrInvalidCaptureConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown detector %q", ErrInvalidCaptureConfigs, cfg.Capture.Detector)
	}

	if cfg.Enroll.Count < 1 || cfg.Enroll.StabilityWindow < 0 {
		return ErrInvalidEnrollConfigs
	}
	if cfg.Enroll.SecretPolicy != SecretPolicyFirst && cfg.Enroll.SecretPolicy != SecretPolicyMedian {
		return fmt.Errorf("%w: unknown secret policy %q", ErrInvalidEnrollConfigs, cfg.Enroll.SecretPolicy)
	}

	if cfg.Match.Tolerance <= 0 || cfg.Match.Timeout <= 0 || cfg.Match.PollInterval <= 0 {
		return ErrInvalidMatchConfigs
	}

	if cfg.Workers.FileWorkers < 1 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
