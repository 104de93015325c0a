// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// ParseFlags parses all configuration flags from args.
//
// Flags:
//
//	-d database DSN (sqlite path or postgres URL)
//	-passphrase-file file holding the at-rest passphrase
//	-source landmark recording used as the camera
//	-loop replay the recording endlessly
//	-detector detector kind: embedded|process
//	-detector-cmd external detector command line
//	-count number of enrollment scans
//	-stability stability window (e.g., "3s")
//	-secret-policy secret policy: first|median
//	-tolerance match tolerance
//	-timeout match timeout (e.g., "30s")
//	-poll poll interval (e.g., "30ms")
//	-file-workers number of file workers
//	-idle-lock auto-lock after inactivity (e.g., "5m", negative disables)
//	-log-file log file path
//	-c/-config json file path with configs
//
// The passphrase itself has no flag: command lines end up in shell history
// and process listings.
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		databaseDSN    string
		passphraseFile string
		source         string
		loop           bool
		detector       string
		detectorCmd    string
		count          int
		stability      time.Duration
		secretPolicy   string
		tolerance      float64
		timeout        time.Duration
		poll           time.Duration
		fileWorkers    int
		idleLock       time.Duration
		logFile        string
		jsonConfigPath string
	)

	fs := flag.NewFlagSet("facelock", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&passphraseFile, "passphrase-file", "", "File holding the at-rest passphrase")
	fs.StringVar(&source, "source", "", "Landmark recording used as the camera")
	fs.BoolVar(&loop, "loop", false, "Replay the recording endlessly")
	fs.StringVar(&detector, "detector", "", "Detector kind: embedded|process")
	fs.StringVar(&detectorCmd, "detector-cmd", "", "External detector command line")
	fs.IntVar(&count, "count", 0, "Number of enrollment scans")
	fs.DurationVar(&stability, "stability", 0, "Stability window (e.g., 3s)")
	fs.StringVar(&secretPolicy, "secret-policy", "", "Secret policy: first|median")
	fs.Float64Var(&tolerance, "tolerance", 0, "Match tolerance")
	fs.DurationVar(&timeout, "timeout", 0, "Match timeout (e.g., 30s)")
	fs.DurationVar(&poll, "poll", 0, "Poll interval (e.g., 30ms)")
	fs.IntVar(&fileWorkers, "file-workers", 0, "Number of file workers")
	fs.DurationVar(&idleLock, "idle-lock", 0, "Auto-lock after inactivity (e.g., 5m)")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogFile: logFile,
		},
		Storage: Storage{
			DB:             DB{DSN: databaseDSN},
			PassphraseFile: passphraseFile,
		},
		Capture: Capture{
			Source:      source,
			Loop:        loop,
			Detector:    detector,
			DetectorCmd: detectorCmd,
		},
		Enroll: Enroll{
			Count:           count,
			StabilityWindow: stability,
			SecretPolicy:    secretPolicy,
		},
		Match: Match{
			Tolerance:    tolerance,
			Timeout:      timeout,
			PollInterval: poll,
		},
		Workers: Workers{
			FileWorkers: fileWorkers,
		},
		Session: Session{
			IdleLock: idleLock,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
