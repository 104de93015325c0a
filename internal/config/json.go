// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Version string `json:"version"`
		LogFile string `json:"log_file"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Passphrase     string `json:"passphrase"`
		PassphraseFile string `json:"passphrase_file"`
	} `json:"storage,omitempty"`

	Capture struct {
		Source      string `json:"source"`
		Loop        bool   `json:"loop"`
		Detector    string `json:"detector"`
		DetectorCmd string `json:"detector_cmd"`
	} `json:"capture,omitempty"`

	Enroll struct {
		Count           int      `json:"count"`
		StabilityWindow Duration `json:"stability_window"`
		SecretPolicy    string   `json:"secret_policy"`
	} `json:"enroll,omitempty"`

	Match struct {
		Tolerance    float64  `json:"tolerance"`
		Timeout      Duration `json:"timeout"`
		PollInterval Duration `json:"poll_interval"`
	} `json:"match,omitempty"`

	Workers struct {
		FileWorkers int `json:"file_workers"`
	} `json:"workers,omitempty"`

	Session struct {
		IdleLock Duration `json:"idle_lock"`
	} `json:"session,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version: jsonCfg.App.Version,
			LogFile: jsonCfg.App.LogFile,
		},
		Storage: Storage{
			DB:             DB{DSN: jsonCfg.Storage.DB.DSN},
			Passphrase:     jsonCfg.Storage.Passphrase,
			PassphraseFile: jsonCfg.Storage.PassphraseFile,
		},
		Capture: Capture{
			Source:      jsonCfg.Capture.Source,
			Loop:        jsonCfg.Capture.Loop,
			Detector:    jsonCfg.Capture.Detector,
			DetectorCmd: jsonCfg.Capture.DetectorCmd,
		},
		Enroll: Enroll{
			Count:           jsonCfg.Enroll.Count,
			StabilityWindow: time.Duration(jsonCfg.Enroll.StabilityWindow),
			SecretPolicy:    jsonCfg.Enroll.SecretPolicy,
		},
		Match: Match{
			Tolerance:    jsonCfg.Match.Tolerance,
			Timeout:      time.Duration(jsonCfg.Match.Timeout),
			PollInterval: time.Duration(jsonCfg.Match.PollInterval),
		},
		Workers: Workers{
			FileWorkers: jsonCfg.Workers.FileWorkers,
		},
		Session: Session{
			IdleLock: time.Duration(jsonCfg.Session.IdleLock),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
