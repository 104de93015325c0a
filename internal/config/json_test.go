// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_AllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"version": "9.9.9", "log_file": "x.log"},
		"storage": {"db": {"dsn": "x.db"}, "passphrase_file": "p.txt"},
		"capture": {"source": "r.jsonl", "loop": true, "detector": "embedded"},
		"enroll": {"count": 2, "stability_window": "500ms", "secret_policy": "first"},
		"match": {"tolerance": 0.07, "timeout": "12s", "poll_interval": 20000000},
		"workers": {"file_workers": 5},
		"session": {"idle_lock": "10m"}
	}`), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "9.9.9", cfg.App.Version)
	assert.Equal(t, "x.log", cfg.App.LogFile)
	assert.Equal(t, "x.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "p.txt", cfg.Storage.PassphraseFile)
	assert.Equal(t, "r.jsonl", cfg.Capture.Source)
	assert.True(t, cfg.Capture.Loop)
	assert.Equal(t, 2, cfg.Enroll.Count)
	assert.Equal(t, 500*time.Millisecond, cfg.Enroll.StabilityWindow)
	assert.Equal(t, 0.07, cfg.Match.Tolerance)
	assert.Equal(t, 12*time.Second, cfg.Match.Timeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Match.PollInterval)
	assert.Equal(t, 5, cfg.Workers.FileWorkers)
	assert.Equal(t, 10*time.Minute, cfg.Session.IdleLock)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"match":`), 0o600))

	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestParseJSON_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"match": {"timeout": "forever"}}`), 0o600))

	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}
