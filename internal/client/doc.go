// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the fingerprint store, the capture pipeline, the client services
// and the terminal UI into a single process lifecycle, and runs the idle
// auto-lock job next to the UI.
package client
