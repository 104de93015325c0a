// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-face-lock/internal/app"
	"github.com/MKhiriev/go-face-lock/internal/service"
	"github.com/MKhiriev/go-face-lock/internal/store"
)

var ErrUserQuit = errors.New("user quit")

func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrStorageCorrupt):
		return app.MsgStorageCorrupt
	case errors.Is(err, service.ErrLocked):
		return app.MsgSessionLocked
	case errors.Is(err, context.Canceled):
		return app.MsgCancelled
	default:
		return err.Error()
	}
}
