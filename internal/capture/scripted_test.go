// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedCamera_OpenError(t *testing.T) {
	cam := &ScriptedCamera{OpenErr: ErrCameraUnavailable}

	_, err := cam.Open(context.Background())
	assert.ErrorIs(t, err, ErrCameraUnavailable)
	assert.Zero(t, cam.Opens())
}

func TestScriptedCamera_StepsAndErrors(t *testing.T) {
	cam := &ScriptedCamera{Steps: []ScriptedFrame{
		{Frame: SyntheticFrame(0, 1.5, 0.95)},
		{Err: ErrNoFrame},
		{Frame: SyntheticFrame(2, 1.5, 0.95), Delay: 5 * time.Millisecond},
	}}
	ctx := context.Background()

	src, err := cam.Open(ctx)
	require.NoError(t, err)

	f, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Index)

	_, err = src.Read(ctx)
	assert.ErrorIs(t, err, ErrNoFrame)

	f, err = src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Index)
	assert.Equal(t, 3, cam.Reads())

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.Equal(t, 1, cam.Opens())
	assert.Equal(t, 1, cam.Closes())
}

func TestScriptedCamera_StallsUntilContextDone(t *testing.T) {
	cam := NewScriptedCamera(false)
	src, err := cam.Open(context.Background())
	require.NoError(t, err)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = src.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestScriptedCamera_CloseUnblocksRead(t *testing.T) {
	cam := NewScriptedCamera(false)
	src, err := cam.Open(context.Background())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := src.Read(context.Background())
		errCh <- err
	}()

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, src.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrSourceClosed)
	case <-time.After(time.Second):
		t.Fatal("read did not return after close")
	}
}

func TestScriptedCamera_Loop(t *testing.T) {
	cam := NewScriptedCamera(true, SyntheticFrame(0, 1.5, 0.95), SyntheticFrame(1, 1.5, 0.95))
	ctx := context.Background()
	src, err := cam.Open(ctx)
	require.NoError(t, err)
	defer src.Close()

	var got []int
	for i := 0; i < 4; i++ {
		f, err := src.Read(ctx)
		require.NoError(t, err)
		got = append(got, f.Index)
	}
	assert.Equal(t, []int{0, 1, 0, 1}, got)
}
