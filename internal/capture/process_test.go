// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-face-lock/models"
)

// startFakeDetector serves the detector protocol over in-memory pipes,
// answering every request with respond(image).
func startFakeDetector(t *testing.T, respond func(image []byte) []byte) (*ProcessDetector, *[][]byte) {
	t.Helper()

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	received := &[][]byte{}

	go func() {
		defer respW.Close()
		for {
			var n uint32
			if err := binary.Read(reqR, binary.BigEndian, &n); err != nil {
				return
			}
			image := make([]byte, n)
			if _, err := io.ReadFull(reqR, image); err != nil {
				return
			}
			*received = append(*received, image)

			body := respond(image)
			if err := binary.Write(respW, binary.BigEndian, uint32(len(body))); err != nil {
				return
			}
			if _, err := respW.Write(body); err != nil {
				return
			}
		}
	}()

	d := newPipeDetector(reqW, respR)
	t.Cleanup(func() { _ = d.Close() })
	return d, received
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestProcessDetector_Faces(t *testing.T) {
	face := SyntheticFace(1.5, 0.95, DefaultGeometry)
	body := mustJSON(t, detectorResponse{Faces: []recordFace{fromModelFace(face)}})

	d, received := startFakeDetector(t, func([]byte) []byte { return body })

	faces, err := d.Detect(context.Background(), models.Frame{Image: []byte{0xDE, 0xAD, 0xBE, 0xEF}})
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Equal(t, face, faces[0])
	require.Len(t, *received, 1)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, (*received)[0])
}

func TestProcessDetector_NoFaces(t *testing.T) {
	d, _ := startFakeDetector(t, func([]byte) []byte { return []byte(`{"faces":[]}`) })

	faces, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestProcessDetector_ErrorResponse(t *testing.T) {
	d, _ := startFakeDetector(t, func([]byte) []byte {
		return []byte(`{"error":"cascade not loaded"}`)
	})

	_, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
	require.ErrorIs(t, err, ErrDetectorFailed)
	assert.Contains(t, err.Error(), "cascade not loaded")
}

func TestProcessDetector_MalformedResponse(t *testing.T) {
	d, _ := startFakeDetector(t, func([]byte) []byte { return []byte("{") })

	_, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, ErrDetectorFailed)
}

func TestProcessDetector_EmptyImageSkipsRoundTrip(t *testing.T) {
	d, received := startFakeDetector(t, func([]byte) []byte { return []byte(`{"faces":[]}`) })

	faces, err := d.Detect(context.Background(), models.Frame{})
	require.NoError(t, err)
	assert.Nil(t, faces)
	assert.Empty(t, *received)
}

func TestProcessDetector_CancelledContext(t *testing.T) {
	d, received := startFakeDetector(t, func([]byte) []byte { return []byte(`{"faces":[]}`) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Detect(ctx, models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *received)
}

func TestProcessDetector_Closed(t *testing.T) {
	d, _ := startFakeDetector(t, func([]byte) []byte { return []byte(`{"faces":[]}`) })

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, ErrDetectorFailed)
}

func TestProcessDetector_PeerGone(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	go func() {
		var n uint32
		_ = binary.Read(reqR, binary.BigEndian, &n)
		_, _ = io.CopyN(io.Discard, reqR, int64(n))
		respW.Close()
	}()

	d := newPipeDetector(reqW, respR)
	defer d.Close()

	_, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, ErrDetectorFailed)
}

func TestNewProcessDetector_BadCommand(t *testing.T) {
	_, err := NewProcessDetector("   ")
	assert.ErrorIs(t, err, ErrDetectorFailed)

	_, err = NewProcessDetector("/nonexistent/face-detector --model lbf.yaml")
	assert.ErrorIs(t, err, ErrDetectorFailed)
}

// silentPeer reads requests over in-memory pipes and never answers.
func silentPeer(t *testing.T) *ProcessDetector {
	t.Helper()

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	go func() {
		defer respW.Close()
		_, _ = io.Copy(io.Discard, reqR)
	}()

	d := newPipeDetector(reqW, respR)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestProcessDetector_UnansweredRequestHonoursContext(t *testing.T) {
	d := silentPeer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := d.Detect(ctx, models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	// the stream is out of sync and a pipe peer cannot be restarted
	_, err = d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, ErrDetectorFailed)
}

func TestProcessDetector_WaitingRequestHonoursContext(t *testing.T) {
	d := silentPeer(t)

	first := make(chan error, 1)
	go func() {
		_, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
		first <- err
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := d.Detect(ctx, models.Frame{Image: []byte("frame")})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// closing unblocks the request in flight
	start := time.Now()
	require.NoError(t, d.Close())
	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrDetectorFailed)
	case <-time.After(time.Second):
		t.Fatal("request in flight not released by Close")
	}
	assert.Less(t, time.Since(start), time.Second)
}

func hungDetector(t *testing.T) *ProcessDetector {
	t.Helper()
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	d, err := NewProcessDetector("sleep 30")
	require.NoError(t, err)
	d.grace = 50 * time.Millisecond
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestProcessDetector_HungProcessIsKilledAndRestarted(t *testing.T) {
	d := hungDetector(t)
	firstPid := d.proc.cmd.Process.Pid

	for range 2 {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		start := time.Now()
		_, err := d.Detect(ctx, models.Frame{Image: []byte("frame")})
		cancel()

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	}

	d.mu.Lock()
	proc, broken := d.proc, d.broken
	d.mu.Unlock()
	assert.True(t, broken)
	assert.NotEqual(t, firstPid, proc.cmd.Process.Pid, "detector restarted")
	assert.NotNil(t, proc.cmd.ProcessState, "abandoned detector reaped")
}

func TestProcessDetector_CloseKillsHungProcess(t *testing.T) {
	d := hungDetector(t)

	pending := make(chan error, 1)
	go func() {
		_, err := d.Detect(context.Background(), models.Frame{Image: []byte("frame")})
		pending <- err
	}()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, d.Close())
	assert.Less(t, time.Since(start), time.Second)

	select {
	case err := <-pending:
		assert.ErrorIs(t, err, ErrDetectorFailed)
	case <-time.After(time.Second):
		t.Fatal("request in flight not released by Close")
	}
}
