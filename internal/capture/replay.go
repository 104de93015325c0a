// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/MKhiriev/go-face-lock/models"
)

// maxRecordLine bounds a single recording line (base64 image plus faces).
const maxRecordLine = 16 << 20

// ReplayCamera plays back a JSON Lines recording as a camera.
type ReplayCamera struct {
	// Path is the recording file.
	Path string
	// Loop restarts playback at the first frame after the last one.
	// Without it the source reports [ErrNoFrame] once exhausted.
	Loop bool
}

// NewReplayCamera returns a camera reading the recording at path.
func NewReplayCamera(path string, loop bool) *ReplayCamera {
	return &ReplayCamera{Path: path, Loop: loop}
}

// Open loads the whole recording. A missing, unreadable, malformed or empty
// file yields [ErrCameraUnavailable].
func (c *ReplayCamera) Open(ctx context.Context) (FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Path == "" {
		return nil, fmt.Errorf("%w: no recording configured", ErrCameraUnavailable)
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
	}
	defer f.Close()

	frames, err := ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: recording %s is empty", ErrCameraUnavailable, c.Path)
	}

	return &replaySource{frames: frames, loop: c.Loop}, nil
}

// ReadRecording parses a JSON Lines recording. Blank lines are skipped and
// frame indices follow the order of the non-blank lines.
func ReadRecording(r io.Reader) ([]models.Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxRecordLine)

	var frames []models.Frame
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec recordLine
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRecording, lineNo, err)
		}
		frames = append(frames, models.Frame{
			Index: len(frames),
			Image: rec.Image,
			Faces: toModelFaces(rec.Faces),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading recording: %w", err)
	}
	return frames, nil
}

// WriteRecording writes frames in the format read by [ReadRecording].
func WriteRecording(w io.Writer, frames []models.Frame) error {
	enc := json.NewEncoder(w)
	for _, frame := range frames {
		rec := recordLine{Image: frame.Image, Faces: make([]recordFace, len(frame.Faces))}
		for i, face := range frame.Faces {
			rec.Faces[i] = fromModelFace(face)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("error writing frame %d: %w", frame.Index, err)
		}
	}
	return nil
}

type replaySource struct {
	mu     sync.Mutex
	frames []models.Frame
	pos    int
	loop   bool
	closed bool
}

func (s *replaySource) Read(ctx context.Context) (models.Frame, error) {
	if err := ctx.Err(); err != nil {
		return models.Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.Frame{}, ErrSourceClosed
	}
	if s.pos >= len(s.frames) {
		if !s.loop {
			return models.Frame{}, ErrNoFrame
		}
		s.pos = 0
	}

	frame := s.frames[s.pos]
	s.pos++
	return frame, nil
}

func (s *replaySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
