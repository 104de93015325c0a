// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-face-lock/models"
)

const (
	// maxResponseSize bounds a detector response body.
	maxResponseSize = 8 << 20
	// closeGrace is how long a detector may take to exit after its pipes
	// are closed before it is killed.
	closeGrace = 2 * time.Second
)

// detectorResponse is the JSON body returned by the detector process.
type detectorResponse struct {
	Faces []recordFace `json:"faces"`
	Error string       `json:"error,omitempty"`
}

// ProcessDetector runs an external landmark detector (for example an
// OpenCV LBF script) and talks to it over two pipes:
//
//	stdin: uint32 big-endian length ‖ image bytes
//	FD 3:  uint32 big-endian length ‖ JSON {"faces":[...]} | {"error":"..."}
//
// Stdout is left to the child for its own chatter. Stderr is captured and
// attached to errors. Requests are serialized.
//
// A request abandoned through its context leaves the stream out of sync, so
// the child is killed and started again on the next request.
type ProcessDetector struct {
	args  []string
	grace time.Duration

	// sem serializes requests; waiting for it honours the context.
	sem chan struct{}

	mu     sync.Mutex
	proc   *detectorProc
	broken bool
	closed bool
}

// detectorProc is one running detector and its pipes.
type detectorProc struct {
	cmd    *exec.Cmd
	stderr *syncBuffer
	stdin  io.WriteCloser
	data   io.ReadCloser

	stopOnce sync.Once
	stopErr  error
}

// NewProcessDetector starts the detector given as a whitespace separated
// command line.
func NewProcessDetector(commandLine string) (*ProcessDetector, error) {
	args := strings.Fields(commandLine)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrDetectorFailed)
	}

	proc, err := spawnDetector(args)
	if err != nil {
		return nil, err
	}
	return &ProcessDetector{
		args:  args,
		grace: closeGrace,
		sem:   make(chan struct{}, 1),
		proc:  proc,
	}, nil
}

// newPipeDetector wires a detector to existing pipes without a process.
// It cannot be restarted.
func newPipeDetector(stdin io.WriteCloser, data io.ReadCloser) *ProcessDetector {
	return &ProcessDetector{
		grace: closeGrace,
		sem:   make(chan struct{}, 1),
		proc:  &detectorProc{stdin: stdin, data: data, stderr: &syncBuffer{}},
	}
}

func spawnDetector(args []string) (*detectorProc, error) {
	cmd := exec.Command(args[0], args[1:]...)
	stderr := &syncBuffer{}
	cmd.Stderr = stderr

	// side-channel pipe, appears as FD 3 in the child
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	cmd.ExtraFiles = []*os.File{w}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		w.Close()
		r.Close()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		w.Close()
		r.Close()
		return nil, fmt.Errorf("%w: start %s: %w", ErrDetectorFailed, args[0], err)
	}

	// only the child keeps the write end
	w.Close()

	return &detectorProc{cmd: cmd, stderr: stderr, stdin: stdin, data: r}, nil
}

// Detect sends the frame image and waits for the answer, or until ctx is
// done. A frame without an image yields no faces without a round trip.
func (d *ProcessDetector) Detect(ctx context.Context, frame models.Frame) ([]models.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(frame.Image) == 0 {
		return nil, nil
	}

	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-d.sem }()

	proc, err := d.current()
	if err != nil {
		return nil, err
	}

	type result struct {
		body []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := proc.communicate(frame.Image)
		done <- result{body: body, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		d.abandon(proc)
		return nil, ctx.Err()
	}
	if res.err != nil {
		d.abandon(proc)
		return nil, proc.wrap(res.err)
	}

	var resp detectorResponse
	if err := json.Unmarshal(res.body, &resp); err != nil {
		return nil, proc.wrap(fmt.Errorf("decode response: %w", err))
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrDetectorFailed, resp.Error)
	}
	return toModelFaces(resp.Faces), nil
}

// current returns the running detector, restarting it after an abandoned
// request.
func (d *ProcessDetector) current() (*detectorProc, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("%w: detector closed", ErrDetectorFailed)
	}
	if !d.broken {
		return d.proc, nil
	}
	if d.args == nil {
		return nil, fmt.Errorf("%w: detector stream out of sync", ErrDetectorFailed)
	}

	proc, err := spawnDetector(d.args)
	if err != nil {
		return nil, err
	}
	d.proc, d.broken = proc, false
	return proc, nil
}

// abandon kills proc if it is still the current detector.
func (d *ProcessDetector) abandon(proc *detectorProc) {
	d.mu.Lock()
	if d.proc == proc {
		d.broken = true
	}
	d.mu.Unlock()

	_ = proc.stop(0)
}

func (p *detectorProc) communicate(image []byte) ([]byte, error) {
	if err := binary.Write(p.stdin, binary.BigEndian, uint32(len(image))); err != nil {
		return nil, err
	}
	if _, err := p.stdin.Write(image); err != nil {
		return nil, err
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(p.data, header); err != nil {
		return nil, err
	}

	respLen := binary.BigEndian.Uint32(header)
	if respLen > maxResponseSize {
		return nil, fmt.Errorf("response of %d bytes exceeds limit", respLen)
	}
	body := make([]byte, respLen)
	if _, err := io.ReadFull(p.data, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *detectorProc) wrap(err error) error {
	if logs := strings.TrimSpace(p.stderr.String()); logs != "" {
		return fmt.Errorf("%w: %w (stderr: %s)", ErrDetectorFailed, err, logs)
	}
	return fmt.Errorf("%w: %w", ErrDetectorFailed, err)
}

// stop closes the pipes, which also unblocks a pending request, and waits
// up to grace for the child to exit before killing it.
func (p *detectorProc) stop(grace time.Duration) error {
	p.stopOnce.Do(func() {
		err := errors.Join(p.stdin.Close(), p.data.Close())
		if p.cmd == nil {
			p.stopErr = err
			return
		}

		exited := make(chan error, 1)
		go func() { exited <- p.cmd.Wait() }()

		var waitErr error
		select {
		case waitErr = <-exited:
		case <-time.After(grace):
			_ = p.cmd.Process.Kill()
			waitErr = <-exited
		}

		var exitErr *exec.ExitError
		// a detector stopped by the closed pipe or a kill is expected
		if waitErr != nil && !errors.As(waitErr, &exitErr) {
			err = errors.Join(err, waitErr)
		}
		p.stopErr = err
	})
	return p.stopErr
}

// Stderr returns what the current detector wrote to its stderr so far.
func (d *ProcessDetector) Stderr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.proc.stderr.String()
}

// Close shuts the pipes and waits for the process to exit, killing it after
// a grace period. A request in flight fails with [ErrDetectorFailed].
func (d *ProcessDetector) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	proc := d.proc
	d.mu.Unlock()

	return proc.stop(d.grace)
}

// syncBuffer is a bytes.Buffer safe for the exec copier and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
