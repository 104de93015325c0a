// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNoPassphrase is returned when no source yields a non-empty passphrase.
var ErrNoPassphrase = errors.New("no storage passphrase available")

// PassphrasePrompt asks the user for a secret. The label is shown verbatim.
type PassphrasePrompt func(label string) ([]byte, error)

// ResolvePassphrase returns the passphrase used to derive the at-rest key of
// the fingerprint store. Sources are tried in order: the literal value, the
// first line of file, then prompt. A nil prompt skips the interactive step.
func ResolvePassphrase(value, file string, prompt PassphrasePrompt) ([]byte, error) {
	if value != "" {
		return []byte(value), nil
	}

	if file != "" {
		pass, err := readPassphraseFile(file)
		if err != nil {
			return nil, err
		}
		if len(pass) == 0 {
			return nil, fmt.Errorf("%w: %s is empty", ErrNoPassphrase, file)
		}
		return pass, nil
	}

	if prompt == nil {
		return nil, ErrNoPassphrase
	}

	pass, err := prompt("Storage passphrase: ")
	if err != nil {
		return nil, fmt.Errorf("error reading passphrase: %w", err)
	}
	if len(pass) == 0 {
		return nil, ErrNoPassphrase
	}
	return pass, nil
}

func readPassphraseFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening passphrase file: %w", err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error reading passphrase file: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// TerminalPrompt returns a prompt that reads a password from in without
// echo. It returns nil when in is not a terminal, so
// [ResolvePassphrase] reports [ErrNoPassphrase] instead of blocking on a
// pipe.
func TerminalPrompt(in *os.File, out io.Writer) PassphrasePrompt {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	return func(label string) ([]byte, error) {
		fmt.Fprint(out, label)
		defer fmt.Fprintln(out)
		return term.ReadPassword(fd)
	}
}
