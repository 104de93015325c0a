// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// FileMode selects the operation applied to a file.
type FileMode int

const (
	// FileModeAuto decrypts files carrying the ciphertext suffix and
	// encrypts everything else.
	FileModeAuto FileMode = iota
	FileModeEncrypt
	FileModeDecrypt
)

func (m FileMode) String() string {
	switch m {
	case FileModeEncrypt:
		return "encrypt"
	case FileModeDecrypt:
		return "decrypt"
	default:
		return "auto"
	}
}

// FileResult is the per-file report of a batch operation.
type FileResult struct {
	// Index is the position of the file in the submitted batch.
	Index  int
	Source string
	Output string
	// Mode is the operation that was actually applied (never FileModeAuto).
	Mode FileMode
	Err  error
}

// OK reports whether the operation succeeded.
func (r FileResult) OK() bool {
	return r.Err == nil
}
