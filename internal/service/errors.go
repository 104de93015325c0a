package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrLocked is returned by file operations while no cipher key is held.
	ErrLocked = errors.New("session is locked")

	// ErrNotCiphertext is returned when a file to decrypt does not carry the
	// ciphertext suffix or is too short to hold a nonce and a tag.
	ErrNotCiphertext = errors.New("not a ciphertext file")
	// ErrAuthenticationFailed is returned when a ciphertext file does not
	// authenticate under the session key.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotRegularFile       = errors.New("not a regular file")
	ErrNoOutputName         = errors.New("no free output file name")

	ErrSourceStopped = errors.New("frame source stopped delivering frames")
)
