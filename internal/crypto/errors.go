// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrMalformedSecret is returned when a biometric secret is not valid hex
	// of the expected length.
	ErrMalformedSecret = errors.New("malformed biometric secret")

	// ErrAuthenticationFailed is returned when a ciphertext does not
	// authenticate: wrong key, corruption or tampering.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrBlobTooShort is returned when a blob cannot even hold a nonce and
	// an authentication tag.
	ErrBlobTooShort = errors.New("ciphertext too short")

	// ErrDecryptionFailed is returned by DecryptData for any failure to
	// recover the stored value.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeyLength is returned when an at-rest key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")
)
