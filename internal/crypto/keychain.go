// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/MKhiriev/go-face-lock/models"
)

const (
	saltSize = 16
	keySize  = 32
	// SealOverhead is the number of bytes Seal adds to a plaintext.
	SealOverhead = nonceSize + tagSize
	// SecretHexLen is the length of a well-formed biometric secret.
	SecretHexLen = 2 * sha256.Size

	nonceSize = 12
	tagSize   = 16
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	// Argon2id tuning parameters. Stored in the struct so tests can use
	// cheap settings.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32

	random io.Reader
}

// NewKeyChain constructs a [KeyChain] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChain() KeyChain {
	return &keyChain{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  keySize,
		random:       rand.Reader,
	}
}

// GenerateSalt implements [KeyChain].
func (k *keyChain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(k.random, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveAtRestKey implements [KeyChain].
func (k *keyChain) DeriveAtRestKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, k.argonTime, k.argonMemory, k.argonThreads, k.argonKeyLen)
}

// EncryptData implements [KeyChain]. The output is the Base64 (standard
// encoding) string of nonce (12 bytes) || ciphertext.
func (k *keyChain) EncryptData(value any, key []byte) (string, error) {
	// 1. Serialize to JSON
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	// 2. Build AES-GCM cipher from the at-rest key
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// 3. Generate a random nonce
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(k.random, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// 4. Encrypt: nonce || ciphertext
	blob := gcm.Seal(nonce, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptData implements [KeyChain]. target must be a non-nil pointer, as
// for [encoding/json.Unmarshal].
func (k *keyChain) DecryptData(encryptedB64 string, key []byte, target any) error {
	// 1. Decode base64 blob
	blob, err := base64.StdEncoding.DecodeString(encryptedB64)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %v", ErrDecryptionFailed, err)
	}

	// 2. Build AES-GCM cipher
	gcm, err := newGCM(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	// 3. Split nonce and ciphertext
	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize+gcm.Overhead() {
		return fmt.Errorf("%w: %v", ErrDecryptionFailed, ErrBlobTooShort)
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	// 4. Decrypt and verify auth tag. An error here means a wrong
	// passphrase or a damaged record.
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecryptionFailed, ErrAuthenticationFailed)
	}

	// 5. Unmarshal JSON into target
	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("%w: unmarshal data: %v", ErrDecryptionFailed, err)
	}

	return nil
}

// DeriveCipherKey implements [KeyChain]. The hex secret is decoded to its 32
// raw bytes and hashed once more with SHA-256; the digest is the AES-256 key.
// No salt and no randomness: the same secret must reopen files encrypted in
// earlier sessions.
func (k *keyChain) DeriveCipherKey(secret models.BiometricSecret) (models.CipherKey, error) {
	var key models.CipherKey

	if len(secret) != SecretHexLen {
		return key, fmt.Errorf("%w: length %d", ErrMalformedSecret, len(secret))
	}
	raw, err := hex.DecodeString(string(secret))
	if err != nil {
		return key, fmt.Errorf("%w: %v", ErrMalformedSecret, err)
	}

	key = sha256.Sum256(raw)
	return key, nil
}

// Seal implements [KeyChain].
func (k *keyChain) Seal(key models.CipherKey, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key[:])
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(k.random, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// GCM appends the tag; move it in front of the payload.
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	body, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, SealOverhead+len(body))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, body...)
	return blob, nil
}

// Open implements [KeyChain].
func (k *keyChain) Open(key models.CipherKey, blob []byte) ([]byte, error) {
	if len(blob) < SealOverhead {
		return nil, ErrBlobTooShort
	}

	gcm, err := newGCM(key[:])
	if err != nil {
		return nil, err
	}

	nonce := blob[:nonceSize]
	tag := blob[nonceSize:SealOverhead]
	body := blob[SealOverhead:]

	sealed := make([]byte, 0, len(body)+tagSize)
	sealed = append(sealed, body...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
