// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/go-face-lock/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeyChain() *keyChain {
	return &keyChain{argonTime: 1, argonMemory: 8 * 1024, argonThreads: 1, argonKeyLen: keySize, random: rand.Reader}
}

func testSecret(seed string) models.BiometricSecret {
	sum := sha256.Sum256([]byte(seed))
	return models.BiometricSecret(hex.EncodeToString(sum[:]))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	kc := NewKeyChain()

	s1, err := kc.GenerateSalt()
	require.NoError(t, err)
	s2, err := kc.GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, s1, 16)
	assert.Len(t, s2, 16)
	assert.NotEqual(t, s1, s2)
}

func TestGenerateSalt_RandomFailure(t *testing.T) {
	kc := newTestKeyChain()
	kc.random = failingReader{}

	_, err := kc.GenerateSalt()
	assert.Error(t, err)
}

func TestDeriveAtRestKey_DeterministicAndSalted(t *testing.T) {
	kc := newTestKeyChain()
	pass := []byte("correct horse battery staple")
	salt1 := bytes.Repeat([]byte{0x01}, 16)
	salt2 := bytes.Repeat([]byte{0x02}, 16)

	k1 := kc.DeriveAtRestKey(pass, salt1)
	k2 := kc.DeriveAtRestKey(pass, salt1)
	k3 := kc.DeriveAtRestKey(pass, salt2)

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestEncryptDecryptData_RoundTrip(t *testing.T) {
	kc := newTestKeyChain()
	key := bytes.Repeat([]byte{0x2A}, 32)
	scans := []models.FingerprintVector{{1.5, 0.95}, {1.51, 0.94}}

	enc, err := kc.EncryptData(scans, key)
	require.NoError(t, err)
	assert.NotContains(t, enc, "1.5")

	var got []models.FingerprintVector
	require.NoError(t, kc.DecryptData(enc, key, &got))
	assert.Equal(t, scans, got)
}

func TestDecryptData_Failures(t *testing.T) {
	kc := newTestKeyChain()
	key := bytes.Repeat([]byte{0x2A}, 32)
	enc, err := kc.EncryptData("secret", key)
	require.NoError(t, err)

	tests := []struct {
		name string
		blob string
		key  []byte
	}{
		{name: "wrong key", blob: enc, key: bytes.Repeat([]byte{0x2B}, 32)},
		{name: "not base64", blob: "%%%", key: key},
		{name: "too short", blob: "AAAA", key: key},
		{name: "invalid key length", blob: enc, key: []byte("short")},
		{name: "truncated", blob: enc[:len(enc)-8], key: key},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out string
			err := kc.DecryptData(tt.blob, tt.key, &out)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestDeriveCipherKey(t *testing.T) {
	kc := NewKeyChain()
	secret := testSecret("face")

	k1, err := kc.DeriveCipherKey(secret)
	require.NoError(t, err)
	k2, err := kc.DeriveCipherKey(secret)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	raw, _ := hex.DecodeString(string(secret))
	assert.Equal(t, models.CipherKey(sha256.Sum256(raw)), k1)

	other, err := kc.DeriveCipherKey(testSecret("another face"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, other)
}

func TestDeriveCipherKey_Malformed(t *testing.T) {
	kc := NewKeyChain()

	tests := []struct {
		name   string
		secret models.BiometricSecret
	}{
		{name: "empty", secret: ""},
		{name: "too short", secret: "abcd"},
		{name: "not hex", secret: models.BiometricSecret(strings.Repeat("zz", 32))},
		{name: "too long", secret: testSecret("x") + "00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kc.DeriveCipherKey(tt.secret)
			assert.ErrorIs(t, err, ErrMalformedSecret)
		})
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	kc := NewKeyChain()

	payloads := [][]byte{
		[]byte("x"),
		[]byte("hello biometric world"),
		bytes.Repeat([]byte{0x00, 0xFF}, 4096),
	}
	for i := 0; i < 8; i++ {
		key, err := kc.DeriveCipherKey(testSecret(string(rune('a' + i))))
		require.NoError(t, err)
		for _, p := range payloads {
			blob, err := kc.Seal(key, p)
			require.NoError(t, err)
			assert.Len(t, blob, len(p)+SealOverhead)

			got, err := kc.Open(key, blob)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}
	}
}

func TestSeal_NonceRandomness(t *testing.T) {
	kc := NewKeyChain()
	key, err := kc.DeriveCipherKey(testSecret("face"))
	require.NoError(t, err)

	b1, err := kc.Seal(key, []byte("same plaintext"))
	require.NoError(t, err)
	b2, err := kc.Seal(key, []byte("same plaintext"))
	require.NoError(t, err)

	assert.NotEqual(t, b1[:nonceSize], b2[:nonceSize])
	assert.NotEqual(t, b1, b2)
}

func TestOpen_DetectsEverySingleByteFlip(t *testing.T) {
	kc := NewKeyChain()
	key, err := kc.DeriveCipherKey(testSecret("face"))
	require.NoError(t, err)

	blob, err := kc.Seal(key, []byte("attack at dawn"))
	require.NoError(t, err)

	for i := range blob {
		tampered := append([]byte(nil), blob...)
		tampered[i] ^= 0x01

		got, err := kc.Open(key, tampered)
		assert.ErrorIs(t, err, ErrAuthenticationFailed, "byte %d", i)
		assert.Nil(t, got, "byte %d", i)
	}
}

func TestOpen_WrongKeyAndShortBlob(t *testing.T) {
	kc := NewKeyChain()
	key, _ := kc.DeriveCipherKey(testSecret("face"))
	wrong, _ := kc.DeriveCipherKey(testSecret("impostor"))

	blob, err := kc.Seal(key, []byte("data"))
	require.NoError(t, err)

	_, err = kc.Open(wrong, blob)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = kc.Open(key, blob[:SealOverhead-1])
	assert.ErrorIs(t, err, ErrBlobTooShort)
}
