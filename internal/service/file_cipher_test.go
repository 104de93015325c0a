// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-face-lock/internal/biometric"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/mock"
	"github.com/MKhiriev/go-face-lock/models"
)

func testCipherKey(t *testing.T, r1, r2 float64) models.CipherKey {
	t.Helper()
	key, err := crypto.NewKeyChain().DeriveCipherKey(biometric.DeriveSecret(models.FingerprintVector{r1, r2}))
	require.NoError(t, err)
	return key
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func newFileCipher() FileCipherService {
	return NewFileCipherService(crypto.NewKeyChain(), logger.Nop())
}

func TestFileCipher_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := []byte("the quick brown fox\x00\x01\x02")
	src := writeFile(t, dir, "a.txt", content)
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()

	enc, err := svc.Encrypt(context.Background(), src, key)
	require.NoError(t, err)
	assert.Equal(t, src+".enc", enc)

	blob, err := os.ReadFile(enc)
	require.NoError(t, err)
	assert.Len(t, blob, len(content)+crypto.SealOverhead)
	assert.NotContains(t, string(blob), "quick brown fox")

	// a.txt still exists, so the plaintext goes to a_decrypted.txt
	dec, err := svc.Decrypt(context.Background(), enc, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_decrypted.txt"), dec)

	got, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, content, original)
}

func TestFileCipher_DecryptToNaturalName(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "report.pdf", []byte("%PDF"))
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()

	enc, err := svc.Encrypt(context.Background(), src, key)
	require.NoError(t, err)
	require.NoError(t, os.Remove(src))

	dec, err := svc.Decrypt(context.Background(), enc, key)
	require.NoError(t, err)
	assert.Equal(t, src, dec)
}

func TestFileCipher_NoOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", []byte("payload"))
	existing := writeFile(t, dir, "a.txt.enc", []byte("someone else's file"))
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()

	first, err := svc.Encrypt(context.Background(), src, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_1.txt.enc"), first)

	second, err := svc.Encrypt(context.Background(), src, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_2.txt.enc"), second)

	untouched, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "someone else's file", string(untouched))

	enc := filepath.Join(dir, "b.txt.enc")
	require.NoError(t, os.Rename(first, enc))
	writeFile(t, dir, "b.txt", []byte("keep me"))

	d1, err := svc.Decrypt(context.Background(), enc, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b_decrypted.txt"), d1)

	d2, err := svc.Decrypt(context.Background(), enc, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b_decrypted_2.txt"), d2)

	kept, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(kept))
}

func TestFileCipher_NotCiphertext(t *testing.T) {
	dir := t.TempDir()
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{name: "missing suffix", file: "plain.txt", data: []byte("hello world, this is long enough")},
		{name: "too short", file: "short.enc", data: []byte("abc")},
		{name: "bare suffix", file: ".enc", data: make([]byte, 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.data)
			before := dirNames(t, dir)

			out, err := svc.Decrypt(context.Background(), path, key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotCiphertext)
			assert.Empty(t, out)
			assert.Equal(t, before, dirNames(t, dir))
		})
	}
}

func TestFileCipher_TamperAndWrongKey(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "secret.txt", []byte("attack at dawn"))
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()

	enc, err := svc.Encrypt(context.Background(), src, key)
	require.NoError(t, err)
	blob, err := os.ReadFile(enc)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		before := dirNames(t, dir)
		_, err := svc.Decrypt(context.Background(), enc, testCipherKey(t, 1.4, 0.9))
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.Equal(t, before, dirNames(t, dir))
	})

	for _, i := range []int{0, 11, 12, 27, 28, len(blob) - 1} {
		tampered := append([]byte(nil), blob...)
		tampered[i] ^= 0x01
		path := writeFile(t, dir, "tampered.txt.enc", tampered)
		before := dirNames(t, dir)

		_, err := svc.Decrypt(context.Background(), path, key)
		assert.ErrorIs(t, err, ErrAuthenticationFailed, "byte %d", i)
		assert.Equal(t, before, dirNames(t, dir), "byte %d", i)
	}
}

func TestFileCipher_CancelledLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", []byte("payload"))
	before := dirNames(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFileCipher().Encrypt(ctx, src, testCipherKey(t, 1.5, 0.95))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, dirNames(t, dir))
}

func TestWriteNoClobber_CancelAfterReservationCleansUp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")

	ctx, cancel := context.WithCancel(context.Background())
	names := func(int) string {
		// cancel once the name is reserved, before any data is written
		cancel()
		return target
	}

	out, err := writeNoClobber(ctx, names, make([]byte, 3*writeChunkSize))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
	assert.Empty(t, dirNames(t, dir))
}

func TestFileCipher_SealFailureLeavesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	keyChain := mock.NewMockKeyChain(ctrl)
	keyChain.EXPECT().Seal(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", []byte("payload"))
	before := dirNames(t, dir)

	_, err := NewFileCipherService(keyChain, logger.Nop()).Encrypt(context.Background(), src, models.CipherKey{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, before, dirNames(t, dir))
}

func TestFileCipher_OutputPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", []byte("payload"))

	enc, err := newFileCipher().Encrypt(context.Background(), src, testCipherKey(t, 1.5, 0.95))
	require.NoError(t, err)

	info, err := os.Stat(enc)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileCipher_Errors(t *testing.T) {
	dir := t.TempDir()
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()

	_, err := svc.Encrypt(context.Background(), dir, key)
	assert.ErrorIs(t, err, ErrNotRegularFile)

	_, err = svc.Encrypt(context.Background(), filepath.Join(dir, "missing.txt"), key)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileCipher_ProcessAutoMode(t *testing.T) {
	dir := t.TempDir()
	key := testCipherKey(t, 1.5, 0.95)
	svc := newFileCipher()
	src := writeFile(t, dir, "notes.md", []byte("# notes"))

	res := svc.Process(context.Background(), src, key, models.FileModeAuto)
	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, models.FileModeEncrypt, res.Mode)
	assert.Equal(t, src+".enc", res.Output)

	res = svc.Process(context.Background(), res.Output, key, models.FileModeAuto)
	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, models.FileModeDecrypt, res.Mode)
	assert.Equal(t, filepath.Join(dir, "notes_decrypted.md"), res.Output)

	res = svc.Process(context.Background(), src, key, models.FileModeDecrypt)
	assert.ErrorIs(t, res.Err, ErrNotCiphertext)
	assert.Equal(t, models.FileModeDecrypt, res.Mode)
}

func TestCandidateNames(t *testing.T) {
	enc := encryptedName(filepath.Join("d", "a.txt"))
	assert.Equal(t, filepath.Join("d", "a.txt.enc"), enc(0))
	assert.Equal(t, filepath.Join("d", "a_1.txt.enc"), enc(1))
	assert.Equal(t, filepath.Join("d", "a_2.txt.enc"), enc(2))

	dot := encryptedName(".bashrc")
	assert.Equal(t, ".bashrc.enc", dot(0))
	assert.Equal(t, ".bashrc_1.enc", dot(1))

	dec, err := decryptedName(filepath.Join("d", "a.txt.enc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("d", "a.txt"), dec(0))
	assert.Equal(t, filepath.Join("d", "a_decrypted.txt"), dec(1))
	assert.Equal(t, filepath.Join("d", "a_decrypted_2.txt"), dec(2))

	_, err = decryptedName("a.txt")
	assert.ErrorIs(t, err, ErrNotCiphertext)
}
