// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-face-lock/internal/app"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/models"
)

const (
	// CiphertextSuffix marks encrypted files.
	CiphertextSuffix = ".enc"

	decryptedMarker  = "_decrypted"
	maxNameAttempts  = 1000
	writeChunkSize   = 1 << 20
	outputPermission = 0o600
)

type fileCipherService struct {
	keyChain crypto.KeyChain
	logger   *logger.Logger
}

func NewFileCipherService(keyChain crypto.KeyChain, logger *logger.Logger) FileCipherService {
	return &fileCipherService{keyChain: keyChain, logger: logger}
}

func (s *fileCipherService) Encrypt(ctx context.Context, path string, key models.CipherKey) (string, error) {
	plain, err := readInputFile(path)
	if err != nil {
		return "", err
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}

	blob, err := s.keyChain.Seal(key, plain)
	if err != nil {
		return "", fmt.Errorf("seal %s: %w", path, err)
	}

	out, err := writeNoClobber(ctx, encryptedName(path), blob)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("file", path).Str("output", out).Msg(app.EncryptedLine(path, out))
	return out, nil
}

func (s *fileCipherService) Decrypt(ctx context.Context, path string, key models.CipherKey) (string, error) {
	names, err := decryptedName(path)
	if err != nil {
		return "", err
	}
	blob, err := readInputFile(path)
	if err != nil {
		return "", err
	}
	if len(blob) < crypto.SealOverhead {
		return "", fmt.Errorf("%w: %s is too short", ErrNotCiphertext, path)
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}

	plain, err := s.keyChain.Open(key, blob)
	switch {
	case errors.Is(err, crypto.ErrBlobTooShort):
		return "", fmt.Errorf("%w: %s", ErrNotCiphertext, path)
	case errors.Is(err, crypto.ErrAuthenticationFailed):
		return "", fmt.Errorf("%w: %s", ErrAuthenticationFailed, path)
	case err != nil:
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	out, err := writeNoClobber(ctx, names, plain)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("file", path).Str("output", out).Msg(app.DecryptedLine(path, out))
	return out, nil
}

func (s *fileCipherService) Process(ctx context.Context, path string, key models.CipherKey, mode models.FileMode) models.FileResult {
	if mode == models.FileModeAuto {
		mode = models.FileModeEncrypt
		if IsCiphertextName(path) {
			mode = models.FileModeDecrypt
		}
	}

	res := models.FileResult{Source: path, Mode: mode}
	if mode == models.FileModeDecrypt {
		res.Output, res.Err = s.Decrypt(ctx, path, key)
	} else {
		res.Output, res.Err = s.Encrypt(ctx, path, key)
	}
	return res
}

// IsCiphertextName reports whether path carries the ciphertext suffix.
func IsCiphertextName(path string) bool {
	return strings.HasSuffix(path, CiphertextSuffix) && len(filepath.Base(path)) > len(CiphertextSuffix)
}

// candidateNames yields the i-th output name to try, starting at 0.
type candidateNames func(i int) string

// encryptedName yields a.txt.enc, a_1.txt.enc, a_2.txt.enc, ...
func encryptedName(path string) candidateNames {
	dir, base := filepath.Split(path)
	stem, ext := splitExt(base)
	return func(i int) string {
		if i == 0 {
			return path + CiphertextSuffix
		}
		return filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext+CiphertextSuffix)
	}
}

// decryptedName yields a.txt, a_decrypted.txt, a_decrypted_2.txt, ... for
// a.txt.enc.
func decryptedName(path string) (candidateNames, error) {
	if !IsCiphertextName(path) {
		return nil, fmt.Errorf("%w: %s has no %s suffix", ErrNotCiphertext, path, CiphertextSuffix)
	}
	natural := strings.TrimSuffix(path, CiphertextSuffix)
	dir, base := filepath.Split(natural)
	stem, ext := splitExt(base)
	return func(i int) string {
		switch i {
		case 0:
			return natural
		case 1:
			return filepath.Join(dir, stem+decryptedMarker+ext)
		default:
			return filepath.Join(dir, stem+decryptedMarker+"_"+strconv.Itoa(i)+ext)
		}
	}, nil
}

// splitExt splits the last extension off base. Dotfiles keep their name as
// the stem.
func splitExt(base string) (string, string) {
	ext := filepath.Ext(base)
	if ext == base {
		return base, ""
	}
	return strings.TrimSuffix(base, ext), ext
}

func readInputFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeNoClobber reserves the first free candidate with O_EXCL, writes data
// to a temporary file in the same directory and renames it over the
// reservation. On any failure, cancellation included, both files are removed.
func writeNoClobber(ctx context.Context, names candidateNames, data []byte) (out string, err error) {
	out, err = reserveName(names)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*.tmp")
	if err != nil {
		_ = os.Remove(out)
		return "", fmt.Errorf("create temp file for %s: %w", out, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			_ = os.Remove(out)
			out = ""
		}
	}()

	if err = tmp.Chmod(outputPermission); err != nil {
		return out, fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	for off := 0; off < len(data); off += writeChunkSize {
		if err = ctx.Err(); err != nil {
			return out, err
		}
		end := min(off+writeChunkSize, len(data))
		if _, err = tmp.Write(data[off:end]); err != nil {
			return out, fmt.Errorf("write %s: %w", tmpName, err)
		}
	}
	if err = tmp.Sync(); err != nil {
		return out, fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return out, fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = ctx.Err(); err != nil {
		return out, err
	}
	if err = os.Rename(tmpName, out); err != nil {
		return out, fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return out, nil
}

func reserveName(names candidateNames) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name := names(i)
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, outputPermission)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve %s: %w", name, err)
		}
		if err = f.Close(); err != nil {
			_ = os.Remove(name)
			return "", fmt.Errorf("reserve %s: %w", name, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("%w after %d attempts for %s", ErrNoOutputName, maxNameAttempts, names(0))
}
