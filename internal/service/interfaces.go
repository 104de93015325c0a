package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-face-lock/models"
)

// EnrollmentService captures a new identity from the camera and replaces the
// stored enrollment with it.
type EnrollmentService interface {
	// Enroll runs one enrollment session. It opens the camera, collects
	// opts.Count samples, each one accepted after the face stayed in view for
	// opts.StabilityWindow, derives the biometric secret and replaces the
	// stored record in one step.
	//
	// Cancellation and an unavailable camera are reported through the result
	// status and never persist anything. A non-nil error means the record
	// could not be committed.
	Enroll(ctx context.Context, opts EnrollOptions) (models.EnrollmentResult, error)

	// Enrolled reports whether an active enrollment is stored. It does not
	// decrypt the record.
	Enrolled(ctx context.Context) (bool, error)
}

// MatchingService verifies a live face against the stored enrollment.
type MatchingService interface {
	// Verify loads the active record and compares live samples against every
	// stored fingerprint until one is strictly closer than tolerance, the
	// timeout elapses, or ctx is cancelled. An empty store returns
	// OutcomeNoBiometricData without opening the camera.
	//
	// events, when non-nil, receives an EventDistance for evaluated faces.
	// Storage failures are returned as errors with a zero Outcome.
	Verify(ctx context.Context, tolerance float64, timeout time.Duration, events chan<- models.Event) (models.Outcome, error)
}

// FileCipherService encrypts and decrypts files on disk with a cipher key.
// It never overwrites an existing file and never leaves a partial output
// behind.
type FileCipherService interface {
	// Encrypt writes path+".enc" (or a disambiguated sibling) and returns
	// the output path.
	Encrypt(ctx context.Context, path string, key models.CipherKey) (string, error)

	// Decrypt writes the plaintext of a ".enc" file next to it and returns
	// the output path. Returns ErrNotCiphertext or ErrAuthenticationFailed.
	Decrypt(ctx context.Context, path string, key models.CipherKey) (string, error)

	// Process applies mode to path. FileModeAuto decrypts ".enc" files and
	// encrypts the rest. The result carries the applied mode.
	Process(ctx context.Context, path string, key models.CipherKey, mode models.FileMode) models.FileResult
}

// SessionService holds the file cipher key between an unlock and a lock.
type SessionService interface {
	// Unlock verifies the live face and, on a match, derives and keeps the
	// cipher key. The outcome is returned for every result; the session is
	// unlocked only when it is OutcomeMatched.
	Unlock(ctx context.Context, events chan<- models.Event) (models.Outcome, error)

	// Lock zeroes the key. Safe to call on a locked session.
	Lock()

	// Unlocked reports whether a key is held.
	Unlocked() bool

	// ProcessFiles runs the file batch with the session key. Returns
	// ErrLocked when no key is held.
	ProcessFiles(ctx context.Context, paths []string, mode models.FileMode, observe func(models.FileResult)) ([]models.FileResult, error)

	// LockIfIdle locks the session when it has been unlocked and idle for at
	// least the configured idle period. Reports whether it locked.
	LockIfIdle(now time.Time) bool
}
