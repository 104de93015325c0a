package crypto

import "github.com/MKhiriev/go-face-lock/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_mock.go -package=mock

// KeyChain owns every cryptographic primitive of the application. It knows
// nothing about cameras, databases or files.
//
// Two key hierarchies pass through it:
//
//	at-rest:  salt = GenerateSalt()                         (once per store)
//	          key  = DeriveAtRestKey(passphrase, salt)      (Argon2id)
//	          blob = EncryptData(value, key)                (stored record)
//
//	files:    key  = DeriveCipherKey(secret)                (SHA-256 of the hex secret)
//	          blob = Seal(key, plaintext)                   (nonce || tag || ciphertext)
type KeyChain interface {
	// GenerateSalt returns 16 random bytes for the at-rest key derivation.
	// The salt is not secret and is stored next to the record.
	GenerateSalt() ([]byte, error)

	// DeriveAtRestKey derives the 256-bit store key from an externally
	// supplied passphrase and the store salt using Argon2id.
	DeriveAtRestKey(passphrase, salt []byte) []byte

	// EncryptData serializes value to JSON and encrypts it with key using
	// AES-256-GCM. The result is base64(nonce || ciphertext).
	EncryptData(value any, key []byte) (string, error)

	// DecryptData reverses EncryptData into target. Any failure to decode,
	// authenticate or unmarshal wraps [ErrDecryptionFailed].
	DecryptData(encryptedB64 string, key []byte, target any) error

	// DeriveCipherKey turns a biometric secret into the file cipher key.
	// Returns [ErrMalformedSecret] unless secret is 64 hex characters.
	DeriveCipherKey(secret models.BiometricSecret) (models.CipherKey, error)

	// Seal encrypts plaintext with a fresh random nonce. The blob layout is
	// nonce (12 bytes) || tag (16 bytes) || ciphertext.
	Seal(key models.CipherKey, plaintext []byte) ([]byte, error)

	// Open authenticates and decrypts a blob produced by Seal. Returns
	// [ErrBlobTooShort] or [ErrAuthenticationFailed].
	Open(key models.CipherKey, blob []byte) ([]byte, error)
}
