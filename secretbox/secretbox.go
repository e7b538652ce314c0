package secretbox

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	SaltLength  = 16                          // Argon2id salt size in bytes
	KeyLength   = chacha20poly1305.KeySize    // XChaCha20-Poly1305 key size
	NonceLength = chacha20poly1305.NonceSizeX // XChaCha20-Poly1305 nonce size
	TagLength   = chacha20poly1305.Overhead   // Poly1305 authentication tag size
)

var (
	ErrSaltLength    = errors.New("secretbox: salt must be exactly SaltLength bytes")
	ErrDecode        = errors.New("secretbox: ciphertext is not valid hex")
	ErrNonceLength   = errors.New("secretbox: ciphertext too short to contain a nonce")
	ErrAuthFailed    = errors.New("secretbox: decryption failed")
	ErrKeyDerivation = errors.New("secretbox: key derivation failed")
	ErrEncrypt       = errors.New("secretbox: encryption failed")
)

// GenerateSalt returns SaltLength cryptographically secure random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Encrypt seals plaintext under a key derived from (key, salt) and returns
// the wire ciphertext: lowercase hex of nonce || ciphertext || tag.
//
// A fresh random nonce is generated on every call, so encrypting the same
// inputs twice yields different wire strings that both decrypt to the same
// plaintext. The plaintext, key and salt buffers are zeroed before Encrypt
// returns, on every exit path.
func Encrypt(plaintext, key, salt []byte) (string, error) {
	defer Wipe(plaintext)

	derived, err := deriveKey(key, salt)
	if err != nil {
		return "", err
	}
	defer Wipe(derived)

	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	nonce := make([]byte, NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: nonce generation: %v", ErrEncrypt, err)
	}
	defer Wipe(nonce)

	sealed := aead.Seal(nil, nonce, plaintext, nil)

	wire := make([]byte, NonceLength+len(sealed))
	copy(wire, nonce)
	copy(wire[NonceLength:], sealed)

	return hex.EncodeToString(wire), nil
}

// Decrypt reverses Encrypt: it derives the key from (key, salt), decodes the
// wire ciphertext, splits off the nonce and opens the sealed remainder,
// verifying the authentication tag.
//
// Any tampering with the ciphertext, or a key or salt that differs from the
// ones used at encryption time, fails with ErrAuthFailed; the causes are
// deliberately not distinguished. The key and salt buffers are zeroed before
// Decrypt returns, on every exit path.
func Decrypt(ciphertext string, key, salt []byte) ([]byte, error) {
	derived, err := deriveKey(key, salt)
	if err != nil {
		return nil, err
	}
	defer Wipe(derived)

	decoded, err := hex.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer Wipe(decoded)

	if len(decoded) < NonceLength {
		return nil, ErrNonceLength
	}

	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}

	nonce := decoded[:NonceLength]
	sealed := decoded[NonceLength:]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}
