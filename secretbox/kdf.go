package secretbox

import (
	"golang.org/x/crypto/argon2"
)

// Argon2id interactive cost parameters. These are fixed: encrypt and decrypt
// must run with identical costs to derive the same key from a passphrase.
const (
	KDFOpsLimit = 2         // passes over memory
	KDFMemLimit = 64 * 1024 // memory in KiB (64 MiB)
	KDFThreads  = 1
)

// deriveKey derives a KeyLength-byte key from passphrase and salt using
// Argon2id. The same (passphrase, salt) pair always produces the same key.
// Both input buffers are zeroed before the function returns, whether it
// succeeds or fails.
func deriveKey(passphrase, salt []byte) ([]byte, error) {
	defer Wipe(passphrase)
	defer Wipe(salt)

	if len(salt) != SaltLength {
		return nil, ErrSaltLength
	}

	return argon2.IDKey(passphrase, salt, KDFOpsLimit, KDFMemLimit, KDFThreads, KeyLength), nil
}
