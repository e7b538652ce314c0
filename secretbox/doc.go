// Package secretbox provides passphrase-based authenticated encryption.
//
// Encryption uses XChaCha20-Poly1305 with:
//   - 32-byte key derived from the passphrase via Argon2id
//   - 24-byte random nonce per encryption operation
//   - Authenticated encryption prevents tampering
//
// Key derivation uses Argon2id with fixed interactive cost parameters
// (2 passes, 64 MiB, single lane) and a 16-byte salt.
//
// The wire format is the lowercase hex encoding of nonce || ciphertext || tag.
// That string is the only value meant to be stored or transmitted.
//
// Memory safety: Encrypt and Decrypt zero every secret-bearing buffer they
// own before returning, and consume (zero) the caller-supplied passphrase,
// salt and plaintext buffers on every exit path. Pass copies when a buffer
// is needed after the call.
package secretbox
