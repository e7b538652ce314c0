// Package storage provides the BBolt database interface for sealbox vaults.
//
// Database structure uses three buckets:
//   - config: KDF salt and cost snapshot, timestamps, vault ID (unencrypted)
//   - entries: entry name -> wire ciphertext string
//   - private: encrypted password verification blob
//
// The unencrypted config bucket lets sealbox ls work without a password,
// and the salt is stored there because a salt is public by definition.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
