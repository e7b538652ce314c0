// Package vault provides the sealbox vault operations on top of the
// secretbox core.
//
// A vault is a single BBolt file holding named encrypted entries. The salt
// is generated once at Init and stored unencrypted alongside the entries;
// every entry is a wire ciphertext string produced by secretbox.Encrypt with
// that salt and the vault passphrase. A small encrypted check blob allows
// the passphrase to be verified before touching entries.
//
// Operations include:
//   - Init: create a new vault with a fresh salt and password check blob
//   - Put/Get/Remove/List: manage named entries
//   - ChangePassword: re-encrypt every entry under a new passphrase and salt
//   - Diff: unified diff of a decrypted entry against a local file
//
// secretbox consumes (zeroes) its input buffers, so this package owns the
// copying of the stored salt and the caller's passphrase for each call.
package vault
