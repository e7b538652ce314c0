package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/live-labs/sealbox/internal/storage"
	"github.com/live-labs/sealbox/secretbox"
)

const (
	VaultFile           = ".sealbox"
	MaxNameLength       = 255
	passwordCheckString = "sealbox-password-check"
)

var (
	ErrNotInitialized = errors.New("sealbox not initialized")
	ErrAlreadyExists  = errors.New("sealbox already exists")
	ErrWrongPassword  = errors.New("wrong password")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrInvalidName    = errors.New("invalid entry name")
	ErrKDFMismatch    = errors.New("vault was created with different KDF parameters")
)

// Vault manages a single encrypted entry store
type Vault struct {
	path string
}

// New creates a Vault handle for the given directory
func New(dir string) *Vault {
	return &Vault{path: filepath.Join(dir, VaultFile)}
}

// Path returns the vault file path
func (v *Vault) Path() string {
	return v.path
}

// ValidateName rejects entry names that would be unusable or confusing as
// bucket keys or CLI arguments.
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return ErrInvalidName
	}
	if strings.HasPrefix(name, "-") {
		return ErrInvalidName
	}
	return nil
}

// Init creates a new vault file with a fresh salt and a password check blob.
// The password buffer is zeroed before Init returns.
func (v *Vault) Init(password []byte) error {
	defer secretbox.Wipe(password)

	db, err := storage.Open(v.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyExists
	}

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	salt, err := secretbox.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := db.SetSalt(salt); err != nil {
		return fmt.Errorf("failed to store salt: %w", err)
	}
	if err := db.SetKDFParams(secretbox.KDFOpsLimit, secretbox.KDFMemLimit, secretbox.KDFThreads); err != nil {
		return fmt.Errorf("failed to store KDF parameters: %w", err)
	}

	check, err := secretbox.Encrypt([]byte(passwordCheckString), secretbox.Clone(password), salt)
	if err != nil {
		return fmt.Errorf("failed to encrypt password check: %w", err)
	}
	if err := db.StorePrivateBytes("check", []byte(check)); err != nil {
		return fmt.Errorf("failed to store password check: %w", err)
	}

	if _, err := db.GetOrCreateVaultID(); err != nil {
		return err
	}

	return nil
}

// open opens the vault database, failing with ErrNotInitialized when the
// vault file has never been created. The existence check matters: opening
// a bolt database creates the file, and read-only operations must not
// leave an empty vault behind.
func (v *Vault) open() (*storage.Storage, error) {
	if _, err := os.Stat(v.path); err != nil {
		return nil, ErrNotInitialized
	}
	db, err := storage.Open(v.path)
	if err != nil {
		return nil, ErrNotInitialized
	}
	initialized, err := db.IsInitialized()
	if err != nil || !initialized {
		db.Close()
		return nil, ErrNotInitialized
	}
	return db, nil
}

// loadSalt returns the stored salt after checking that the vault's recorded
// KDF costs match this binary's compiled-in costs.
func loadSalt(db *storage.Storage) ([]byte, error) {
	ops, memory, threads, err := db.GetKDFParams()
	if err != nil {
		return nil, err
	}
	if ops != secretbox.KDFOpsLimit || memory != secretbox.KDFMemLimit || threads != secretbox.KDFThreads {
		return nil, ErrKDFMismatch
	}
	return db.GetSalt()
}

// verify decrypts the password check blob, mapping an authentication
// failure to ErrWrongPassword. The password buffer is left intact.
func verify(db *storage.Storage, password, salt []byte) error {
	check, err := db.GetPrivateBytes("check")
	if err != nil {
		return fmt.Errorf("failed to read password check: %w", err)
	}

	plaintext, err := secretbox.Decrypt(string(check), secretbox.Clone(password), secretbox.Clone(salt))
	if err != nil {
		if errors.Is(err, secretbox.ErrAuthFailed) {
			return ErrWrongPassword
		}
		return err
	}
	defer secretbox.Wipe(plaintext)

	if string(plaintext) != passwordCheckString {
		return ErrWrongPassword
	}
	return nil
}

// VerifyPassword checks the passphrase against the vault without touching
// any entries. The password buffer is zeroed before returning.
func (v *Vault) VerifyPassword(password []byte) error {
	defer secretbox.Wipe(password)

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	salt, err := loadSalt(db)
	if err != nil {
		return err
	}
	return verify(db, password, salt)
}

// Put encrypts plaintext and stores it under name, overwriting any previous
// entry. The plaintext and password buffers are zeroed before Put returns.
func (v *Vault) Put(name string, plaintext, password []byte) error {
	defer secretbox.Wipe(plaintext)
	defer secretbox.Wipe(password)

	if err := ValidateName(name); err != nil {
		return err
	}

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	salt, err := loadSalt(db)
	if err != nil {
		return err
	}
	if err := verify(db, password, salt); err != nil {
		return err
	}

	wire, err := secretbox.Encrypt(secretbox.Clone(plaintext), secretbox.Clone(password), secretbox.Clone(salt))
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", name, err)
	}

	if err := db.PutEntry(name, wire); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return db.UpdateModified()
}

// Get decrypts and returns the entry stored under name. The password buffer
// is zeroed before Get returns; the returned plaintext belongs to the caller.
func (v *Vault) Get(name string, password []byte) ([]byte, error) {
	defer secretbox.Wipe(password)

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	salt, err := loadSalt(db)
	if err != nil {
		return nil, err
	}

	wire, found, err := db.GetEntry(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	plaintext, err := secretbox.Decrypt(wire, secretbox.Clone(password), secretbox.Clone(salt))
	if err != nil {
		if errors.Is(err, secretbox.ErrAuthFailed) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("failed to decrypt %s: %w", name, err)
	}
	return plaintext, nil
}

// List returns all entry names. No password is required.
func (v *Vault) List() ([]string, error) {
	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.ListEntries()
}

// Remove deletes the entry stored under name. No password is required;
// deleting ciphertext reveals nothing.
func (v *Vault) Remove(name string) error {
	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	existed, err := db.DeleteEntry(name)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return db.UpdateModified()
}

// ChangePassword re-encrypts every entry and the password check blob under
// a fresh salt and the new passphrase. Both password buffers are zeroed
// before returning.
func (v *Vault) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	defer secretbox.Wipe(oldPassword)
	defer secretbox.Wipe(newPassword)

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	oldSalt, err := loadSalt(db)
	if err != nil {
		return err
	}
	if err := verify(db, oldPassword, oldSalt); err != nil {
		return err
	}

	names, err := db.ListEntries()
	if err != nil {
		return err
	}

	// Decrypt everything with the old credentials before writing anything,
	// so a wrong entry aborts without a half-rekeyed vault.
	plaintexts := make(map[string][]byte, len(names))
	defer func() {
		for _, p := range plaintexts {
			secretbox.Wipe(p)
		}
	}()

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		wire, found, err := db.GetEntry(name)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		plaintext, err := secretbox.Decrypt(wire, secretbox.Clone(oldPassword), secretbox.Clone(oldSalt))
		if err != nil {
			return fmt.Errorf("failed to decrypt %s: %w", name, err)
		}
		plaintexts[name] = plaintext
	}

	newSalt, err := secretbox.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	check, err := secretbox.Encrypt([]byte(passwordCheckString), secretbox.Clone(newPassword), secretbox.Clone(newSalt))
	if err != nil {
		return fmt.Errorf("failed to encrypt password check: %w", err)
	}

	rekeyed := make(map[string]string, len(plaintexts))
	for name, plaintext := range plaintexts {
		if err := ctx.Err(); err != nil {
			return err
		}
		wire, err := secretbox.Encrypt(secretbox.Clone(plaintext), secretbox.Clone(newPassword), secretbox.Clone(newSalt))
		if err != nil {
			return fmt.Errorf("failed to re-encrypt %s: %w", name, err)
		}
		rekeyed[name] = wire
	}

	// A single transaction: either everything moves to the new salt or
	// nothing does. Partial writes would leave entries undecryptable.
	if err := db.Rekey(newSalt, "check", []byte(check), rekeyed); err != nil {
		return fmt.Errorf("failed to store rekeyed vault: %w", err)
	}
	return nil
}

// Compact reclaims disk space left behind by removed entries
func (v *Vault) Compact() error {
	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Compact()
}

// Status describes a vault without requiring a password
type Status struct {
	Entries  []string
	VaultID  string
	Modified string
}

// GetStatus returns the entry list and vault metadata. No password required.
func (v *Vault) GetStatus() (*Status, error) {
	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	names, err := db.ListEntries()
	if err != nil {
		return nil, err
	}

	status := &Status{Entries: names}
	if id, err := db.GetVaultID(); err == nil {
		status.VaultID = id
	}
	if modified, err := db.GetModified(); err == nil {
		status.Modified = modified.Format("2006-01-02 15:04:05")
	}
	return status, nil
}

// VaultID returns the stable identifier used as the keyring account name
func (v *Vault) VaultID() (string, error) {
	db, err := v.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetOrCreateVaultID()
}
