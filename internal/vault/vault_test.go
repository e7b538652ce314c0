package vault

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/live-labs/sealbox/internal/storage"
	"github.com/live-labs/sealbox/secretbox"
)

func pw() []byte { return []byte("test123") }

func initVault(t *testing.T) *Vault {
	t.Helper()
	v := New(t.TempDir())
	if err := v.Init(pw()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return v
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	v := New(dir)

	if err := v.Init(pw()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := v.Init(pw()); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, VaultFile)); err != nil {
		t.Errorf("Vault file should exist: %v", err)
	}
}

func TestNotInitialized(t *testing.T) {
	dir := t.TempDir()
	v := New(dir)

	if _, err := v.List(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("List: expected ErrNotInitialized, got %v", err)
	}
	if _, err := v.GetStatus(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetStatus: expected ErrNotInitialized, got %v", err)
	}
	if _, err := v.Get("name", pw()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Get: expected ErrNotInitialized, got %v", err)
	}
	if err := v.Compact(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Compact: expected ErrNotInitialized, got %v", err)
	}
	if _, err := v.VaultID(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("VaultID: expected ErrNotInitialized, got %v", err)
	}

	// None of the above may leave an empty vault file behind.
	if _, err := os.Stat(filepath.Join(dir, VaultFile)); !os.IsNotExist(err) {
		t.Errorf("Vault file should not exist, stat returned %v", err)
	}
}

func TestPutGetRemove(t *testing.T) {
	v := initVault(t)

	if err := v.Put("api-token", []byte("s3cret-value"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Put("other", []byte("another"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := v.Get("api-token", pw())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte("s3cret-value")) {
		t.Errorf("Get mismatch: got %q", got)
	}

	names, err := v.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(names))
	}

	if err := v.Remove("api-token"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := v.Get("api-token", pw()); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
	if err := v.Remove("api-token"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound on double remove, got %v", err)
	}
}

func TestPutOverwrites(t *testing.T) {
	v := initVault(t)

	if err := v.Put("name", []byte("v1"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Put("name", []byte("v2"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := v.Get("name", pw())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Expected overwritten value, got %q", got)
	}
}

func TestWrongPassword(t *testing.T) {
	v := initVault(t)

	if err := v.Put("name", []byte("value"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := v.VerifyPassword([]byte("nope")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("VerifyPassword: expected ErrWrongPassword, got %v", err)
	}
	if err := v.Put("other", []byte("x"), []byte("nope")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Put: expected ErrWrongPassword, got %v", err)
	}
	if _, err := v.Get("name", []byte("nope")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Get: expected ErrWrongPassword, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	v := initVault(t)

	if err := v.Put("a", []byte("alpha"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Put("b", []byte("beta"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := v.ChangePassword(context.Background(), []byte("bad"), []byte("new456")); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("Expected ErrWrongPassword, got %v", err)
	}
	if err := v.ChangePassword(context.Background(), pw(), []byte("new456")); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := v.Get("a", pw()); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Old password should be rejected, got %v", err)
	}

	got, err := v.Get("a", []byte("new456"))
	if err != nil {
		t.Fatalf("Get with new password failed: %v", err)
	}
	if string(got) != "alpha" {
		t.Errorf("Entry mismatch after rekey: got %q", got)
	}
	got, err = v.Get("b", []byte("new456"))
	if err != nil {
		t.Fatalf("Get with new password failed: %v", err)
	}
	if string(got) != "beta" {
		t.Errorf("Entry mismatch after rekey: got %q", got)
	}
}

func TestKDFMismatch(t *testing.T) {
	v := initVault(t)
	if err := v.Put("name", []byte("value"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A vault recorded with different costs must be refused before any key
	// derivation. A parallelism change alone is enough to alter the key.
	db, err := storage.Open(v.Path())
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	if err := db.SetKDFParams(secretbox.KDFOpsLimit, secretbox.KDFMemLimit, secretbox.KDFThreads+1); err != nil {
		t.Fatalf("Failed to set KDF params: %v", err)
	}
	db.Close()

	if _, err := v.Get("name", pw()); !errors.Is(err, ErrKDFMismatch) {
		t.Errorf("Get: expected ErrKDFMismatch, got %v", err)
	}
	if err := v.VerifyPassword(pw()); !errors.Is(err, ErrKDFMismatch) {
		t.Errorf("VerifyPassword: expected ErrKDFMismatch, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"a", "api-token", "path/like/name", "name.with.dots"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) should pass, got %v", name, err)
		}
	}

	invalid := []string{"", "-flag", "nul\x00byte", "new\nline", string(make([]byte, MaxNameLength+1))}
	for _, name := range invalid {
		if err := ValidateName(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) should fail, got %v", name, err)
		}
	}
}

func TestPutRejectsInvalidName(t *testing.T) {
	v := initVault(t)
	if err := v.Put("", []byte("x"), pw()); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Expected ErrInvalidName, got %v", err)
	}
}

func TestStatusWithoutPassword(t *testing.T) {
	v := initVault(t)
	if err := v.Put("visible", []byte("hidden"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	status, err := v.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if len(status.Entries) != 1 || status.Entries[0] != "visible" {
		t.Errorf("Unexpected entries: %v", status.Entries)
	}
	if status.VaultID == "" {
		t.Error("Vault ID should be set")
	}
}

func TestCompactKeepsEntries(t *testing.T) {
	v := initVault(t)
	if err := v.Put("keep", []byte("kept"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := v.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	got, err := v.Get("keep", pw())
	if err != nil {
		t.Fatalf("Get after compact failed: %v", err)
	}
	if string(got) != "kept" {
		t.Errorf("Entry mismatch after compact: got %q", got)
	}
}

func TestDiff(t *testing.T) {
	v := initVault(t)
	dir := t.TempDir()

	if err := v.Put("conf", []byte("host=db\nport=5432\n"), pw()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	same := filepath.Join(dir, "same.conf")
	if err := os.WriteFile(same, []byte("host=db\nport=5432\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	diff, err := v.Diff("conf", same, pw())
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != "" {
		t.Errorf("Identical contents should produce empty diff, got %q", diff)
	}

	changed := filepath.Join(dir, "changed.conf")
	if err := os.WriteFile(changed, []byte("host=db\nport=5433\n"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	diff, err = v.Diff("conf", changed, pw())
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff == "" {
		t.Error("Changed contents should produce a non-empty diff")
	}

	binary := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(binary, []byte{0x00, 0x01, 0xff}, 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	diff, err = v.Diff("conf", binary, pw())
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != "Binary entry conf differs\n" {
		t.Errorf("Unexpected binary diff output: %q", diff)
	}
}
