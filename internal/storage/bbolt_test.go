package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestOpenAndInitialize(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sealbox")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	initialized, err := db.IsInitialized()
	if err != nil {
		t.Fatalf("Failed to check initialization: %v", err)
	}
	if !initialized {
		t.Error("Database should be initialized")
	}
}

func TestSaltAndKDFParams(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sealbox")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	salt := []byte("16-byte-test-slt")
	if err := db.SetSalt(salt); err != nil {
		t.Fatalf("Failed to set salt: %v", err)
	}

	retrievedSalt, err := db.GetSalt()
	if err != nil {
		t.Fatalf("Failed to get salt: %v", err)
	}
	if !bytes.Equal(retrievedSalt, salt) {
		t.Errorf("Salt mismatch: got %v, want %v", retrievedSalt, salt)
	}

	if err := db.SetKDFParams(2, 64*1024, 1); err != nil {
		t.Fatalf("Failed to set KDF params: %v", err)
	}

	ops, memory, threads, err := db.GetKDFParams()
	if err != nil {
		t.Fatalf("Failed to get KDF params: %v", err)
	}
	if ops != 2 || memory != 64*1024 || threads != 1 {
		t.Errorf("KDF params mismatch: got (%d, %d, %d)", ops, memory, threads)
	}
}

func TestRekey(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sealbox")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	if err := db.SetSalt([]byte("old-salt-old-slt")); err != nil {
		t.Fatalf("Failed to set salt: %v", err)
	}
	if err := db.PutEntry("a", "old-a"); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}
	if err := db.PutEntry("b", "old-b"); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	newSalt := []byte("new-salt-new-slt")
	rekeyed := map[string]string{"a": "new-a", "b": "new-b"}
	if err := db.Rekey(newSalt, "check", []byte("new-check"), rekeyed); err != nil {
		t.Fatalf("Rekey failed: %v", err)
	}

	salt, err := db.GetSalt()
	if err != nil {
		t.Fatalf("Failed to get salt: %v", err)
	}
	if !bytes.Equal(salt, newSalt) {
		t.Errorf("Salt mismatch after rekey: got %q", salt)
	}
	check, err := db.GetPrivateBytes("check")
	if err != nil {
		t.Fatalf("Failed to get private bytes: %v", err)
	}
	if string(check) != "new-check" {
		t.Errorf("Check blob mismatch after rekey: got %q", check)
	}
	for name, want := range rekeyed {
		ciphertext, found, err := db.GetEntry(name)
		if err != nil || !found {
			t.Fatalf("Failed to get entry %s after rekey: found=%v err=%v", name, found, err)
		}
		if ciphertext != want {
			t.Errorf("Entry %s mismatch after rekey: got %q, want %q", name, ciphertext, want)
		}
	}
}

func TestEntryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sealbox")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if err := db.PutEntry("api-token", "deadbeef"); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}
	if err := db.PutEntry("db-password", "cafebabe"); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	ciphertext, found, err := db.GetEntry("api-token")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if !found {
		t.Fatal("Entry should exist")
	}
	if ciphertext != "deadbeef" {
		t.Errorf("Entry mismatch: got %q", ciphertext)
	}

	names, err := db.ListEntries()
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(names))
	}

	existed, err := db.DeleteEntry("api-token")
	if err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}
	if !existed {
		t.Error("Delete should report the entry existed")
	}

	_, found, err = db.GetEntry("api-token")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if found {
		t.Error("Deleted entry should not be found")
	}

	existed, err = db.DeleteEntry("never-existed")
	if err != nil {
		t.Fatalf("Delete of missing entry failed: %v", err)
	}
	if existed {
		t.Error("Delete of missing entry should report it did not exist")
	}
}

func TestPrivateBytes(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sealbox")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	blob := []byte{0x01, 0x02, 0x03}
	if err := db.StorePrivateBytes("checksum", blob); err != nil {
		t.Fatalf("Failed to store private bytes: %v", err)
	}

	got, err := db.GetPrivateBytes("checksum")
	if err != nil {
		t.Fatalf("Failed to get private bytes: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("Private data mismatch: got %v, want %v", got, blob)
	}
}

func TestCompact(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.sealbox")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	if err := db.PutEntry("keep", "00ff"); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}
	if err := db.PutEntry("drop", "ff00"); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}
	if _, err := db.DeleteEntry("drop"); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}

	if err := db.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	// Data survives compaction and the database remains usable.
	ciphertext, found, err := db.GetEntry("keep")
	if err != nil {
		t.Fatalf("Failed to get entry after compact: %v", err)
	}
	if !found || ciphertext != "00ff" {
		t.Errorf("Entry lost by compaction: found=%v ciphertext=%q", found, ciphertext)
	}
}
