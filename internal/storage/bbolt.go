package storage

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket  = []byte("config")  // salt, KDF cost snapshot, timestamps - unencrypted
	EntriesBucket = []byte("entries") // entry name -> wire ciphertext string
	PrivateBucket = []byte("private") // password verification blob
)

// Config keys
var (
	ConfigVersion    = []byte("version")
	ConfigCreated    = []byte("created")
	ConfigModified   = []byte("modified")
	ConfigSalt       = []byte("salt")
	ConfigKDFOps     = []byte("kdf_ops")
	ConfigKDFMem     = []byte("kdf_mem")
	ConfigKDFThreads = []byte("kdf_threads")
	ConfigVaultID    = []byte("vault_id")
)

// Storage provides BBolt-based storage for a sealbox vault file
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a vault database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure for a new vault
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, EntriesBucket, PrivateBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// SetSalt stores the KDF salt
func (s *Storage) SetSalt(salt []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigSalt, salt)
	})
}

// GetSalt retrieves the KDF salt
func (s *Storage) GetSalt() ([]byte, error) {
	var salt []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		salt = config.Get(ConfigSalt)
		if salt == nil {
			return fmt.Errorf("salt not found")
		}
		// Make a copy since the slice is only valid during the transaction
		salt = append([]byte(nil), salt...)
		return nil
	})
	return salt, err
}

// SetKDFParams records the Argon2id cost parameters the vault was created
// with. The costs are compile-time constants; the snapshot lets a newer
// binary refuse a vault written with different costs instead of deriving
// the wrong key.
func (s *Storage) SetKDFParams(ops, memory, threads uint32) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		for _, p := range []struct {
			key   []byte
			value uint32
		}{
			{ConfigKDFOps, ops},
			{ConfigKDFMem, memory},
			{ConfigKDFThreads, threads},
		} {
			buf := make([]byte, 4)
			binary.BigEndian.PutUint32(buf, p.value)
			if err := config.Put(p.key, buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetKDFParams retrieves the recorded Argon2id cost parameters
func (s *Storage) GetKDFParams() (ops, memory, threads uint32, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		o := config.Get(ConfigKDFOps)
		m := config.Get(ConfigKDFMem)
		p := config.Get(ConfigKDFThreads)
		if len(o) != 4 || len(m) != 4 || len(p) != 4 {
			return fmt.Errorf("kdf parameters not found")
		}
		ops = binary.BigEndian.Uint32(o)
		memory = binary.BigEndian.Uint32(m)
		threads = binary.BigEndian.Uint32(p)
		return nil
	})
	return ops, memory, threads, err
}

// UpdateModified updates the last modified timestamp
func (s *Storage) UpdateModified() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		now := time.Now()
		modified, _ := now.MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Storage) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Storage) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}

// PutEntry stores the wire ciphertext for a named entry
func (s *Storage) PutEntry(name, ciphertext string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		return entries.Put([]byte(name), []byte(ciphertext))
	})
}

// Rekey replaces the salt, a private blob, and every listed entry in a
// single transaction so a write failure leaves the previous state intact.
func (s *Storage) Rekey(salt []byte, privateKey string, privateData []byte, entries map[string]string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigSalt, salt); err != nil {
			return err
		}
		private := tx.Bucket(PrivateBucket)
		if err := private.Put([]byte(privateKey), privateData); err != nil {
			return err
		}
		bucket := tx.Bucket(EntriesBucket)
		for name, ciphertext := range entries {
			if err := bucket.Put([]byte(name), []byte(ciphertext)); err != nil {
				return err
			}
		}
		modified, _ := time.Now().MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetEntry retrieves the wire ciphertext for a named entry.
// Returns ("", false, nil) when the entry does not exist.
func (s *Storage) GetEntry(name string) (string, bool, error) {
	var ciphertext string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		data := entries.Get([]byte(name))
		if data == nil {
			return nil
		}
		ciphertext = string(data)
		found = true
		return nil
	})
	return ciphertext, found, err
}

// DeleteEntry removes a named entry.
// Returns false when the entry did not exist.
func (s *Storage) DeleteEntry(name string) (bool, error) {
	var existed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		if entries.Get([]byte(name)) != nil {
			existed = true
		}
		return entries.Delete([]byte(name))
	})
	return existed, err
}

// ListEntries returns all entry names in key order
func (s *Storage) ListEntries() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return nil
		}
		return entries.ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// StorePrivateBytes stores an encrypted blob in the private bucket
func (s *Storage) StorePrivateBytes(key string, encryptedData []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		private := tx.Bucket(PrivateBucket)
		return private.Put([]byte(key), encryptedData)
	})
}

// GetPrivateBytes retrieves an encrypted blob from the private bucket
func (s *Storage) GetPrivateBytes(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		private := tx.Bucket(PrivateBucket)
		if private == nil {
			return fmt.Errorf("private bucket not found")
		}
		data = private.Get([]byte(key))
		if data == nil {
			return fmt.Errorf("private data not found")
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), data...)
		return nil
	})
	return data, err
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after removing entries to reclaim disk space.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
