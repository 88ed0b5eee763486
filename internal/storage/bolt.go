package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

const (
	dbFileName = "slategallery.db"
	appName    = "slategallery"
	// Bucket holding every key, the way one origin's localStorage does.
	LocalStorageBucket = "LocalStorage"
)

// BoltStore is a Store backed by a BoltDB file.
type BoltStore struct {
	db     *bolt.DB
	quota  int64
	logger zerolog.Logger
}

// DefaultDir returns the per-user directory the database lives in.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// NewBoltStore opens (or creates) the database file in dbDir. An empty
// dbDir selects DefaultDir, falling back to the current directory. A
// positive quota limits the summed size of all keys and values.
func NewBoltStore(dbDir string, quota int64, logger zerolog.Logger) (*BoltStore, error) {
	if dbDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			logger.Warn().Err(err).Msg("using current directory for storage")
			dir = "."
		}
		dbDir = dir
	}
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dbDir, err)
	}

	dbPath := filepath.Join(dbDir, dbFileName)
	logger.Debug().Str("path", dbPath).Msg("opening gallery storage")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(LocalStorageBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", LocalStorageBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, quota: quota, logger: logger}, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns a copy of the value stored under key.
func (s *BoltStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(LocalStorageBucket)).Get([]byte(key))
		if v != nil {
			// Values are only valid for the life of the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, value != nil, nil
}

// Set stores value under key, enforcing the quota.
func (s *BoltStore) Set(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(LocalStorageBucket))
		if s.quota > 0 {
			used := int64(len(key) + len(value))
			err := bucket.ForEach(func(k, v []byte) error {
				if string(k) != key {
					used += int64(len(k) + len(v))
				}
				return nil
			})
			if err != nil {
				return err
			}
			if used > s.quota {
				return ErrQuotaExceeded
			}
		}
		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to write key %q: %w", key, err)
		}
		return nil
	})
}

// Remove deletes key. Removing a missing key is not an error.
func (s *BoltStore) Remove(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(LocalStorageBucket)).Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key %q: %w", key, err)
		}
		return nil
	})
}
