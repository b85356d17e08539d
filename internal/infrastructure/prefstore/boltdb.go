// Package prefstore persists the single UI preference document in a BoltDB
// file. It is deliberately tiny: one bucket, one key, one JSON value,
// rewritten on every change and read once at page load.
package prefstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdeck/backend/domain"
)

const defaultBucket = "preferences"

var docKey = []byte("ui")

// Store wraps the Bolt database holding the preference document.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Load returns the saved document. The second return value is false when no
// document has ever been saved.
func (s *Store) Load() (domain.Preferences, bool, error) {
	if s == nil || s.db == nil {
		return domain.Preferences{}, false, bolt.ErrDatabaseNotOpen
	}
	var (
		prefs domain.Preferences
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get(docKey)
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &prefs)
	})
	if err != nil {
		return domain.Preferences{}, false, err
	}
	return prefs, found, nil
}

// Save overwrites the document.
func (s *Store) Save(prefs domain.Preferences) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(docKey, payload)
	})
}

// Ping verifies the database file is still readable.
func (s *Store) Ping() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
