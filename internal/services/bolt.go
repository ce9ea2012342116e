package services

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// BoltDB implements the settings store using a BoltDB backend. Connection settings are the only
// state that survives a restart, so the store is a single flat bucket of string keys and values.
type BoltDB struct {
	db *bolt.DB
}

var settingsBucket = []byte("settings")

// NewBoltDB creates a new BoltDB instance with the specified file path. It initializes the database
// with the settings bucket and returns an error if the database cannot be opened or initialized.
// The database file is created with 0600 permissions if it doesn't exist.
func NewBoltDB(path string) (BoltDB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return BoltDB{}, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settingsBucket)
		return err
	})

	return BoltDB{db: db}, err
}

// Get retrieves the value stored under key. A missing key yields the empty string, not an error.
func (b BoltDB) Get(key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(settingsBucket)
		if bkt == nil {
			return nil
		}
		value = string(bkt.Get([]byte(key)))
		return nil
	})
	return value, err
}

// Set stores value under key. Setting an empty value removes the key instead: empty settings are
// not persisted.
func (b BoltDB) Set(key, value string) error {
	if value == "" {
		return b.Clear(key)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(settingsBucket)
		if bkt == nil {
			return nil
		}
		return bkt.Put([]byte(key), []byte(value))
	})
}

// Clear removes the key from the store. Clearing a missing key is a no-op.
func (b BoltDB) Clear(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(settingsBucket)
		if bkt == nil {
			return nil
		}
		return bkt.Delete([]byte(key))
	})
}

// Close releases the underlying database file.
func (b BoltDB) Close() error {
	return b.db.Close()
}
