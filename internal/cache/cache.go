// Package cache is the on-device persistent fallback store. Values are JSON
// blobs in a single Bolt file, namespaced by stable keys ("clients",
// "events", "users", "logs"), with a parallel pending-sync bucket recording
// which keys hold writes not yet confirmed against the remote store.
package cache

import (
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"
)

const (
	recordsBucket = "records"
	pendingBucket = "pendingSync"
)

// MaxLogEntries caps the locally kept action log.
const MaxLogEntries = 100

// Store wraps a Bolt database. Operations are synchronous; a Set followed by
// a Get on the same key always observes the just-set value.
type Store struct {
	db     *bolt.DB
	online func() bool
}

// Open opens (or creates) the cache file. The online hook reports current
// remote reachability; while it returns false every Set also marks its key
// pending. A nil hook means always online.
func Open(path string, online func() bool) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(recordsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(pendingBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	if online == nil {
		online = func() bool { return true }
	}
	return &Store{db: db, online: online}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get unmarshals the value stored under key into v. The second return is
// false when the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(recordsBucket)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, v)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Set stores v under key. While the online hook reports false the key is
// additionally marked pending-sync in the same transaction.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	offline := !s.online()
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(recordsBucket)).Put([]byte(key), raw); err != nil {
			return err
		}
		if offline {
			return tx.Bucket([]byte(pendingBucket)).Put([]byte(key), []byte("1"))
		}
		return nil
	})
}

// Remove deletes the value stored under key. Missing keys are a no-op.
func (s *Store) Remove(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(recordsBucket)).Delete([]byte(key))
	})
}

// MarkPending flags key as holding writes not yet confirmed remotely.
func (s *Store) MarkPending(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(pendingBucket)).Put([]byte(key), []byte("1"))
	})
}

// ClearPending removes the pending flag for key.
func (s *Store) ClearPending(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(pendingBucket)).Delete([]byte(key))
	})
}

// IsPending reports whether key carries unconfirmed writes.
func (s *Store) IsPending(key string) (bool, error) {
	pending := false
	err := s.db.View(func(tx *bolt.Tx) error {
		pending = tx.Bucket([]byte(pendingBucket)).Get([]byte(key)) != nil
		return nil
	})
	return pending, err
}

// PendingKeys lists all keys carrying unconfirmed writes.
func (s *Store) PendingKeys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(pendingBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
