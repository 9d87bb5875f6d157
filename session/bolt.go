package session

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket   = []byte("session")
	boltTokenKey = []byte("access_token")
)

// BoltStore persists the token in a local bbolt file so a CLI session
// survives across invocations. The file should live under the user's config
// directory with 0600 permissions; the token is stored as-is, matching the
// plaintext session-storage semantics of the original dashboard.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = (*BoltStore)(nil)

// OpenBolt opens (or creates) the bbolt file at path and prepares the
// session bucket. The caller owns the returned store and must Close it.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create bucket: %v", ErrUnavailable, err)
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Get(_ context.Context) (string, bool, error) {
	var token string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get(boltTokenKey)
		if raw != nil {
			token = string(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, found, nil
}

func (s *BoltStore) Set(_ context.Context, token string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if token == "" {
			return bucket.Delete(boltTokenKey)
		}
		return bucket.Put(boltTokenKey, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *BoltStore) Clear(ctx context.Context) error {
	return s.Set(ctx, "")
}
