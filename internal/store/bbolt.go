package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketValues = []byte("values")

// BboltStore keeps values in a bbolt database.
type BboltStore struct {
	db     *bolt.DB
	closed atomic.Bool
}

// OpenBbolt opens or creates the database at path.
func OpenBbolt(path string) (*BboltStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: bbolt path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketValues)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltStore{db: db}, nil
}

// Get implements Store.
func (s *BboltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, false, err
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketValues).Get([]byte(key))
		if raw != nil {
			// raw is only valid inside the transaction.
			out = bytes.Clone(raw)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

// Set implements Store.
func (s *BboltStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketValues).Put([]byte(key), value)
	})
}

// Delete implements Store.
func (s *BboltStore) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketValues).Delete([]byte(key))
	})
}

// Keys implements Store. bbolt iterates keys in byte order.
func (s *BboltStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketValues).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

// Backend implements Store.
func (s *BboltStore) Backend() string {
	return BackendBbolt
}

// Close implements Store.
func (s *BboltStore) Close() error {
	if s == nil || s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *BboltStore) check(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if key == "" {
		return ErrInvalidKey
	}
	return ctx.Err()
}
