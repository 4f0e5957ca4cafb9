package storage

import (
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// BboltStore persists counters in a bbolt file so a restarted rotator
// resumes where it stopped.
type BboltStore struct {
	db *bolt.DB
}

// NewBboltStore opens (or creates) the database at dbPath.
func NewBboltStore(dbPath string) (*BboltStore, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(showsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BboltStore{db: db}, nil
}

func (s *BboltStore) Load(id uuid.UUID) (uint32, bool, error) {
	var (
		left uint32
		ok   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(showsBucket).Get(id[:])
		if v == nil {
			return nil
		}
		n, err := decodeCount(v)
		if err != nil {
			return fmt.Errorf("banner %s: %w", id, err)
		}
		left, ok = n, true
		return nil
	})
	return left, ok, err
}

func (s *BboltStore) Save(id uuid.UUID, left uint32) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(showsBucket).Put(id[:], encodeCount(left))
	})
}

func (s *BboltStore) ForEach(fn func(id uuid.UUID, left uint32) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(showsBucket).ForEach(func(k, v []byte) error {
			id, err := uuid.FromBytes(k)
			if err != nil {
				return fmt.Errorf("corrupt banner key: %w", err)
			}
			left, err := decodeCount(v)
			if err != nil {
				return fmt.Errorf("banner %s: %w", id, err)
			}
			return fn(id, left)
		})
	})
}

func (s *BboltStore) Close() error {
	return s.db.Close()
}
