package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Store keeps how many shows each banner has left, keyed by banner ID.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the remaining shows for id. ok is false when nothing
	// has been saved for it yet.
	Load(id uuid.UUID) (left uint32, ok bool, err error)

	// Save records the remaining shows for id.
	Save(id uuid.UUID, left uint32) error

	// ForEach visits every saved counter.
	ForEach(fn func(id uuid.UUID, left uint32) error) error

	// Lifecycle
	Close() error
}

var showsBucket = []byte("shows_left")

func encodeCount(left uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, left)
}

func decodeCount(v []byte) (uint32, error) {
	if len(v) != 4 {
		return 0, fmt.Errorf("corrupt shows counter: %d bytes", len(v))
	}
	return binary.BigEndian.Uint32(v), nil
}
