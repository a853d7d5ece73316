// Package history implements the bounded undo/redo store. Each entry is an
// opaque caller-serialized document state, compressed on push and only
// decompressed when undo/redo hands it back. The store owns its entries
// exclusively: eviction and redo-branch truncation destroy them for good.
package history

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// DefaultCapacity is the maximum number of retained states.
const DefaultCapacity = 50

// Option configures a Store.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity overrides the retained-state limit. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.capacity = n
		}
	}
}

// Store is a bounded stack of compressed state snapshots with a cursor.
// Invariants: the stack is never empty (seeded at construction),
// 0 <= cursor <= len(stack)-1, and len(stack) <= capacity. Like the rest of
// the engine core it is single-goroutine; push/undo/redo each complete as
// one logical step, so a caller never sees a half-truncated stack.
type Store struct {
	stack    [][]byte
	cursor   int
	capacity int

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New creates a store seeded with the initial document state. The seed
// counts against capacity and anchors the undo chain: undoing past it is a
// no-op, never an error.
func New(initial []byte, opts ...Option) (*Store, error) {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	s := &Store{
		capacity: o.capacity,
		enc:      enc,
		dec:      dec,
	}
	s.stack = [][]byte{s.compress(initial)}
	return s, nil
}

// Push records a new state after an edit commit. Any redo branch beyond the
// cursor is truncated first and permanently lost. When the stack exceeds
// capacity the oldest entry is evicted and the cursor shifts down with it.
func (s *Store) Push(state []byte) {
	if s.cursor < len(s.stack)-1 {
		for i := s.cursor + 1; i < len(s.stack); i++ {
			s.stack[i] = nil
		}
		s.stack = s.stack[:s.cursor+1]
	}

	s.stack = append(s.stack, s.compress(state))
	s.cursor = len(s.stack) - 1

	if len(s.stack) > s.capacity {
		s.stack[0] = nil
		s.stack = s.stack[1:]
		s.cursor--
	}
}

// Undo steps the cursor back and returns that state. ok is false when there
// is nothing to undo. A decompression failure on a store-owned entry means
// the entry was corrupted in memory and propagates as a fatal error.
func (s *Store) Undo() (state []byte, ok bool, err error) {
	if s.cursor == 0 {
		return nil, false, nil
	}
	s.cursor--
	state, err = s.decompress(s.stack[s.cursor])
	if err != nil {
		s.cursor++
		return nil, false, err
	}
	return state, true, nil
}

// Redo steps the cursor forward and returns that state. ok is false when
// there is nothing to redo.
func (s *Store) Redo() (state []byte, ok bool, err error) {
	if s.cursor >= len(s.stack)-1 {
		return nil, false, nil
	}
	s.cursor++
	state, err = s.decompress(s.stack[s.cursor])
	if err != nil {
		s.cursor--
		return nil, false, err
	}
	return state, true, nil
}

// CanUndo reports whether a state exists before the cursor.
func (s *Store) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a state exists past the cursor.
func (s *Store) CanRedo() bool { return s.cursor < len(s.stack)-1 }

// Len returns the number of retained states.
func (s *Store) Len() int { return len(s.stack) }

// MemoryUsage returns the total compressed size of all entries in bytes.
func (s *Store) MemoryUsage() int {
	total := 0
	for _, entry := range s.stack {
		total += len(entry)
	}
	return total
}

func (s *Store) compress(state []byte) []byte {
	return s.enc.EncodeAll(state, nil)
}

func (s *Store) decompress(entry []byte) ([]byte, error) {
	state, err := s.dec.DecodeAll(entry, nil)
	if err != nil {
		// The store only ever decodes data it compressed itself, so this
		// indicates memory corruption and must not be silently recovered.
		return nil, fmt.Errorf("decompress history entry: %w", err)
	}
	return state, nil
}
