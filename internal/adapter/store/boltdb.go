package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"go.etcd.io/bbolt"

	"pinterf/internal/port"
)

var (
	bucketCells = []byte("cells")
	bucketMeta  = []byte("meta")
)

// BoltStore is a CheckpointStore backed by a bbolt file. Each cell is keyed
// by its big-endian (row, col) pair.
type BoltStore struct {
	db *bbolt.DB
}

var _ port.CheckpointStore = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketCells, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

func cellKey(row, col int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint32(key[:4], uint32(row))
	binary.BigEndian.PutUint32(key[4:], uint32(col))
	return key
}

func decodeCell(k, v []byte) (port.Cell, error) {
	if len(k) != 8 || len(v) != 8 {
		return port.Cell{}, fmt.Errorf("corrupt checkpoint cell (key %d bytes, value %d bytes)", len(k), len(v))
	}
	return port.Cell{
		Row:   int(binary.BigEndian.Uint32(k[:4])),
		Col:   int(binary.BigEndian.Uint32(k[4:])),
		Value: math.Float64frombits(binary.BigEndian.Uint64(v)),
	}, nil
}

// Prepare checks the schema version and input fingerprint, clearing cells
// recorded for other inputs.
func (s *BoltStore) Prepare(fingerprint string) (bool, error) {
	result, err := s.CheckMigration(fingerprint)
	if err != nil {
		return false, err
	}
	if result.NeedsRebuild {
		if err := s.Clear(); err != nil {
			return false, err
		}
	}
	if err := s.Migrate(fingerprint); err != nil {
		return false, err
	}
	if result.NeedsRebuild {
		return false, nil
	}

	n, err := s.Len()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BoltStore) Cells() ([]port.Cell, error) {
	var cells []port.Cell
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCells).ForEach(func(k, v []byte) error {
			c, err := decodeCell(k, v)
			if err != nil {
				return err
			}
			cells = append(cells, c)
			return nil
		})
	})
	return cells, err
}

// PutCells writes a batch in one transaction.
func (s *BoltStore) PutCells(cells []port.Cell) error {
	if len(cells) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCells)
		for _, c := range cells {
			v := make([]byte, 8)
			binary.BigEndian.PutUint64(v, math.Float64bits(c.Value))
			if err := b.Put(cellKey(c.Row, c.Col), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of stored cells.
func (s *BoltStore) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketCells).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
