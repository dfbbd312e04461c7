package memstore

import (
	"sort"
	"sync"

	"pinterf/internal/port"
)

type cellKey struct {
	row, col int
}

// MemoryStore is a CheckpointStore that lives for one process.
type MemoryStore struct {
	mu          sync.RWMutex
	fingerprint string
	cells       map[cellKey]float64
}

var _ port.CheckpointStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cells: make(map[cellKey]float64)}
}

func (s *MemoryStore) Prepare(fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fingerprint != fingerprint {
		s.cells = make(map[cellKey]float64)
		s.fingerprint = fingerprint
		return false, nil
	}
	return len(s.cells) > 0, nil
}

// Cells returns the stored cells in row-major order.
func (s *MemoryStore) Cells() ([]port.Cell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]port.Cell, 0, len(s.cells))
	for k, v := range s.cells {
		out = append(out, port.Cell{Row: k.row, Col: k.col, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out, nil
}

func (s *MemoryStore) PutCells(cells []port.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cells {
		s.cells[cellKey{c.Row, c.Col}] = c.Value
	}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = make(map[cellKey]float64)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}

func (s *MemoryStore) Close() error {
	return nil
}
