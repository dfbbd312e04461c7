package cache

import (
	"fmt"
	"sync"

	"pinterf/internal/domain"
	"pinterf/internal/port"
)

// StructureCache keeps the most recently used structures and the neighbor
// indexes built over their models. It is a StructureLoader itself.
type StructureCache struct {
	mu      sync.Mutex
	loader  port.StructureLoader
	indexer port.NeighborIndexer
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	hits    int
	misses  int
}

type cacheEntry struct {
	structure *domain.Structure
	indexes   map[int]port.NeighborIndex
}

var (
	_ port.StructureLoader = (*StructureCache)(nil)
	_ port.ModelProvider   = (*StructureCache)(nil)
)

func NewStructureCache(loader port.StructureLoader, indexer port.NeighborIndexer, maxSize int) *StructureCache {
	if maxSize <= 0 {
		maxSize = 32
	}
	return &StructureCache{
		loader:  loader,
		indexer: indexer,
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Load returns the cached structure, parsing it on a miss.
func (c *StructureCache) Load(path string) (*domain.Structure, error) {
	entry, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return entry.structure, nil
}

// Model returns one model of a structure along with its neighbor index.
func (c *StructureCache) Model(path string, modelID int) (*domain.Model, port.NeighborIndex, error) {
	entry, err := c.entry(path)
	if err != nil {
		return nil, nil, err
	}
	model, ok := entry.structure.Model(modelID, false)
	if !ok {
		return nil, nil, fmt.Errorf("%s model %d: %w", path, modelID, domain.ErrModelNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := entry.indexes[modelID]
	if !ok {
		idx = c.indexer.Build(model)
		entry.indexes[modelID] = idx
	}
	return model, idx, nil
}

func (c *StructureCache) entry(path string) (*cacheEntry, error) {
	c.mu.Lock()
	if entry, ok := c.entries[path]; ok {
		c.hits++
		c.moveToEnd(path)
		c.mu.Unlock()
		return entry, nil
	}
	c.misses++
	c.mu.Unlock()

	s, err := c.loader.Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[path]; ok {
		c.moveToEnd(path)
		return entry, nil
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	entry := &cacheEntry{structure: s, indexes: make(map[int]port.NeighborIndex)}
	c.entries[path] = entry
	c.order = append(c.order, path)
	return entry, nil
}

func (c *StructureCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

func (c *StructureCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts.
func (c *StructureCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *StructureCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *StructureCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *StructureCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
