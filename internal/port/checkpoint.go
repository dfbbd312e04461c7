package port

// Cell is one computed matrix cell.
type Cell struct {
	Row   int
	Col   int
	Value float64
}

// CheckpointStore persists computed matrix cells so an interrupted build
// can resume.
type CheckpointStore interface {
	// Prepare binds the store to an input fingerprint. Cells recorded under
	// a different fingerprint are discarded. It reports whether previous
	// cells were kept.
	Prepare(fingerprint string) (bool, error)

	// Cells returns every stored cell.
	Cells() ([]Cell, error)

	// PutCells records a batch of cells.
	PutCells(cells []Cell) error

	// Clear removes all cells.
	Clear() error

	Close() error
}
