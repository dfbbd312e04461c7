package port

import "pinterf/internal/domain"

// StructureLoader parses a coordinate file.
type StructureLoader interface {
	Load(path string) (*domain.Structure, error)
}

// NeighborIndexer builds a spatial index over one model.
type NeighborIndexer interface {
	Build(model *domain.Model) NeighborIndex
}

// NeighborIndex answers residue-level proximity queries.
type NeighborIndex interface {
	// Residues returns every residue with at least one atom within maxDist
	// of any atom of res, including res itself.
	Residues(res *domain.Residue, maxDist float64) []*domain.Residue
}

// ModelProvider resolves one model of a coordinate file together with its
// neighbor index. A missing model is reported with domain.ErrModelNotFound.
type ModelProvider interface {
	Model(path string, modelID int) (*domain.Model, NeighborIndex, error)
}
