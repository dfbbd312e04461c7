// Package neighbor provides residue-level proximity search over one model.
package neighbor

import (
	"math"

	"pinterf/internal/domain"
	"pinterf/internal/port"
)

// DefaultCellSize is the grid spacing in Angstrom.
const DefaultCellSize = 5.0

type cellKey struct{ x, y, z int }

type atomRef struct {
	coord   domain.Vec3
	residue *domain.Residue
}

// Indexer builds uniform-grid indexes.
type Indexer struct {
	cellSize float64
}

// NewIndexer creates an indexer; non-positive cell sizes use DefaultCellSize.
func NewIndexer(cellSize float64) *Indexer {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Indexer{cellSize: cellSize}
}

// Build indexes every atom of every chain in the model.
func (ix *Indexer) Build(model *domain.Model) port.NeighborIndex {
	g := &Grid{
		cellSize: ix.cellSize,
		cells:    make(map[cellKey][]atomRef),
	}
	for _, chain := range model.Chains {
		for _, res := range chain.Residues {
			for _, a := range res.Atoms {
				k := g.key(a.Coord)
				g.cells[k] = append(g.cells[k], atomRef{coord: a.Coord, residue: res})
			}
		}
	}
	return g
}

// Grid is a spatial hash of atoms.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]atomRef
}

func (g *Grid) key(c domain.Vec3) cellKey {
	return cellKey{
		x: int(math.Floor(c.X / g.cellSize)),
		y: int(math.Floor(c.Y / g.cellSize)),
		z: int(math.Floor(c.Z / g.cellSize)),
	}
}

// Residues returns residues with any atom within maxDist of any atom of res,
// in first-seen order. res itself is included.
func (g *Grid) Residues(res *domain.Residue, maxDist float64) []*domain.Residue {
	if maxDist < 0 {
		return nil
	}
	span := int(math.Ceil(maxDist / g.cellSize))

	seen := make(map[*domain.Residue]struct{})
	var out []*domain.Residue
	for _, a := range res.Atoms {
		center := g.key(a.Coord)
		for dx := -span; dx <= span; dx++ {
			for dy := -span; dy <= span; dy++ {
				for dz := -span; dz <= span; dz++ {
					k := cellKey{center.x + dx, center.y + dy, center.z + dz}
					for _, ref := range g.cells[k] {
						if _, ok := seen[ref.residue]; ok {
							continue
						}
						if ref.coord.Dist(a.Coord) <= maxDist {
							seen[ref.residue] = struct{}{}
							out = append(out, ref.residue)
						}
					}
				}
			}
		}
	}
	return out
}
