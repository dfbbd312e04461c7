package usecase

import (
	"fmt"

	"pinterf/internal/adapter/neighbor"
	"pinterf/internal/domain"
	"pinterf/internal/port"
)

func residue(num int, name string, atoms ...domain.Atom) *domain.Residue {
	return &domain.Residue{ID: domain.ResidueID{Num: num}, Name: name, Atoms: atoms}
}

func atom(name string, x, y, z float64) domain.Atom {
	return domain.Atom{Name: name, Coord: domain.Vec3{X: x, Y: y, Z: z}}
}

// fixtureModel lays chain A along the x axis with partners in chains B and C:
//
//	A10 ALA near B50 LEU (CB-CB 2.0) and C70 GLY (CB-CA 5.0)
//	A11 GLY near B51 SER (CA-CB 3.0)
//	A12 ALA near a water only
func fixtureModel() *domain.Model {
	m := domain.NewModel(0)

	a, _ := m.Chain("A", true)
	a.Add(residue(10, "ALA", atom("CA", 0, 0, 0), atom("CB", 0, 1, 0)))
	a.Add(residue(11, "GLY", atom("CA", 10, 0, 0)))
	a.Add(residue(12, "ALA", atom("CA", 20, 0, 0), atom("CB", 20, 1, 0)))

	b, _ := m.Chain("B", true)
	b.Add(residue(50, "LEU", atom("CA", 0, 4, 0), atom("CB", 0, 3, 0)))
	b.Add(residue(51, "SER", atom("CA", 10, 4, 0), atom("CB", 10, 3, 0)))
	water := residue(52, "HOH", atom("O", 20, 3, 0))
	water.Het = true
	b.Add(water)

	c, _ := m.Chain("C", true)
	c.Add(residue(70, "GLY", atom("CA", 0, -4, 0)))

	return m
}

// fakeModels serves fixture models by path.
type fakeModels struct {
	models map[string]*domain.Model
	calls  int
}

func newFakeModels() *fakeModels {
	return &fakeModels{models: map[string]*domain.Model{"1abc_1.pdb": fixtureModel()}}
}

func (f *fakeModels) Model(path string, modelID int) (*domain.Model, port.NeighborIndex, error) {
	f.calls++
	m, ok := f.models[path]
	if !ok {
		return nil, nil, fmt.Errorf("open %s: no such file", path)
	}
	if m.ID != modelID {
		return nil, nil, fmt.Errorf("%s model %d: %w", path, modelID, domain.ErrModelNotFound)
	}
	return m, neighbor.NewIndexer(0).Build(m), nil
}

func contactMap(cs domain.ContactSet) map[string]float64 {
	out := make(map[string]float64, cs.Len())
	for i, p := range cs.Pairs() {
		out[p] = cs.Distances()[i]
	}
	return out
}
