// Package pdb reads coordinate files in the fixed-column PDB format.
package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pinterf/internal/domain"
)

// Reader loads PDB files, plain or gzip-compressed (".gz" suffix).
//
// Models are numbered from 0 in file order; a file without MODEL records
// has a single model 0. For atoms with alternate locations the first
// occurrence is kept.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Load opens and parses a structure file.
func (r *Reader) Load(path string) (*domain.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open structure: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer gz.Close()
		src = gz
	}

	return r.Parse(src, path)
}

// Parse reads ATOM and HETATM records from src.
func (r *Reader) Parse(src io.Reader, path string) (*domain.Structure, error) {
	s := domain.NewStructure(path)

	modelID := 0
	model, _ := s.Model(modelID, true)
	sawModel := false

	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "MODEL"):
			// the implicit model 0 is reused by the first MODEL record
			if sawModel {
				modelID++
				model, _ = s.Model(modelID, true)
			}
			sawModel = true
		case strings.HasPrefix(line, "ENDMDL"):
			continue
		case strings.HasPrefix(line, "ATOM  "), strings.HasPrefix(line, "HETATM"):
			if err := addAtom(model, line); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return s, nil
}

func addAtom(model *domain.Model, line string) error {
	if len(line) < 54 {
		return fmt.Errorf("truncated coordinate record (%d columns)", len(line))
	}

	atomName := strings.TrimSpace(line[12:16])
	resName := strings.TrimSpace(line[17:20])
	chainID := strings.TrimSpace(line[21:22])
	icode := strings.TrimSpace(line[26:27])

	num, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return fmt.Errorf("invalid residue number %q: %w", line[22:26], err)
	}

	var coord domain.Vec3
	for i, field := range []string{line[30:38], line[38:46], line[46:54]} {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", field, err)
		}
		switch i {
		case 0:
			coord.X = v
		case 1:
			coord.Y = v
		case 2:
			coord.Z = v
		}
	}

	chain, _ := model.Chain(chainID, true)
	id := domain.ResidueID{Num: num, ICode: icode}
	res, ok := chain.Residue(id)
	if !ok {
		res = &domain.Residue{
			ID:   id,
			Name: resName,
			Het:  strings.HasPrefix(line, "HETATM"),
		}
		chain.Add(res)
	}
	if _, dup := res.Atom(atomName); dup {
		return nil
	}
	res.Atoms = append(res.Atoms, domain.Atom{Name: atomName, Coord: coord})
	return nil
}
