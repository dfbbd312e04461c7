package tablefile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pinterf/internal/domain"
)

// LoadEntries reads an entry collection from a TSV (or .csv) file with a
// header row. coordPathColumn names the column holding structure paths.
func LoadEntries(path, coordPathColumn string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open entries: %w", err)
	}
	defer f.Close()

	comma := '\t'
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		comma = ','
	}
	return ReadEntries(f, comma, coordPathColumn)
}

// ReadEntries parses entries from r.
func ReadEntries(r io.Reader, comma rune, coordPathColumn string) ([]domain.Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read entries header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{coordPathColumn, colModelID, colChainID, colPDBID} {
		if _, ok := pos[required]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, required)
		}
	}

	var entries []domain.Entry
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("entries line %d: %w", line, err)
		}

		modelID, err := strconv.Atoi(strings.TrimSpace(row[pos[colModelID]]))
		if err != nil {
			return nil, fmt.Errorf("entries line %d: invalid model id %q: %w", line, row[pos[colModelID]], err)
		}

		cols := make([]domain.Column, len(header))
		for i, h := range header {
			cols[i] = domain.Column{Name: strings.TrimSpace(h), Value: row[i]}
		}

		e := domain.Entry{
			CoordPath: row[pos[coordPathColumn]],
			ModelID:   modelID,
			ChainID:   strings.TrimSpace(row[pos[colChainID]]),
			PDBID:     strings.TrimSpace(row[pos[colPDBID]]),
			Columns:   cols,
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entries line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
