// Package tablefile persists interface tables and similarity matrices.
// The format is chosen by file extension through a registry.
package tablefile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"pinterf/internal/domain"
)

// Format reads and writes tables and matrices in one file format.
type Format interface {
	SaveTable(path string, records []domain.InterfaceRecord) error
	LoadTable(path string) ([]domain.InterfaceRecord, error)
	SaveMatrix(path string, m *domain.Matrix) error
	LoadMatrix(path string) (*domain.Matrix, error)
}

// formats maps a lower-case extension to its handler; last registration wins.
var formats = map[string]Format{}

func init() {
	Register(".parquet", parquetFormat{})
	Register(".tsv", delimitedFormat{comma: '\t'})
	Register(".csv", delimitedFormat{comma: ','})
}

// Register installs a format for an extension such as ".parquet".
func Register(ext string, f Format) {
	formats[strings.ToLower(ext)] = f
}

// Extensions lists the registered extensions.
func Extensions() []string {
	out := make([]string, 0, len(formats))
	for ext := range formats {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func formatFor(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return nil, fmt.Errorf("unknown table format %q for %s (supported: %s)", ext, path, strings.Join(Extensions(), ", "))
	}
	return f, nil
}

// SaveTable writes records to path.
func SaveTable(path string, records []domain.InterfaceRecord) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	return f.SaveTable(path, records)
}

// LoadTable reads records from path.
func LoadTable(path string) ([]domain.InterfaceRecord, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	return f.LoadTable(path)
}

// SaveMatrix writes a matrix to path.
func SaveMatrix(path string, m *domain.Matrix) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	return f.SaveMatrix(path, m)
}

// LoadMatrix reads a matrix from path.
func LoadMatrix(path string) (*domain.Matrix, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	return f.LoadMatrix(path)
}

// Column names shared by the table formats.
const (
	colPDBID        = "pdb_id"
	colModelID      = "model_id"
	colChainID      = "chain_id"
	colCoordPath    = "coord_path"
	colInterface    = "interf"
	colArea         = "interf_area"
	colIsoform      = "iso"
	colPath         = "interf_path"
	colContactRes   = "atomid_cont"
	colContacts     = "interf_cont"
	colDistances    = "cb_dist"
	colInterfaceKey = "interf_id"

	// extraPrefix marks candidate interface extra columns.
	extraPrefix = "interf."
)

var entryColumns = []string{colPDBID, colModelID, colChainID, colCoordPath}

var interfaceColumns = []string{colInterface, colArea, colIsoform, colPath, colContactRes}

var trailingColumns = []string{colContacts, colDistances, colInterfaceKey}

func isReserved(name string) bool {
	for _, group := range [][]string{entryColumns, interfaceColumns, trailingColumns} {
		for _, c := range group {
			if c == name {
				return true
			}
		}
	}
	return false
}

// sortedKeys returns map keys in order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
