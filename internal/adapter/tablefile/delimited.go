package tablefile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pinterf/internal/adapter/listfmt"
	"pinterf/internal/domain"
)

// delimitedFormat stores tables and matrices as delimited text with a
// header row. List cells use listfmt tokens.
type delimitedFormat struct {
	comma rune
}

func (f delimitedFormat) SaveTable(path string, records []domain.InterfaceRecord) error {
	header := tableHeader(records)

	return f.write(path, func(w *csv.Writer) error {
		if err := w.Write(header); err != nil {
			return err
		}
		for _, rec := range records {
			if err := w.Write(tableCells(header, rec)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f delimitedFormat) LoadTable(path string) ([]domain.InterfaceRecord, error) {
	rows, err := f.read(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: missing header", path)
	}

	header := rows[0]
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	for _, required := range append(append([]string{}, entryColumns...), colInterface, colContacts, colDistances) {
		if _, ok := pos[required]; !ok {
			return nil, fmt.Errorf("%s: %w: %s", path, domain.ErrMissingColumn, required)
		}
	}

	records := make([]domain.InterfaceRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseTableRow(header, pos, row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (f delimitedFormat) SaveMatrix(path string, m *domain.Matrix) error {
	return f.write(path, func(w *csv.Writer) error {
		header := make([]string, m.Cols()+1)
		header[0] = "label"
		for j := 0; j < m.Cols(); j++ {
			header[j+1] = labelOrIndex(m.ColLabels, j)
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for i := 0; i < m.Rows(); i++ {
			values, err := m.Row(i)
			if err != nil {
				return err
			}
			cells := make([]string, len(values)+1)
			cells[0] = labelOrIndex(m.RowLabels, i)
			for j, v := range values {
				cells[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if err := w.Write(cells); err != nil {
				return err
			}
		}
		return nil
	})
}

func (f delimitedFormat) LoadMatrix(path string) (*domain.Matrix, error) {
	rows, err := f.read(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: missing header", path)
	}

	header := rows[0]
	m, err := domain.NewMatrix(len(rows)-1, len(header)-1)
	if err != nil {
		return nil, err
	}
	m.ColLabels = append([]string(nil), header[1:]...)
	m.RowLabels = make([]string, m.Rows())

	for i, row := range rows[1:] {
		m.RowLabels[i] = row[0]
		values := make([]float64, len(row)-1)
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
			}
			values[j] = v
		}
		if err := m.SetRow(i, values); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (f delimitedFormat) write(path string, fn func(w *csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = f.comma
	if err := fn(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

func (f delimitedFormat) read(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = f.comma
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// tableHeader lays out reserved entry columns, remaining entry columns in
// first-seen order, interface columns, extras and the contact columns.
func tableHeader(records []domain.InterfaceRecord) []string {
	header := append([]string{}, entryColumns...)

	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, c := range rec.Entry.Columns {
			if isReserved(c.Name) || strings.HasPrefix(c.Name, extraPrefix) {
				continue
			}
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			header = append(header, c.Name)
		}
	}

	header = append(header, interfaceColumns...)

	extras := make(map[string]string)
	for _, rec := range records {
		for k := range rec.Interface.Extra {
			extras[k] = ""
		}
	}
	for _, k := range sortedKeys(extras) {
		header = append(header, extraPrefix+k)
	}

	return append(header, trailingColumns...)
}

func tableCells(header []string, rec domain.InterfaceRecord) []string {
	entryVals := make(map[string]string, len(rec.Entry.Columns))
	for _, c := range rec.Entry.Columns {
		entryVals[c.Name] = c.Value
	}

	cells := make([]string, len(header))
	for i, h := range header {
		switch {
		case h == colPDBID:
			cells[i] = rec.Entry.PDBID
		case h == colModelID:
			cells[i] = strconv.Itoa(rec.Entry.ModelID)
		case h == colChainID:
			cells[i] = rec.Entry.ChainID
		case h == colCoordPath:
			cells[i] = rec.Entry.CoordPath
		case h == colInterface:
			cells[i] = rec.Interface.ID
		case h == colArea:
			cells[i] = strconv.FormatFloat(rec.Interface.Area, 'f', -1, 64)
		case h == colIsoform:
			cells[i] = strconv.FormatBool(rec.Interface.Isoform)
		case h == colPath:
			cells[i] = rec.Interface.Path
		case h == colContactRes:
			cells[i] = listfmt.Join(rec.Interface.ContactResidues)
		case h == colContacts:
			cells[i] = listfmt.Join(rec.Contacts.Pairs())
		case h == colDistances:
			cells[i] = listfmt.JoinFloats(rec.Contacts.Distances())
		case h == colInterfaceKey:
			cells[i] = rec.InterfaceKey
		case strings.HasPrefix(h, extraPrefix):
			cells[i] = rec.Interface.Extra[strings.TrimPrefix(h, extraPrefix)]
		default:
			cells[i] = entryVals[h]
		}
	}
	return cells
}

func parseTableRow(header []string, pos map[string]int, row []string) (domain.InterfaceRecord, error) {
	cell := func(name string) string {
		if i, ok := pos[name]; ok {
			return row[i]
		}
		return ""
	}

	modelID, err := strconv.Atoi(cell(colModelID))
	if err != nil {
		return domain.InterfaceRecord{}, fmt.Errorf("invalid model id %q: %w", cell(colModelID), err)
	}
	var area float64
	if s := cell(colArea); s != "" {
		if area, err = strconv.ParseFloat(s, 64); err != nil {
			return domain.InterfaceRecord{}, fmt.Errorf("invalid area %q: %w", s, err)
		}
	}
	var iso bool
	if s := cell(colIsoform); s != "" {
		if iso, err = strconv.ParseBool(s); err != nil {
			return domain.InterfaceRecord{}, fmt.Errorf("invalid iso flag %q: %w", s, err)
		}
	}
	contacts, err := listfmt.ContactSet(cell(colContacts), cell(colDistances))
	if err != nil {
		return domain.InterfaceRecord{}, err
	}

	var cols []domain.Column
	var extra map[string]string
	for i, h := range header {
		switch {
		case strings.HasPrefix(h, extraPrefix):
			if row[i] == "" {
				continue
			}
			if extra == nil {
				extra = make(map[string]string)
			}
			extra[strings.TrimPrefix(h, extraPrefix)] = row[i]
		case isReserved(h) && !isEntryColumn(h):
			continue
		default:
			cols = append(cols, domain.Column{Name: h, Value: row[i]})
		}
	}

	entry := domain.Entry{
		CoordPath: cell(colCoordPath),
		ModelID:   modelID,
		ChainID:   cell(colChainID),
		PDBID:     cell(colPDBID),
		Columns:   cols,
	}
	iface := domain.CandidateInterface{
		ID:              cell(colInterface),
		Area:            area,
		Isoform:         iso,
		Path:            cell(colPath),
		ContactResidues: listfmt.Split(cell(colContactRes)),
		Extra:           extra,
	}
	rec, err := domain.NewInterfaceRecord(entry, iface, contacts)
	if err != nil {
		return domain.InterfaceRecord{}, err
	}
	if key := cell(colInterfaceKey); key != "" && key != rec.InterfaceKey {
		return domain.InterfaceRecord{}, fmt.Errorf("stored interface id %q does not match derived %q", key, rec.InterfaceKey)
	}
	return rec, nil
}

func isEntryColumn(name string) bool {
	for _, c := range entryColumns {
		if c == name {
			return true
		}
	}
	return false
}

func labelOrIndex(labels []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return strconv.Itoa(i)
}
