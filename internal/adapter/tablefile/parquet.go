package tablefile

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"pinterf/internal/domain"
)

type kv struct {
	Name  string `parquet:"name"`
	Value string `parquet:"value"`
}

// tableRow is the parquet layout of one InterfaceRecord.
type tableRow struct {
	InterfaceKey    string    `parquet:"interf_id"`
	PDBID           string    `parquet:"pdb_id"`
	ModelID         int64     `parquet:"model_id"`
	ChainID         string    `parquet:"chain_id"`
	CoordPath       string    `parquet:"coord_path"`
	Interface       string    `parquet:"interf"`
	Area            float64   `parquet:"interf_area"`
	Isoform         bool      `parquet:"iso"`
	Path            string    `parquet:"interf_path"`
	ContactResidues []string  `parquet:"atomid_cont"`
	Contacts        []string  `parquet:"interf_cont"`
	Distances       []float64 `parquet:"cb_dist"`
	EntryColumns    []kv      `parquet:"entry_columns"`
	Extra           []kv      `parquet:"extra"`
}

// matrixRow is the parquet layout of one matrix row. Column labels travel
// on row 0 only.
type matrixRow struct {
	Row     int64     `parquet:"row"`
	Label   string    `parquet:"label"`
	Values  []float64 `parquet:"values"`
	Columns []string  `parquet:"columns"`
}

type parquetFormat struct{}

func (parquetFormat) SaveTable(path string, records []domain.InterfaceRecord) error {
	rows := make([]tableRow, len(records))
	for i, rec := range records {
		rows[i] = toTableRow(rec)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet table %s: %w", path, err)
	}
	return nil
}

func (parquetFormat) LoadTable(path string) ([]domain.InterfaceRecord, error) {
	rows, err := parquet.ReadFile[tableRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table %s: %w", path, err)
	}
	records := make([]domain.InterfaceRecord, len(rows))
	for i, row := range rows {
		rec, err := fromTableRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i, err)
		}
		records[i] = rec
	}
	return records, nil
}

func (parquetFormat) SaveMatrix(path string, m *domain.Matrix) error {
	rows := make([]matrixRow, m.Rows())
	for i := range rows {
		values, err := m.Row(i)
		if err != nil {
			return err
		}
		rows[i] = matrixRow{Row: int64(i), Label: label(m.RowLabels, i), Values: values}
	}
	if len(rows) > 0 {
		rows[0].Columns = m.ColLabels
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet matrix %s: %w", path, err)
	}
	return nil
}

func (parquetFormat) LoadMatrix(path string) (*domain.Matrix, error) {
	rows, err := parquet.ReadFile[matrixRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet matrix %s: %w", path, err)
	}
	if len(rows) == 0 {
		return domain.NewMatrix(0, 0)
	}

	m, err := domain.NewMatrix(len(rows), len(rows[0].Values))
	if err != nil {
		return nil, err
	}
	m.RowLabels = make([]string, len(rows))
	for _, row := range rows {
		if err := m.SetRow(int(row.Row), row.Values); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m.RowLabels[row.Row] = row.Label
	}
	for _, row := range rows {
		if row.Row == 0 && len(row.Columns) > 0 {
			m.ColLabels = row.Columns
		}
	}
	return m, nil
}

func toTableRow(rec domain.InterfaceRecord) tableRow {
	entryCols := make([]kv, len(rec.Entry.Columns))
	for i, c := range rec.Entry.Columns {
		entryCols[i] = kv{Name: c.Name, Value: c.Value}
	}
	var extra []kv
	for _, k := range sortedKeys(rec.Interface.Extra) {
		extra = append(extra, kv{Name: k, Value: rec.Interface.Extra[k]})
	}
	return tableRow{
		InterfaceKey:    rec.InterfaceKey,
		PDBID:           rec.Entry.PDBID,
		ModelID:         int64(rec.Entry.ModelID),
		ChainID:         rec.Entry.ChainID,
		CoordPath:       rec.Entry.CoordPath,
		Interface:       rec.Interface.ID,
		Area:            rec.Interface.Area,
		Isoform:         rec.Interface.Isoform,
		Path:            rec.Interface.Path,
		ContactResidues: rec.Interface.ContactResidues,
		Contacts:        rec.Contacts.Pairs(),
		Distances:       rec.Contacts.Distances(),
		EntryColumns:    entryCols,
		Extra:           extra,
	}
}

func fromTableRow(row tableRow) (domain.InterfaceRecord, error) {
	contacts, err := domain.NewContactSet(row.Contacts, row.Distances)
	if err != nil {
		return domain.InterfaceRecord{}, err
	}

	var cols []domain.Column
	for _, c := range row.EntryColumns {
		cols = append(cols, domain.Column{Name: c.Name, Value: c.Value})
	}
	var extra map[string]string
	if len(row.Extra) > 0 {
		extra = make(map[string]string, len(row.Extra))
		for _, e := range row.Extra {
			extra[e.Name] = e.Value
		}
	}

	entry := domain.Entry{
		CoordPath: row.CoordPath,
		ModelID:   int(row.ModelID),
		ChainID:   row.ChainID,
		PDBID:     row.PDBID,
		Columns:   cols,
	}
	iface := domain.CandidateInterface{
		ID:              row.Interface,
		Area:            row.Area,
		Isoform:         row.Isoform,
		Path:            row.Path,
		ContactResidues: row.ContactResidues,
		Extra:           extra,
	}
	rec, err := domain.NewInterfaceRecord(entry, iface, contacts)
	if err != nil {
		return domain.InterfaceRecord{}, err
	}
	if row.InterfaceKey != "" && row.InterfaceKey != rec.InterfaceKey {
		return domain.InterfaceRecord{}, fmt.Errorf("stored interface id %q does not match derived %q", row.InterfaceKey, rec.InterfaceKey)
	}
	return rec, nil
}

func label(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}
