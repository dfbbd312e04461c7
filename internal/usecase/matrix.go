package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"pinterf/internal/domain"
	"pinterf/internal/metrics"
	"pinterf/internal/port"
)

// MatrixOptions controls checkpointing of a matrix build.
type MatrixOptions struct {
	// CheckpointEvery is the number of scored pairs per checkpoint batch.
	CheckpointEvery int
	// Resume reuses cells stored for identical inputs.
	Resume bool
	// Salt is folded into the input fingerprint, typically a hash of the
	// scoring configuration.
	Salt string
}

// MatrixBuilder computes pairwise interface dissimilarities.
type MatrixBuilder struct {
	scorer  port.Scorer
	store   port.CheckpointStore
	opts    MatrixOptions
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewMatrixBuilder creates a builder. store may be nil to disable
// checkpointing.
func NewMatrixBuilder(scorer port.Scorer, store port.CheckpointStore, opts MatrixOptions, log zerolog.Logger, m *metrics.Metrics) *MatrixBuilder {
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 500
	}
	return &MatrixBuilder{scorer: scorer, store: store, opts: opts, log: log, metrics: m}
}

type cellPos struct{ row, col int }

// Build scores included against itself when removed is nil, writing both
// (i,j) and (j,i) for i<j and leaving the diagonal zero. Otherwise it
// scores removed (rows) against included (columns).
func (b *MatrixBuilder) Build(ctx context.Context, included, removed []domain.InterfaceRecord, progress port.ProgressFunc) (*domain.Matrix, error) {
	cols := SortRecords(included)
	rows := cols
	self := removed == nil
	if !self {
		rows = SortRecords(removed)
	}

	m, err := domain.NewMatrix(len(rows), len(cols))
	if err != nil {
		return nil, err
	}
	m.RowLabels = keys(rows)
	m.ColLabels = keys(cols)

	var jobs []cellPos
	if self {
		for i := 0; i < len(rows); i++ {
			for j := i + 1; j < len(cols); j++ {
				jobs = append(jobs, cellPos{i, j})
			}
		}
	} else {
		for i := range rows {
			for j := range cols {
				jobs = append(jobs, cellPos{i, j})
			}
		}
	}

	done, err := b.restore(m, Fingerprint(rows, cols, self, b.opts.Salt))
	if err != nil {
		return nil, err
	}

	total := len(jobs)
	completed := 0
	for _, job := range jobs {
		if _, ok := done[job]; ok {
			completed++
		}
	}
	progress.Report(completed, total)

	var pending []port.Cell
	flush := func() error {
		if b.store == nil || len(pending) == 0 {
			return nil
		}
		if err := b.store.PutCells(pending); err != nil {
			return fmt.Errorf("failed to checkpoint matrix cells: %w", err)
		}
		pending = pending[:0]
		return nil
	}

	scored := 0
	for _, job := range jobs {
		if _, ok := done[job]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			if ferr := flush(); ferr != nil {
				return nil, ferr
			}
			return nil, err
		}

		v := b.scorer.Score(rows[job.row].Contacts, cols[job.col].Contacts)
		if err := m.Set(job.row, job.col, v); err != nil {
			return nil, err
		}
		pending = append(pending, port.Cell{Row: job.row, Col: job.col, Value: v})
		scored++
		if self {
			if err := m.Set(job.col, job.row, v); err != nil {
				return nil, err
			}
			pending = append(pending, port.Cell{Row: job.col, Col: job.row, Value: v})
			scored++
		}

		completed++
		if completed%b.opts.CheckpointEvery == 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		progress.Report(completed, total)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	b.metrics.CellsScored(scored)
	b.log.Info().
		Int("rows", m.Rows()).
		Int("cols", m.Cols()).
		Int("scored", scored).
		Bool("self", self).
		Msg("Interface matrix built")
	return m, nil
}

// restore loads checkpointed cells into m and returns the positions that
// need no scoring.
func (b *MatrixBuilder) restore(m *domain.Matrix, fingerprint string) (map[cellPos]struct{}, error) {
	done := make(map[cellPos]struct{})
	if b.store == nil {
		return done, nil
	}

	kept, err := b.store.Prepare(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare checkpoint: %w", err)
	}
	if !b.opts.Resume {
		if kept {
			b.log.Info().Msg("Discarding matrix checkpoint")
		}
		return done, b.store.Clear()
	}
	if !kept {
		return done, nil
	}

	cells, err := b.store.Cells()
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	for _, c := range cells {
		if err := m.Set(c.Row, c.Col, c.Value); err != nil {
			return nil, fmt.Errorf("checkpoint cell: %w", err)
		}
		done[cellPos{c.Row, c.Col}] = struct{}{}
	}
	b.metrics.CellsRestored(len(cells))
	b.log.Info().Int("cells", len(cells)).Msg("Resumed matrix from checkpoint")
	return done, nil
}

// SortRecords returns a copy ordered by PDB id, model id, chain id,
// interface id (natural order) and coordinate path. Ties keep input order.
func SortRecords(records []domain.InterfaceRecord) []domain.InterfaceRecord {
	out := make([]domain.InterfaceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Entry.PDBID != b.Entry.PDBID {
			return a.Entry.PDBID < b.Entry.PDBID
		}
		if a.Entry.ModelID != b.Entry.ModelID {
			return a.Entry.ModelID < b.Entry.ModelID
		}
		if a.Entry.ChainID != b.Entry.ChainID {
			return a.Entry.ChainID < b.Entry.ChainID
		}
		if c := domain.CompareNatural(a.Interface.ID, b.Interface.ID); c != 0 {
			return c < 0
		}
		return a.Entry.CoordPath < b.Entry.CoordPath
	})
	return out
}

// Fingerprint identifies the ordered matrix inputs.
func Fingerprint(rows, cols []domain.InterfaceRecord, self bool, salt string) string {
	h := sha256.New()
	buf := make([]byte, 8)
	write := func(s string) {
		binary.BigEndian.PutUint64(buf, uint64(len(s)))
		h.Write(buf)
		h.Write([]byte(s))
	}
	writeRecords := func(records []domain.InterfaceRecord) {
		binary.BigEndian.PutUint64(buf, uint64(len(records)))
		h.Write(buf)
		for _, r := range records {
			write(r.InterfaceKey)
			write(r.Entry.CoordPath)
			binary.BigEndian.PutUint64(buf, uint64(r.Contacts.Len()))
			h.Write(buf)
			for i, p := range r.Contacts.Pairs() {
				write(p)
				binary.BigEndian.PutUint64(buf, math.Float64bits(r.Contacts.Distances()[i]))
				h.Write(buf)
			}
		}
	}

	if self {
		write("self")
	} else {
		write("reference")
		writeRecords(rows)
	}
	writeRecords(cols)
	write(salt)
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// FindRecord returns the first record with the given interface key.
func FindRecord(records []domain.InterfaceRecord, key string) (domain.InterfaceRecord, bool) {
	for _, r := range records {
		if r.InterfaceKey == key {
			return r, true
		}
	}
	return domain.InterfaceRecord{}, false
}

func keys(records []domain.InterfaceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.InterfaceKey
	}
	return out
}
