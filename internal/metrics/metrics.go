// Package metrics counts table and matrix build work on a private
// prometheus registry that can be exported as a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons.
const (
	ReasonArea      = "area"
	ReasonSelection = "selection"
	ReasonResidues  = "residues"
	ReasonSearch    = "search"
	ReasonMissing   = "missing"
)

// Metrics holds the build counters. A nil *Metrics records nothing.
type Metrics struct {
	registry             *prometheus.Registry
	entriesProcessed     prometheus.Counter
	interfacesConsidered prometheus.Counter
	interfacesRetained   prometheus.Counter
	interfacesDropped    *prometheus.CounterVec
	cellsScored          prometheus.Counter
	cellsRestored        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		entriesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinterf_entries_processed_total",
			Help: "Entries visited by the table builder",
		}),
		interfacesConsidered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinterf_interfaces_considered_total",
			Help: "Candidate interfaces examined",
		}),
		interfacesRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinterf_interfaces_retained_total",
			Help: "Candidate interfaces written to the table",
		}),
		interfacesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinterf_interfaces_dropped_total",
			Help: "Candidate interfaces dropped, by filter",
		}, []string{"reason"}),
		cellsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinterf_matrix_cells_scored_total",
			Help: "Matrix cells computed with the similarity metric",
		}),
		cellsRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinterf_matrix_cells_restored_total",
			Help: "Matrix cells restored from a checkpoint",
		}),
	}
	m.registry.MustRegister(
		m.entriesProcessed,
		m.interfacesConsidered,
		m.interfacesRetained,
		m.interfacesDropped,
		m.cellsScored,
		m.cellsRestored,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) EntryProcessed() {
	if m != nil {
		m.entriesProcessed.Inc()
	}
}

func (m *Metrics) InterfaceConsidered() {
	if m != nil {
		m.interfacesConsidered.Inc()
	}
}

func (m *Metrics) InterfaceRetained() {
	if m != nil {
		m.interfacesRetained.Inc()
	}
}

func (m *Metrics) InterfaceDropped(reason string) {
	if m != nil {
		m.interfacesDropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) CellsScored(n int) {
	if m != nil && n > 0 {
		m.cellsScored.Add(float64(n))
	}
}

func (m *Metrics) CellsRestored(n int) {
	if m != nil && n > 0 {
		m.cellsRestored.Add(float64(n))
	}
}

// WriteTextfile writes the registry in text exposition format. An empty
// path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
