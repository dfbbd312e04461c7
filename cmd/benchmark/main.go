package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pinterf/config"
	"pinterf/internal/adapter/memstore"
	"pinterf/internal/adapter/qscore"
	"pinterf/internal/adapter/tablefile"
	"pinterf/internal/usecase"
)

func main() {
	tablePath := flag.String("table", "", "Interface table to compare")
	dir := flag.String("dir", ".", "Directory holding pinterf.yaml")
	limit := flag.Int("n", 0, "Use only the first n interfaces (0 = all)")
	top := flag.Int("top", 10, "Number of closest pairs to list")
	flag.Parse()

	if *tablePath == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -table interf.parquet [-n 500]")
		fmt.Println("\nReports:")
		fmt.Println("  1. Matrix build throughput (pairs per second)")
		fmt.Println("  2. Distribution of dissimilarities")
		fmt.Println("  3. Closest interface pairs")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	records, err := tablefile.LoadTable(*tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading table: %v\n", err)
		os.Exit(1)
	}
	if *limit > 0 && *limit < len(records) {
		records = records[:*limit]
	}

	fmt.Println("INTERFACE MATRIX BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Interfaces:     %d\n", len(records))
	fmt.Printf("Distance scale: %.2f\n", cfg.Score.DistanceScale)
	fmt.Println()

	builder := usecase.NewMatrixBuilder(
		qscore.NewScorer(cfg.Score.DistanceScale),
		memstore.NewMemoryStore(),
		usecase.MatrixOptions{CheckpointEvery: cfg.Matrix.CheckpointEvery},
		zerolog.Nop(),
		nil,
	)

	start := time.Now()
	m, err := builder.Build(context.Background(), records, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Matrix error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	n := m.Rows()
	pairs := n * (n - 1) / 2
	fmt.Printf("Pairs scored:   %d in %s", pairs, elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Printf(" (%.0f pairs/s)", float64(pairs)/elapsed.Seconds())
	}
	fmt.Println()

	type pair struct {
		a, b  string
		score float64
	}
	var all []pair
	buckets := make([]int, 5)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v, _ := m.At(i, j)
			all = append(all, pair{m.RowLabels[i], m.ColLabels[j], v})
			b := int(v * float64(len(buckets)))
			if b >= len(buckets) {
				b = len(buckets) - 1
			}
			buckets[b]++
		}
	}

	fmt.Println(strings.Repeat("-", 70))
	fmt.Println("Dissimilarity distribution:")
	for i, c := range buckets {
		lo := float64(i) / float64(len(buckets))
		fmt.Printf("  [%.1f, %.1f) %d\n", lo, lo+1/float64(len(buckets)), c)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score < all[j].score })
	if len(all) > *top {
		all = all[:*top]
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Closest %d pairs:\n", len(all))
	for i, p := range all {
		fmt.Printf("%2d. %.3f  %s  %s\n", i+1, p.score, p.a, p.b)
	}
	fmt.Println(strings.Repeat("=", 70))
}
