package domain

import "fmt"

// Matrix is a dense row-major float64 matrix with optional row and column
// labels. A new matrix is zero-filled.
type Matrix struct {
	r, c      int
	data      []float64
	RowLabels []string
	ColLabels []string
}

// NewMatrix creates a rows×cols zero matrix. Zero dimensions are allowed.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	return &Matrix{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

func (m *Matrix) Rows() int { return m.r }

func (m *Matrix) Cols() int { return m.c }

func (m *Matrix) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("Matrix(%d,%d): %w", row, col, ErrOutOfRange)
	}
	return row*m.c + col, nil
}

// At returns the value at (row, col).
func (m *Matrix) At(row, col int) (float64, error) {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns v at (row, col).
func (m *Matrix) Set(row, col int, v float64) error {
	idx, err := m.indexOf(row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// Row returns a copy of one row.
func (m *Matrix) Row(row int) ([]float64, error) {
	if row < 0 || row >= m.r {
		return nil, fmt.Errorf("Matrix.Row(%d): %w", row, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[row*m.c:(row+1)*m.c])
	return out, nil
}

// SetRow overwrites one row; len(values) must equal Cols.
func (m *Matrix) SetRow(row int, values []float64) error {
	if row < 0 || row >= m.r {
		return fmt.Errorf("Matrix.SetRow(%d): %w", row, ErrOutOfRange)
	}
	if len(values) != m.c {
		return fmt.Errorf("Matrix.SetRow(%d): %w: %d values for %d columns", row, ErrBadShape, len(values), m.c)
	}
	copy(m.data[row*m.c:], values)
	return nil
}
