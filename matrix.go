package nlsolve

import (
	"fmt"
)

func Create(size int) (*Matrix, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size: %d", size)
	}

	return &Matrix{
		Size:     size,
		Elements: make([]float64, size*size),
	}, nil
}

// FromRows builds a matrix from a square row slice. The rows are copied.
func FromRows(rows [][]float64) (*Matrix, error) {
	m, err := Create(len(rows))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.Size {
			return nil, fmt.Errorf("row %d has %d entries, want %d", i, len(row), m.Size)
		}
		copy(m.Elements[i*m.Size:(i+1)*m.Size], row)
	}
	return m, nil
}

func (m *Matrix) Clear() {
	for i := range m.Elements {
		m.Elements[i] = 0.0
	}
}

func (m *Matrix) SetIdentity() {
	m.Clear()
	for i := 0; i < m.Size; i++ {
		m.Elements[i*m.Size+i] = 1.0
	}
}

// GetElement returns the address of entry (row, col) so callers can accumulate into it.
func (m *Matrix) GetElement(row, col int) *float64 {
	if row < 0 || col < 0 || row >= m.Size || col >= m.Size {
		return nil
	}
	return &m.Elements[row*m.Size+col]
}

func (m *Matrix) Get(row, col int) float64 {
	return m.Elements[row*m.Size+col]
}

func (m *Matrix) Set(row, col int, value float64) {
	m.Elements[row*m.Size+col] = value
}

func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		Size:     m.Size,
		Elements: make([]float64, len(m.Elements)),
	}
	copy(c.Elements, m.Elements)
	return c
}

// MultiplyVector returns A·x.
func (m *Matrix) MultiplyVector(x []float64) ([]float64, error) {
	if len(x) != m.Size {
		return nil, fmt.Errorf("vector length %d does not match matrix size %d", len(x), m.Size)
	}

	return m.multiply(x), nil
}

// multiply assumes len(x) == m.Size.
func (m *Matrix) multiply(x []float64) []float64 {
	result := make([]float64, m.Size)
	for i := 0; i < m.Size; i++ {
		row := m.Elements[i*m.Size : (i+1)*m.Size]
		sum := 0.0
		for j, a := range row {
			sum += a * x[j]
		}
		result[i] = sum
	}
	return result
}

func (m *Matrix) IsFinite() bool {
	return allFinite(m.Elements)
}

// Rows returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.Size)
	for i := range rows {
		rows[i] = make([]float64, m.Size)
		copy(rows[i], m.Elements[i*m.Size:(i+1)*m.Size])
	}
	return rows
}
