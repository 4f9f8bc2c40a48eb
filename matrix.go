package featgo

// Matrix is a dense row-major float32 matrix.
//
// Row i of a module's feature matrix holds the feature vector of the i-th
// entity of the ordering passed to Build.
type Matrix struct {
	data []float32
	rows int
	dim  int
}

// NewMatrix allocates a zeroed rows x dim matrix.
func NewMatrix(rows, dim int) *Matrix {
	return &Matrix{
		data: make([]float32, rows*dim),
		rows: rows,
		dim:  dim,
	}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the number of columns.
func (m *Matrix) Dim() int { return m.dim }

// Row returns row i.
//
// The returned slice aliases the matrix memory; callers must not modify it.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float32 {
	return m.data[i*m.dim+j]
}

func (m *Matrix) setRow(i int, v []float32) {
	copy(m.data[i*m.dim:(i+1)*m.dim], v)
}
