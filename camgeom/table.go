package camgeom

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// table is a dense row-major block of scalars with a fixed column count.
type table[R Real] struct {
	cols int
	data []R
}

func newTable[R Real](rows, cols int) table[R] {
	return table[R]{cols: cols, data: make([]R, rows*cols)}
}

func tableFromDense[R Real](m mat.Matrix, cols int) (table[R], error) {
	if m == nil {
		return newTable[R](0, cols), nil
	}
	r, c := m.Dims()
	if c != cols {
		return table[R]{}, errors.Errorf("expected a matrix with %d columns, got %d", cols, c)
	}
	t := newTable[R](r, cols)
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			t.data[i*cols+j] = R(m.At(i, j))
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *table[R]) Len() int {
	if t == nil || t.cols == 0 {
		return 0
	}
	return len(t.data) / t.cols
}

// Row returns a view of row i. Writes through the view modify the table.
func (t *table[R]) Row(i int) []R {
	return t.data[i*t.cols : (i+1)*t.cols : (i+1)*t.cols]
}

// Dense copies the table into a float64 gonum matrix. A table with no rows yields nil since
// gonum does not allow empty matrices.
func (t *table[R]) Dense() *mat.Dense {
	n := t.Len()
	if n == 0 {
		return nil
	}
	data := make([]float64, len(t.data))
	for i, v := range t.data {
		data[i] = float64(v)
	}
	return mat.NewDense(n, t.cols, data)
}

func (t table[R]) slice(from, to int) table[R] {
	return table[R]{cols: t.cols, data: t.data[from*t.cols : to*t.cols : to*t.cols]}
}
