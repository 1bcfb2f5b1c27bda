package camgeom

import "gonum.org/v1/gonum/mat"

// Points is an N×3 table of (x, y, z) coordinates in the camera frame. Rows need not be
// unit length.
type Points[R Real] struct {
	table[R]
}

// NewPoints returns a zeroed table of n points.
func NewPoints[R Real](n int) *Points[R] {
	return &Points[R]{newTable[R](n, 3)}
}

// PointsFromRows builds a point table from (x, y, z) triples.
func PointsFromRows[R Real](rows ...[3]R) *Points[R] {
	p := NewPoints[R](len(rows))
	for i, row := range rows {
		p.Set(i, row[0], row[1], row[2])
	}
	return p
}

// PointsFromDense copies an N×3 gonum matrix into a point table.
func PointsFromDense[R Real](m mat.Matrix) (*Points[R], error) {
	t, err := tableFromDense[R](m, 3)
	if err != nil {
		return nil, err
	}
	return &Points[R]{t}, nil
}

// At returns the point in row i.
func (p *Points[R]) At(i int) (x, y, z R) {
	return p.data[3*i], p.data[3*i+1], p.data[3*i+2]
}

// Set stores the point in row i.
func (p *Points[R]) Set(i int, x, y, z R) {
	p.data[3*i] = x
	p.data[3*i+1] = y
	p.data[3*i+2] = z
}

// Slice returns the rows [from, to) as a table sharing storage with p.
func (p *Points[R]) Slice(from, to int) *Points[R] {
	return &Points[R]{p.slice(from, to)}
}
