package camgeom

import "gonum.org/v1/gonum/mat"

// Pixels is an N×2 table of (u, v) pixel coordinates.
type Pixels[R Real] struct {
	table[R]
}

// NewPixels returns a zeroed table of n pixels.
func NewPixels[R Real](n int) *Pixels[R] {
	return &Pixels[R]{newTable[R](n, 2)}
}

// PixelsFromRows builds a pixel table from (u, v) pairs.
func PixelsFromRows[R Real](rows ...[2]R) *Pixels[R] {
	p := NewPixels[R](len(rows))
	for i, row := range rows {
		p.Set(i, row[0], row[1])
	}
	return p
}

// PixelsFromDense copies an N×2 gonum matrix into a pixel table.
func PixelsFromDense[R Real](m mat.Matrix) (*Pixels[R], error) {
	t, err := tableFromDense[R](m, 2)
	if err != nil {
		return nil, err
	}
	return &Pixels[R]{t}, nil
}

// At returns the pixel in row i.
func (p *Pixels[R]) At(i int) (u, v R) {
	return p.data[2*i], p.data[2*i+1]
}

// Set stores the pixel in row i.
func (p *Pixels[R]) Set(i int, u, v R) {
	p.data[2*i] = u
	p.data[2*i+1] = v
}

// Slice returns the rows [from, to) as a table sharing storage with p.
func (p *Pixels[R]) Slice(from, to int) *Pixels[R] {
	return &Pixels[R]{p.slice(from, to)}
}
