package camgeom

// RayBundle is a set of rays sharing a single origin at the camera's optical centre. Only
// the direction varies per row; directions produced by camera models are unit length.
type RayBundle[R Real] struct {
	table[R]
}

// NewRayBundle returns a bundle of n zero directions.
func NewRayBundle[R Real](n int) *RayBundle[R] {
	return &RayBundle[R]{newTable[R](n, 3)}
}

// Origin returns the shared origin of every ray.
func (b *RayBundle[R]) Origin() (x, y, z R) {
	return 0, 0, 0
}

// Direction returns the direction of ray i.
func (b *RayBundle[R]) Direction(i int) (x, y, z R) {
	return b.data[3*i], b.data[3*i+1], b.data[3*i+2]
}

// SetDirection stores the direction of ray i.
func (b *RayBundle[R]) SetDirection(i int, x, y, z R) {
	b.data[3*i] = x
	b.data[3*i+1] = y
	b.data[3*i+2] = z
}

// PointsAt returns, for every ray, the point at the given distance along it.
func (b *RayBundle[R]) PointsAt(distance R) *Points[R] {
	n := b.Len()
	out := NewPoints[R](n)
	for i := 0; i < n; i++ {
		x, y, z := b.Direction(i)
		out.Set(i, x*distance, y*distance, z*distance)
	}
	return out
}

// Slice returns the rays [from, to) as a bundle sharing storage with b.
func (b *RayBundle[R]) Slice(from, to int) *RayBundle[R] {
	return &RayBundle[R]{b.slice(from, to)}
}
