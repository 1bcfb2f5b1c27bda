package eucm

import (
	"math"

	"go.viam.com/eucm/camgeom"
)

// FieldOfView returns the horizontal, vertical and diagonal angles, in radians, spanned by a
// width×height sensor. Each is the sum of the angles between the optical axis and the rays
// through the two opposite edges (or corners). An edge outside the model's domain yields NaN.
func (p *Params[R]) FieldOfView(width, height int) (horizontal, vertical, diagonal float64) {
	w, h := R(width), R(height)
	rays := p.PixelToCamera(camgeom.PixelsFromRows(
		[2]R{0, p.Cy}, [2]R{w, p.Cy},
		[2]R{p.Cx, 0}, [2]R{p.Cx, h},
		[2]R{0, 0}, [2]R{w, h},
	))
	angle := func(i int) float64 {
		_, _, z := rays.Direction(i)
		return math.Acos(math.Max(-1, math.Min(1, float64(z))))
	}
	return angle(0) + angle(1), angle(2) + angle(3), angle(4) + angle(5)
}
