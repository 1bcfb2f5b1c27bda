package eucm

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"go.viam.com/eucm/camgeom"
)

// PixelToCamera returns the unit-length viewing ray through each pixel, in the camera frame.
//
// This is equations 18-22 of Usenko et al. Pixels outside the field of view described by
// alpha and beta produce NaN or infinite components; nothing is clamped.
func (p *Params[R]) PixelToCamera(pixels *camgeom.Pixels[R]) *camgeom.RayBundle[R] {
	n := pixels.Len()
	result := camgeom.NewRayBundle[R](n)

	one := camgeom.Convert[R](1.0)
	two := camgeom.Convert[R](2.0)

	for i := 0; i < n; i++ {
		u, v := pixels.At(i)
		mx := (u - p.Cx) / p.Fx
		my := (v - p.Cy) / p.Fy
		rad2 := mx*mx + my*my
		mzNum := one - p.Beta*camgeom.Powi(p.Alpha, 2)*rad2
		mzDenom := p.Alpha*camgeom.Sqrt(one-(two*p.Alpha-one)*p.Beta*rad2) + (one - p.Alpha)
		mz := mzNum / mzDenom
		norm := one / camgeom.Sqrt(camgeom.Powi(mx, 2)+camgeom.Powi(my, 2)+camgeom.Powi(mz, 2))
		result.SetDirection(i, mx*norm, my*norm, mz*norm)
	}
	return result
}

// CameraToPixel projects each camera-frame point onto the image.
//
// This is equations 16 and 17 of Usenko et al. Points for which alpha*d + (1-alpha)*z is zero
// or negative, e.g. points behind a narrow camera, produce non-finite or meaningless pixels.
func (p *Params[R]) CameraToPixel(points *camgeom.Points[R]) *camgeom.Pixels[R] {
	n := points.Len()
	result := camgeom.NewPixels[R](n)

	one := camgeom.Convert[R](1.0)

	for i := 0; i < n; i++ {
		x, y, z := points.At(i)
		d := camgeom.Sqrt(p.Beta*(x*x+y*y) + z*z)
		denom := p.Alpha*d + (one-p.Alpha)*z
		u := p.Fx*(x/denom) + p.Cx
		v := p.Fy*(y/denom) + p.Cy
		result.Set(i, u, v)
	}
	return result
}

// IsValidPixel reports whether (u, v) lies in the domain of PixelToCamera: the square root
// argument is non-negative and the denominator is non-zero.
func (p *Params[R]) IsValidPixel(u, v R) bool {
	mx := (u - p.Cx) / p.Fx
	my := (v - p.Cy) / p.Fy
	rad2 := mx*mx + my*my
	radicand := 1 - (2*p.Alpha-1)*p.Beta*rad2
	if !(radicand >= 0) {
		return false
	}
	mzDenom := p.Alpha*camgeom.Sqrt(radicand) + (1 - p.Alpha)
	return mzDenom != 0 && camgeom.IsFinite(mzDenom)
}

// IsValidPoint reports whether (x, y, z) projects through a positive denominator.
func (p *Params[R]) IsValidPoint(x, y, z R) bool {
	d := camgeom.Sqrt(p.Beta*(x*x+y*y) + z*z)
	return p.Alpha*d+(1-p.Alpha)*z > 0
}

// PixelToRay is PixelToCamera for a single pixel.
func (p *Params[R]) PixelToRay(pixel r2.Point) r3.Vector {
	rays := p.PixelToCamera(camgeom.PixelsFromRows([2]R{R(pixel.X), R(pixel.Y)}))
	x, y, z := rays.Direction(0)
	return r3.Vector{X: float64(x), Y: float64(y), Z: float64(z)}
}

// PointToPixel is CameraToPixel for a single point.
func (p *Params[R]) PointToPixel(pt r3.Vector) r2.Point {
	pixels := p.CameraToPixel(camgeom.PointsFromRows([3]R{R(pt.X), R(pt.Y), R(pt.Z)}))
	u, v := pixels.At(0)
	return r2.Point{X: float64(u), Y: float64(v)}
}
