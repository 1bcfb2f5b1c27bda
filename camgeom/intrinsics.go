package camgeom

// IntrinsicParameters is implemented by camera models that map between pixels and the
// camera frame. Implementations must accept tables of any length, including zero, and
// return a newly allocated table with the same number of rows.
type IntrinsicParameters[R Real] interface {
	// PixelToCamera returns a unit-length viewing ray through each pixel.
	PixelToCamera(pixels *Pixels[R]) *RayBundle[R]
	// CameraToPixel projects each camera-frame point onto the image.
	CameraToPixel(points *Points[R]) *Pixels[R]
}
