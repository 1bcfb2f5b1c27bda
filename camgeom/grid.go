package camgeom

import "math"

// PixelGrid returns pixel coordinates sampled every step pixels over a width×height sensor,
// skipping border pixels on every side. Rows are ordered row-major (v outer, u inner).
func PixelGrid[R Real](width, height, step, border int) *Pixels[R] {
	if step <= 0 {
		return NewPixels[R](0)
	}
	var rows [][2]R
	for v := border; v < height-border; v += step {
		for u := border; u < width-border; u += step {
			rows = append(rows, [2]R{R(u), R(v)})
		}
	}
	return PixelsFromRows(rows...)
}

// ReprojectionErrors unprojects every pixel, projects the point at unit distance along
// the resulting ray, and returns the Euclidean pixel distance to the original for each row.
func ReprojectionErrors[R Real](cam IntrinsicParameters[R], pixels *Pixels[R]) []float64 {
	return PixelDistances(pixels, cam.CameraToPixel(cam.PixelToCamera(pixels).PointsAt(1)))
}

// PixelDistances returns the Euclidean distance between row i of a and row i of b. The
// tables must have the same length.
func PixelDistances[R Real](a, b *Pixels[R]) []float64 {
	dists := make([]float64, a.Len())
	for i := range dists {
		u0, v0 := a.At(i)
		u1, v1 := b.At(i)
		dists[i] = math.Hypot(float64(u1-u0), float64(v1-v0))
	}
	return dists
}
