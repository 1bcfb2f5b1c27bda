// Package intrinsictest provides test helpers shared by camera model implementations.
package intrinsictest

import (
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/floats/scalar"

	"go.viam.com/eucm/camgeom"
)

// RoundtripIntrinsics checks that cam.CameraToPixel inverts cam.PixelToCamera on a grid of
// pixels covering a width×height sensor sampled every step pixels, border pixels in from
// each edge. Each coordinate must match within eps absolutely.
func RoundtripIntrinsics[R camgeom.Real](
	tb testing.TB,
	cam camgeom.IntrinsicParameters[R],
	width, height, step, border int,
	eps R,
) {
	tb.Helper()
	pixels := camgeom.PixelGrid[R](width, height, step, border)
	test.That(tb, pixels.Len(), test.ShouldBeGreaterThan, 0)

	rays := cam.PixelToCamera(pixels)
	test.That(tb, rays.Len(), test.ShouldEqual, pixels.Len())
	points := rays.PointsAt(1)
	pixels2 := cam.CameraToPixel(points)
	test.That(tb, pixels2.Len(), test.ShouldEqual, pixels.Len())

	tol := float64(eps)
	for i := 0; i < pixels.Len(); i++ {
		orig := pixels.Row(i)
		got := pixels2.Row(i)
		for j := range orig {
			if !scalar.EqualWithinAbs(float64(orig[j]), float64(got[j]), tol) {
				tb.Errorf("row %d column %d: pixel %v reprojected to %v (tolerance %g)", i, j, orig, got, tol)
			}
		}
	}
}
