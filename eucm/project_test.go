package eucm

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/eucm/camgeom"
	"go.viam.com/eucm/camgeom/intrinsictest"
	"go.viam.com/eucm/logging"
)

const (
	sensorWidth  = 1920
	sensorHeight = 1080
	gridStep     = 65
	gridBorder   = 5
)

func loadCalibration[R camgeom.Real](t *testing.T) *Params[R] {
	t.Helper()
	params, err := NewParamsFromJSONFile[R]("testdata/eucm-cal.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, params.CheckValid(), test.ShouldBeNil)
	return params
}

func TestRoundtrip(t *testing.T) {
	t.Run("float32", func(t *testing.T) {
		intrinsictest.RoundtripIntrinsics(t, loadCalibration[float32](t), sensorWidth, sensorHeight, gridStep, gridBorder, 1e-3)
	})
	t.Run("float64", func(t *testing.T) {
		intrinsictest.RoundtripIntrinsics(t, loadCalibration[float64](t), sensorWidth, sensorHeight, gridStep, gridBorder, 1e-12)
	})
}

func TestReprojectionErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	params := loadCalibration[float64](t)
	pixels := camgeom.PixelGrid[float64](sensorWidth, sensorHeight, gridStep, gridBorder)
	errs := camgeom.ReprojectionErrors[float64](params, pixels)
	test.That(t, len(errs), test.ShouldEqual, pixels.Len())
	logger.Debugw("reprojection", "pixels", len(errs), "max_error", floats.Max(errs))
	test.That(t, floats.Max(errs), test.ShouldBeLessThan, 1e-9)
}

func TestUnitNorm(t *testing.T) {
	params := loadCalibration[float64](t)
	rays := params.PixelToCamera(camgeom.PixelGrid[float64](sensorWidth, sensorHeight, gridStep, gridBorder))
	test.That(t, rays.Len(), test.ShouldBeGreaterThan, 0)
	for i := 0; i < rays.Len(); i++ {
		test.That(t, floats.Norm(rays.Row(i), 2), test.ShouldAlmostEqual, 1, 1e-12)
	}

	params32 := loadCalibration[float32](t)
	rays32 := params32.PixelToCamera(camgeom.PixelGrid[float32](sensorWidth, sensorHeight, gridStep, gridBorder))
	for i := 0; i < rays32.Len(); i++ {
		x, y, z := rays32.Direction(i)
		norm := math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y) + float64(z)*float64(z))
		test.That(t, norm, test.ShouldAlmostEqual, 1, 1e-6)
	}
}

func TestPrincipalPoint(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		params := loadCalibration[float64](t)
		rays := params.PixelToCamera(camgeom.PixelsFromRows([2]float64{params.Cx, params.Cy}))
		x, y, z := rays.Direction(0)
		test.That(t, x, test.ShouldEqual, 0)
		test.That(t, y, test.ShouldEqual, 0)
		test.That(t, z, test.ShouldAlmostEqual, 1, 1e-15)
	})
	t.Run("float32", func(t *testing.T) {
		params := loadCalibration[float32](t)
		rays := params.PixelToCamera(camgeom.PixelsFromRows([2]float32{params.Cx, params.Cy}))
		x, y, z := rays.Direction(0)
		test.That(t, x, test.ShouldEqual, float32(0))
		test.That(t, y, test.ShouldEqual, float32(0))
		test.That(t, z, test.ShouldAlmostEqual, 1, 1e-6)
	})
	t.Run("optical axis projects to the principal point", func(t *testing.T) {
		params := loadCalibration[float64](t)
		pixel := params.PointToPixel(r3.Vector{Z: 3})
		test.That(t, pixel.X, test.ShouldEqual, params.Cx)
		test.That(t, pixel.Y, test.ShouldEqual, params.Cy)
	})
}

func TestEmptyTables(t *testing.T) {
	params := loadCalibration[float64](t)
	rays := params.PixelToCamera(camgeom.NewPixels[float64](0))
	test.That(t, rays, test.ShouldNotBeNil)
	test.That(t, rays.Len(), test.ShouldEqual, 0)

	pixels := params.CameraToPixel(camgeom.NewPoints[float64](0))
	test.That(t, pixels, test.ShouldNotBeNil)
	test.That(t, pixels.Len(), test.ShouldEqual, 0)

	params32 := loadCalibration[float32](t)
	test.That(t, params32.PixelToCamera(camgeom.NewPixels[float32](0)).Len(), test.ShouldEqual, 0)
	test.That(t, params32.CameraToPixel(camgeom.NewPoints[float32](0)).Len(), test.ShouldEqual, 0)
}

func TestPrecisionParity(t *testing.T) {
	params64 := loadCalibration[float64](t)
	params32 := loadCalibration[float32](t)
	pixels64 := camgeom.PixelGrid[float64](sensorWidth, sensorHeight, gridStep, gridBorder)
	pixels32 := camgeom.PixelGrid[float32](sensorWidth, sensorHeight, gridStep, gridBorder)

	rays64 := params64.PixelToCamera(pixels64)
	rays32 := params32.PixelToCamera(pixels32)
	test.That(t, rays32.Len(), test.ShouldEqual, rays64.Len())
	for i := 0; i < rays64.Len(); i++ {
		x64, y64, z64 := rays64.Direction(i)
		x32, y32, z32 := rays32.Direction(i)
		test.That(t, float64(x32), test.ShouldAlmostEqual, x64, 1e-5)
		test.That(t, float64(y32), test.ShouldAlmostEqual, y64, 1e-5)
		test.That(t, float64(z32), test.ShouldAlmostEqual, z64, 1e-5)
	}

	back64 := params64.CameraToPixel(rays64.PointsAt(1))
	back32 := params32.CameraToPixel(rays32.PointsAt(1))
	for i := 0; i < back64.Len(); i++ {
		u64, v64 := back64.At(i)
		u32, v32 := back32.At(i)
		test.That(t, cmp.Equal([]float64{float64(u32), float64(v32)}, []float64{u64, v64}, cmpopts.EquateApprox(1e-3, 1e-3)), test.ShouldBeTrue)
	}
}

func TestAlphaZeroIsPinhole(t *testing.T) {
	params := New(500.0, 510.0, 320.0, 240.0, 0, 0.8)
	pinhole := &camgeom.PinholeIntrinsics[float64]{Width: 640, Height: 480, Fx: 500, Fy: 510, Ppx: 320, Ppy: 240}
	test.That(t, pinhole.CheckValid(), test.ShouldBeNil)

	pixels := camgeom.PixelGrid[float64](640, 480, 40, 0)
	rays := params.PixelToCamera(pixels)
	pinholeRays := pinhole.PixelToCamera(pixels)
	for i := 0; i < rays.Len(); i++ {
		test.That(t, floats.EqualApprox(rays.Row(i), pinholeRays.Row(i), 1e-15), test.ShouldBeTrue)
	}

	points := camgeom.PointsFromRows([3]float64{0.1, -0.2, 1}, [3]float64{-3, 2, 7}, [3]float64{0, 0, 0.5})
	got := params.CameraToPixel(points)
	want := pinhole.CameraToPixel(points)
	for i := 0; i < got.Len(); i++ {
		test.That(t, floats.EqualApprox(got.Row(i), want.Row(i), 1e-12), test.ShouldBeTrue)
	}
	test.That(t, params.CameraMatrix().RawMatrix().Data, test.ShouldResemble, pinhole.GetCameraMatrix().RawMatrix().Data)
}

func TestNonFinitePropagation(t *testing.T) {
	t.Run("negative radicand", func(t *testing.T) {
		params := New(100.0, 100.0, 0, 0, 0.9, 2)
		test.That(t, params.IsValidPixel(1000, 0), test.ShouldBeFalse)
		rays := params.PixelToCamera(camgeom.PixelsFromRows([2]float64{1000, 0}))
		test.That(t, rays.Len(), test.ShouldEqual, 1)
		for _, v := range rays.Row(0) {
			test.That(t, math.IsNaN(v), test.ShouldBeTrue)
		}
	})
	t.Run("float32 negative radicand", func(t *testing.T) {
		params := New[float32](100, 100, 0, 0, 0.9, 2)
		rays := params.PixelToCamera(camgeom.PixelsFromRows([2]float32{1000, 0}))
		for _, v := range rays.Row(0) {
			test.That(t, math.IsNaN(float64(v)), test.ShouldBeTrue)
		}
	})
	t.Run("zero denominator", func(t *testing.T) {
		params := New(100.0, 100.0, 50, 50, 0, 1)
		test.That(t, params.IsValidPoint(1, 0, 0), test.ShouldBeFalse)
		pixels := params.CameraToPixel(camgeom.PointsFromRows([3]float64{1, 0, 0}))
		u, v := pixels.At(0)
		test.That(t, math.IsInf(u, 1), test.ShouldBeTrue)
		test.That(t, math.IsNaN(v), test.ShouldBeTrue)
	})
	t.Run("degenerate parameters are not rejected", func(t *testing.T) {
		params := New(0.0, 0.0, 0, 0, 2, -1)
		test.That(t, params.CheckValid(), test.ShouldNotBeNil)
		rays := params.PixelToCamera(camgeom.PixelsFromRows([2]float64{1, 1}))
		test.That(t, rays.Len(), test.ShouldEqual, 1)
		pixels := params.CameraToPixel(camgeom.PointsFromRows([3]float64{1, 1, 1}))
		test.That(t, pixels.Len(), test.ShouldEqual, 1)
	})
}

func TestValidity(t *testing.T) {
	params := loadCalibration[float64](t)
	test.That(t, params.IsValidPixel(gridBorder, gridBorder), test.ShouldBeTrue)
	test.That(t, params.IsValidPixel(sensorWidth-gridBorder, sensorHeight-gridBorder), test.ShouldBeTrue)
	test.That(t, params.IsValidPixel(1e5, 1e5), test.ShouldBeFalse)

	test.That(t, params.IsValidPoint(0, 0, 1), test.ShouldBeTrue)
	// alpha > 0.5 sees slightly behind the image plane.
	test.That(t, params.IsValidPoint(0, 0, -1), test.ShouldBeTrue)

	narrow := New(500.0, 500.0, 320, 240, 0.3, 1)
	test.That(t, narrow.IsValidPoint(0, 0, -1), test.ShouldBeFalse)
}

func TestSinglePoint(t *testing.T) {
	params := loadCalibration[float64](t)
	pixel := r2.Point{X: 100, Y: 900}
	ray := params.PixelToRay(pixel)
	test.That(t, ray.Norm(), test.ShouldAlmostEqual, 1, 1e-12)

	rays := params.PixelToCamera(camgeom.PixelsFromRows([2]float64{pixel.X, pixel.Y}))
	x, y, z := rays.Direction(0)
	test.That(t, ray, test.ShouldResemble, r3.Vector{X: x, Y: y, Z: z})

	// any positive distance along the ray lands on the same pixel
	back := params.PointToPixel(ray.Mul(4.5))
	test.That(t, back.X, test.ShouldAlmostEqual, pixel.X, 1e-9)
	test.That(t, back.Y, test.ShouldAlmostEqual, pixel.Y, 1e-9)
}

func TestParallelMatchesSequential(t *testing.T) {
	params := loadCalibration[float64](t)
	pixels := camgeom.PixelGrid[float64](sensorWidth, sensorHeight, 13, gridBorder)

	rays, err := camgeom.ParallelPixelToCamera[float64](context.Background(), params, pixels)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmp.Diff(params.PixelToCamera(pixels).Dense().RawMatrix().Data, rays.Dense().RawMatrix().Data), test.ShouldBeEmpty)

	points := rays.PointsAt(2)
	back, err := camgeom.ParallelCameraToPixel[float64](context.Background(), params, points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmp.Diff(params.CameraToPixel(points).Dense().RawMatrix().Data, back.Dense().RawMatrix().Data), test.ShouldBeEmpty)
}
