package camgeom

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
// It is the undistorted reference model: rays are returned normalized to unit length.
type PinholeIntrinsics[R Real] struct {
	Width  int `json:"width_px"`
	Height int `json:"height_px"`
	Fx     R   `json:"fx"`
	Fy     R   `json:"fy"`
	Ppx    R   `json:"ppx"`
	Ppy    R   `json:"ppy"`
}

// CheckValid checks if the fields for PinholeIntrinsics have valid inputs.
func (params *PinholeIntrinsics[R]) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width == 0 || params.Height == 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// PixelToCamera returns the unit ray through each pixel.
func (params *PinholeIntrinsics[R]) PixelToCamera(pixels *Pixels[R]) *RayBundle[R] {
	n := pixels.Len()
	result := NewRayBundle[R](n)
	for i := 0; i < n; i++ {
		u, v := pixels.At(i)
		x := (u - params.Ppx) / params.Fx
		y := (v - params.Ppy) / params.Fy
		norm := 1 / Sqrt(x*x+y*y+1)
		result.SetDirection(i, x*norm, y*norm, norm)
	}
	return result
}

// CameraToPixel projects each point through the pinhole. Points with z = 0 yield
// non-finite pixels.
func (params *PinholeIntrinsics[R]) CameraToPixel(points *Points[R]) *Pixels[R] {
	n := points.Len()
	result := NewPixels[R](n)
	for i := 0; i < n; i++ {
		x, y, z := points.At(i)
		result.Set(i, params.Fx*(x/z)+params.Ppx, params.Fy*(y/z)+params.Ppy)
	}
	return result
}

// GetCameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *PinholeIntrinsics[R]) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	return CameraMatrix(params.Fx, params.Fy, params.Ppx, params.Ppy)
}

// CameraMatrix returns the 3×3 linear part of a camera model with the given focal lengths and
// principal point.
func CameraMatrix[R Real](fx, fy, cx, cy R) *mat.Dense {
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, float64(fx))
	cameraMatrix.Set(1, 1, float64(fy))
	cameraMatrix.Set(0, 2, float64(cx))
	cameraMatrix.Set(1, 2, float64(cy))
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}
