package eucm

import (
	"math"

	"github.com/pkg/errors"
)

// DistortionType is the name of the distortion model.
type DistortionType string

// ExtendedUnifiedDistortionType is for wide-angle and fisheye lenses modeled by alpha and beta.
const ExtendedUnifiedDistortionType = DistortionType("extended_unified")

// Distorter defines a Transform that takes an undistorted image and distorts it according to the model.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion_parameters"), msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case ExtendedUnifiedDistortionType:
		return NewDistortion(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// Distortion is the shape part of the model, acting on normalized image coordinates.
type Distortion struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// NewDistortion takes in a slice of floats that will be passed into the struct in order.
func NewDistortion(inp []float64) (*Distortion, error) {
	if len(inp) > 2 {
		return nil, errors.Errorf("list of parameters too long, expected max 2, got %d", len(inp))
	}
	for i := len(inp); i < 2; i++ { // fill missing values with 0.0
		inp = append(inp, 0.0)
	}
	return &Distortion{inp[0], inp[1]}, nil
}

// CheckValid checks if the fields for Distortion have valid inputs.
func (d *Distortion) CheckValid() error {
	if d == nil {
		return InvalidDistortionError("extended unified shaped distortion_parameters not provided")
	}
	if math.IsNaN(d.Alpha) || d.Alpha < 0 || d.Alpha > 1 {
		return InvalidDistortionError("alpha must be in [0, 1]")
	}
	if math.IsNaN(d.Beta) || math.IsInf(d.Beta, 0) || d.Beta <= 0 {
		return InvalidDistortionError("beta must be positive")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (d *Distortion) ModelType() DistortionType {
	return ExtendedUnifiedDistortionType
}

// Parameters returns alpha and beta.
func (d *Distortion) Parameters() []float64 {
	if d == nil {
		return []float64{}
	}
	return []float64{d.Alpha, d.Beta}
}

// Transform maps a pinhole-normalized point (x, y), i.e. the ray (x, y, 1), to its normalized
// position on the distorted image. Multiplying by the focal lengths and adding the principal
// point gives the pixel CameraToPixel would produce.
func (d *Distortion) Transform(x, y float64) (float64, float64) {
	if d == nil {
		return x, y
	}
	rho := math.Sqrt(d.Beta*(x*x+y*y) + 1)
	denom := d.Alpha*rho + (1 - d.Alpha)
	return x / denom, y / denom
}
