// Package eucm implements the Extended Unified Camera Model, a closed-form camera model for
// lenses with strong radial distortion such as fisheyes.
//
// The model was described by B. Khomutenko, G. Garcia and P. Martinet in "An enhanced unified
// camera model" (IEEE RA-L, 2016). The formulation used here follows sections 2.2 and 2.3 of
// "The Double Sphere Camera Model" by V. Usenko, N. Demmel and D. Cremers (3DV 2018).
package eucm

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/eucm/camgeom"
)

// ErrInvalidParameters is wrapped by every error CheckValid returns.
var ErrInvalidParameters = errors.New("invalid extended unified camera parameters")

// Params holds the intrinsic parameters of an Extended Unified Camera Model.
//
// Any combination of values can be stored. The transforms assume fx, fy > 0, alpha in [0, 1]
// and beta > 0 but never check; use CheckValid when the values come from an untrusted source.
type Params[R camgeom.Real] struct {
	Fx    R `json:"fx"`
	Fy    R `json:"fy"`
	Cx    R `json:"cx"`
	Cy    R `json:"cy"`
	Alpha R `json:"alpha"`
	Beta  R `json:"beta"`
}

var (
	_ camgeom.IntrinsicParameters[float32] = (*Params[float32])(nil)
	_ camgeom.IntrinsicParameters[float64] = (*Params[float64])(nil)
)

// New returns the parameters with the given focal lengths, principal point and shape.
func New[R camgeom.Real](fx, fy, cx, cy, alpha, beta R) *Params[R] {
	return &Params[R]{Fx: fx, Fy: fy, Cx: cx, Cy: cy, Alpha: alpha, Beta: beta}
}

// CheckValid returns an error if the parameters are outside the domain the model is defined on.
func (p *Params[R]) CheckValid() error {
	if p == nil {
		return errors.Wrap(ErrInvalidParameters, "parameters do not exist")
	}
	for i, v := range p.Parameters() {
		if !camgeom.IsFinite(v) {
			return errors.Wrapf(ErrInvalidParameters, "%s is not finite (%v)", fieldNames[i], v)
		}
	}
	if p.Fx <= 0 {
		return errors.Wrapf(ErrInvalidParameters, "focal length fx must be positive, got %v", p.Fx)
	}
	if p.Fy <= 0 {
		return errors.Wrapf(ErrInvalidParameters, "focal length fy must be positive, got %v", p.Fy)
	}
	if p.Alpha < 0 || p.Alpha > 1 {
		return errors.Wrapf(ErrInvalidParameters, "alpha must be in [0, 1], got %v", p.Alpha)
	}
	if p.Beta <= 0 {
		return errors.Wrapf(ErrInvalidParameters, "beta must be positive, got %v", p.Beta)
	}
	return nil
}

var fieldNames = [...]string{"fx", "fy", "cx", "cy", "alpha", "beta"}

// Parameters returns fx, fy, cx, cy, alpha and beta, in that order.
func (p *Params[R]) Parameters() []float64 {
	if p == nil {
		return []float64{}
	}
	return []float64{
		float64(p.Fx), float64(p.Fy),
		float64(p.Cx), float64(p.Cy),
		float64(p.Alpha), float64(p.Beta),
	}
}

// Distortion returns the alpha and beta shape parameters as a Distorter.
func (p *Params[R]) Distortion() *Distortion {
	return &Distortion{Alpha: float64(p.Alpha), Beta: float64(p.Beta)}
}

// CameraMatrix returns the linear part of the model,
// [[fx 0 cx] [0 fy cy] [0 0 1]].
func (p *Params[R]) CameraMatrix() *mat.Dense {
	return camgeom.CameraMatrix(p.Fx, p.Fy, p.Cx, p.Cy)
}

func (p *Params[R]) String() string {
	return fmt.Sprintf("EUCM{fx: %v, fy: %v, cx: %v, cy: %v, alpha: %v, beta: %v}",
		p.Fx, p.Fy, p.Cx, p.Cy, p.Alpha, p.Beta)
}
