package camgeom

import (
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Real is the scalar field the camera models are generic over.
type Real interface {
	constraints.Float
}

// Convert constructs an R from a float64 literal.
func Convert[R Real](f float64) R {
	return R(f)
}

// Sqrt returns the square root of x, computed at the precision of R.
// Negative inputs yield NaN.
func Sqrt[R Real](x R) R {
	if unsafe.Sizeof(x) == 4 {
		return R(math32.Sqrt(float32(x)))
	}
	return R(math.Sqrt(float64(x)))
}

// Powi raises x to the integer power n.
func Powi[R Real](x R, n int) R {
	if n < 0 {
		return 1 / Powi(x, -n)
	}
	result := R(1)
	for n > 0 {
		if n&1 == 1 {
			result *= x
		}
		x *= x
		n >>= 1
	}
	return result
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite[R Real](x R) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
