package camgeom

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestSqrt(t *testing.T) {
	test.That(t, Sqrt(2.0), test.ShouldEqual, math.Sqrt2)
	test.That(t, Sqrt(float32(2)), test.ShouldEqual, float32(math.Sqrt2))
	test.That(t, math.IsNaN(Sqrt(-1.0)), test.ShouldBeTrue)
	test.That(t, math.IsNaN(float64(Sqrt(float32(-1)))), test.ShouldBeTrue)

	type meters float32
	test.That(t, Sqrt(meters(9)), test.ShouldEqual, meters(3))
}

func TestPowi(t *testing.T) {
	test.That(t, Powi(3.0, 0), test.ShouldEqual, 1.0)
	test.That(t, Powi(3.0, 1), test.ShouldEqual, 3.0)
	test.That(t, Powi(3.0, 2), test.ShouldEqual, 9.0)
	test.That(t, Powi(2.0, 10), test.ShouldEqual, 1024.0)
	test.That(t, Powi(2.0, -2), test.ShouldEqual, 0.25)
	test.That(t, Powi(float32(1.5), 3), test.ShouldEqual, float32(3.375))
	x := 0.1
	test.That(t, Powi(x, 2), test.ShouldEqual, x*x)
}

func TestConvertAndIsFinite(t *testing.T) {
	test.That(t, Convert[float32](0.5), test.ShouldEqual, float32(0.5))
	test.That(t, Convert[float64](2), test.ShouldEqual, 2.0)
	test.That(t, IsFinite(1.0), test.ShouldBeTrue)
	test.That(t, IsFinite(math.Inf(-1)), test.ShouldBeFalse)
	test.That(t, IsFinite(float32(math.NaN())), test.ShouldBeFalse)
}
