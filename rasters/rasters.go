// A dense numeric field package modeled on the array handling in
// https://github.com/ctessum/sparse

package rasters

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Raster is a numeric field with an arbitrary number of dimensions and an
// optional spatial reference. A Raster with an empty Shape holds a single
// scalar value. Binary operations broadcast scalars against arrays and
// require identical shapes otherwise.
type Raster struct {
	elements []float64
	ndims    int
	Shape    []int
	arrsize  int
	Geometry *RasterGeometry
}

// Scalar wraps a single value as a zero-dimensional Raster.
func Scalar(val float64) *Raster {
	return &Raster{
		elements: []float64{val},
		ndims:    0,
		Shape:    []int{},
		arrsize:  1,
	}
}

// FromSlice builds a Raster from values laid out in row-major order over the
// given dimensions. With no dimensions, the values form a one-dimensional
// array.
func FromSlice(values []float64, dims ...int) *Raster {
	if len(dims) == 0 {
		dims = []int{len(values)}
	}
	arrsize := 1
	for _, d := range dims {
		arrsize *= d
	}
	if len(values) != arrsize {
		panic(fmt.Errorf("rasters: %v values do not fill shape %v", len(values), dims))
	}
	return &Raster{
		elements: values,
		ndims:    len(dims),
		Shape:    dims,
		arrsize:  arrsize,
	}
}

// Zeros initializes a zero-filled Raster of the given shape.
func Zeros(dims ...int) *Raster {
	arrsize := 1
	for _, d := range dims {
		arrsize *= d
	}
	return &Raster{
		elements: make([]float64, arrsize),
		ndims:    len(dims),
		Shape:    dims,
		arrsize:  arrsize,
	}
}

// NewRaster builds a georeferenced Raster from row-major values over the
// geometry's grid.
func NewRaster(values []float64, geometry *RasterGeometry) *Raster {
	A := FromSlice(values, geometry.Rows, geometry.Cols)
	A.Geometry = geometry
	return A
}

// Wrap returns A carrying the given geometry. A Raster already georeferenced
// is returned unchanged. The shape must fill the geometry's grid unless A is
// a scalar, which is expanded over the grid.
func Wrap(A *Raster, geometry *RasterGeometry) *Raster {
	if A.IsGeoreferenced() {
		return A
	}
	if A.IsScalar() {
		B := Zeros(geometry.Rows, geometry.Cols)
		for i := range B.elements {
			B.elements[i] = A.elements[0]
		}
		B.Geometry = geometry
		return B
	}
	if A.arrsize != geometry.Rows*geometry.Cols {
		panic(fmt.Errorf("rasters: array of shape %v does not fill %vx%v grid",
			A.Shape, geometry.Rows, geometry.Cols))
	}
	B := A.Copy()
	B.Shape = []int{geometry.Rows, geometry.Cols}
	B.ndims = 2
	B.Geometry = geometry
	return B
}

// Copy an array.
func (A *Raster) Copy() *Raster {
	B := &Raster{
		elements: make([]float64, A.arrsize),
		ndims:    A.ndims,
		Shape:    A.Shape,
		arrsize:  A.arrsize,
		Geometry: A.Geometry,
	}
	copy(B.elements, A.elements)
	return B
}

// IsScalar reports whether A holds a single unshaped value.
func (A *Raster) IsScalar() bool { return A.ndims == 0 }

// IsGeoreferenced reports whether A carries a spatial reference.
func (A *Raster) IsGeoreferenced() bool { return A.Geometry != nil }

// Value returns the value of a scalar Raster.
func (A *Raster) Value() float64 {
	if !A.IsScalar() {
		panic(fmt.Errorf("rasters: Value called on array of shape %v", A.Shape))
	}
	return A.elements[0]
}

// Values returns the underlying elements in row-major order.
func (A *Raster) Values() []float64 { return A.elements }

// Len returns the number of elements.
func (A *Raster) Len() int { return A.arrsize }

// Convert n-dimensional index to one-dimensional index.
func (A *Raster) index1d(index []int) int {
	if len(index) != A.ndims {
		panic(fmt.Errorf("rasters: index number of dimensions (%v) does not "+
			"match array number of dimensions (%v)", len(index), A.ndims))
	}
	index1d := 0
	for i, d := range index {
		if d < 0 || d >= A.Shape[i] {
			panic(fmt.Errorf("rasters: index %v of dimension %v is outside "+
				"dimension size %v", d, i, A.Shape[i]))
		}
		mul := 1
		for _, s := range A.Shape[i+1:] {
			mul *= s
		}
		index1d += d * mul
	}
	return index1d
}

// Get returns the value at the given index.
func (A *Raster) Get(index ...int) float64 {
	if A.IsScalar() && len(index) == 0 {
		return A.elements[0]
	}
	return A.elements[A.index1d(index)]
}

// Set the value at the given index.
func (A *Raster) Set(val float64, index ...int) {
	if A.IsScalar() && len(index) == 0 {
		A.elements[0] = val
		return
	}
	A.elements[A.index1d(index)] = val
}

// Make sure arrays are broadcastable against each other.
func (A *Raster) checkBroadcast(B *Raster) {
	if A.IsScalar() || B.IsScalar() {
		return
	}
	if B.ndims != A.ndims {
		panic(fmt.Errorf("rasters: number of dimensions in array A (%v) does "+
			"not match number of dimensions in array B (%v)", A.ndims, B.ndims))
	}
	for i, dim := range A.Shape {
		if B.Shape[i] != dim {
			panic(fmt.Errorf("rasters: dimension %v is different in arrays "+
				"A (%v) and B (%v)", i, A.Shape[i], B.Shape[i]))
		}
	}
}

// Result carrier for a binary operation: the shape of whichever operand is an
// array, and the geometry of whichever operand carries one (A wins a tie).
func (A *Raster) binaryResult(B *Raster) *Raster {
	var C *Raster
	if A.IsScalar() && !B.IsScalar() {
		C = Zeros(B.Shape...)
	} else {
		C = Zeros(A.Shape...)
	}
	if A.Geometry != nil {
		C.Geometry = A.Geometry
	} else {
		C.Geometry = B.Geometry
	}
	return C
}

func (A *Raster) broadcastOp(B *Raster, op func(dst, a, b []float64), scalarOp func(a, b float64) float64) *Raster {
	A.checkBroadcast(B)
	C := A.binaryResult(B)
	switch {
	case A.arrsize == B.arrsize:
		op(C.elements, A.elements, B.elements)
	case A.IsScalar():
		a := A.elements[0]
		for i, b := range B.elements {
			C.elements[i] = scalarOp(a, b)
		}
	default:
		b := B.elements[0]
		for i, a := range A.elements {
			C.elements[i] = scalarOp(a, b)
		}
	}
	return C
}

// Add returns the elementwise sum A + B.
func (A *Raster) Add(B *Raster) *Raster {
	return A.broadcastOp(B,
		func(dst, a, b []float64) { floats.AddTo(dst, a, b) },
		func(a, b float64) float64 { return a + b })
}

// Subtract returns the elementwise difference A - B.
func (A *Raster) Subtract(B *Raster) *Raster {
	return A.broadcastOp(B,
		func(dst, a, b []float64) { floats.SubTo(dst, a, b) },
		func(a, b float64) float64 { return a - b })
}

// Multiply returns the elementwise product A * B.
func (A *Raster) Multiply(B *Raster) *Raster {
	return A.broadcastOp(B,
		func(dst, a, b []float64) { floats.MulTo(dst, a, b) },
		func(a, b float64) float64 { return a * b })
}

// Divide returns the elementwise quotient A / B.
func (A *Raster) Divide(B *Raster) *Raster {
	return A.broadcastOp(B,
		func(dst, a, b []float64) { floats.DivTo(dst, a, b) },
		func(a, b float64) float64 { return a / b })
}

// AddScalar returns A with val added to every element.
func (A *Raster) AddScalar(val float64) *Raster {
	return A.Apply(func(a float64) float64 { return a + val })
}

// MultiplyScalar returns A with every element scaled by val.
func (A *Raster) MultiplyScalar(val float64) *Raster {
	return A.Apply(func(a float64) float64 { return a * val })
}

// Apply returns A with f applied to every element.
func (A *Raster) Apply(f func(float64) float64) *Raster {
	B := A.Copy()
	for i, v := range B.elements {
		B.elements[i] = f(v)
	}
	return B
}

// Clip returns A with every element constrained to [min, max].
func (A *Raster) Clip(min, max float64) *Raster {
	return A.Apply(func(v float64) float64 {
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	})
}

// ClipMin returns A with every element constrained to be at least min.
func (A *Raster) ClipMin(min float64) *Raster {
	return A.Apply(func(v float64) float64 {
		if v < min {
			return min
		}
		return v
	})
}

// Where selects elementwise from x where cond is nonzero and from y
// elsewhere, with scalar broadcasting across all three operands.
func Where(cond, x, y *Raster) *Raster {
	cond.checkBroadcast(x)
	cond.checkBroadcast(y)
	x.checkBroadcast(y)
	C := cond.binaryResult(x)
	if C.IsScalar() && !y.IsScalar() {
		C = cond.binaryResult(y)
	}
	if C.Geometry == nil {
		C.Geometry = y.Geometry
	}
	at := func(A *Raster, i int) float64 {
		if A.IsScalar() {
			return A.elements[0]
		}
		return A.elements[i]
	}
	for i := range C.elements {
		if at(cond, i) != 0 {
			C.elements[i] = at(x, i)
		} else {
			C.elements[i] = at(y, i)
		}
	}
	return C
}
