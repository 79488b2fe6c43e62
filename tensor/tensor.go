package tensor

import "github.com/x448/float16"

// Tensor is a dense row-major array of float64 values.
type Tensor struct {
	Shape []int
	Data  []float64
}

// New allocates a zero tensor of the given shape.
func New(shape ...int) *Tensor {
	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, Volume(shape)),
	}
}

// FromData wraps data without copying. The length of data must match the shape.
func FromData(data []float64, shape ...int) (*Tensor, error) {
	if Volume(shape) != len(data) {
		return nil, NewShapeError("tensor.FromData", shape, "expected %d values, got %d", Volume(shape), len(data))
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Volume returns the number of elements described by shape.
func Volume(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Leading returns the product of all dims of shape except the last k.
func Leading(shape []int, k int) int {
	if k > len(shape) {
		return 1
	}
	return Volume(shape[:len(shape)-k])
}

// SameShape reports whether a and b describe the same shape.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dims returns the rank of the tensor.
func (t *Tensor) Dims() int {
	return len(t.Shape)
}

// Dim returns the size of axis i. Negative i counts from the innermost axis.
func (t *Tensor) Dim(i int) int {
	if i < 0 {
		i += len(t.Shape)
	}
	return t.Shape[i]
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  make([]float64, len(t.Data)),
	}
	copy(out.Data, t.Data)
	return out
}

// Reshape returns a view with a new shape over the same data.
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	if Volume(shape) != len(t.Data) {
		return nil, NewShapeError("tensor.Reshape", t.Shape, "cannot reshape %d values to %v", len(t.Data), shape)
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: t.Data}, nil
}

// Select copies out index along axis dim, removing that axis.
// Negative dim counts from the innermost axis.
func (t *Tensor) Select(dim, index int) (*Tensor, error) {
	if dim < 0 {
		dim += len(t.Shape)
	}
	if dim < 0 || dim >= len(t.Shape) {
		return nil, NewShapeError("tensor.Select", t.Shape, "axis %d out of range", dim)
	}
	n := t.Shape[dim]
	if index < 0 || index >= n {
		return nil, NewShapeError("tensor.Select", t.Shape, "index %d out of range for axis %d", index, dim)
	}
	outer := Volume(t.Shape[:dim])
	inner := Volume(t.Shape[dim+1:])

	shape := make([]int, 0, len(t.Shape)-1)
	shape = append(shape, t.Shape[:dim]...)
	shape = append(shape, t.Shape[dim+1:]...)
	out := New(shape...)
	for o := 0; o < outer; o++ {
		src := t.Data[(o*n+index)*inner : (o*n+index+1)*inner]
		copy(out.Data[o*inner:(o+1)*inner], src)
	}
	return out, nil
}

// SwapLast returns a copy with the two innermost axes transposed.
func (t *Tensor) SwapLast() (*Tensor, error) {
	if len(t.Shape) < 2 {
		return nil, NewShapeError("tensor.SwapLast", t.Shape, "need at least 2 dims")
	}
	rows, cols := t.Dim(-2), t.Dim(-1)
	shape := append([]int(nil), t.Shape...)
	shape[len(shape)-2], shape[len(shape)-1] = cols, rows
	out := New(shape...)
	plane := rows * cols
	for b := 0; b < Leading(t.Shape, 2); b++ {
		src := t.Data[b*plane : (b+1)*plane]
		dst := out.Data[b*plane : (b+1)*plane]
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				dst[c*rows+r] = src[r*cols+c]
			}
		}
	}
	return out, nil
}

// Half encodes the tensor data as IEEE 754 half precision bit patterns.
func (t *Tensor) Half() []uint16 {
	out := make([]uint16, len(t.Data))
	for i, v := range t.Data {
		out[i] = float16.Fromfloat32(float32(v)).Bits()
	}
	return out
}

// FromHalf decodes half precision bit patterns into a tensor of the given shape.
func FromHalf(bits []uint16, shape ...int) (*Tensor, error) {
	if Volume(shape) != len(bits) {
		return nil, NewShapeError("tensor.FromHalf", shape, "expected %d values, got %d", Volume(shape), len(bits))
	}
	out := New(shape...)
	for i, b := range bits {
		out.Data[i] = float64(float16.Frombits(b).Float32())
	}
	return out, nil
}
