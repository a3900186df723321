// Package tensor provides a dense row-major float64 tensor with the
// pad-then-reshape routines used to partition resolution levels into
// fixed-size chunks. There is no broadcasting; every reshape is explicit.
package tensor

import "fmt"

type Tensor struct {
	shape []int
	data  []float64
}

// New allocates a zero-filled tensor of the given shape. All dimensions
// must be non-negative.
func New(shape ...int) *Tensor {
	n := 1
	for _, d := range shape {
		if d < 0 {
			panic(fmt.Sprintf("tensor: negative dimension %d", d))
		}
		n *= d
	}
	return &Tensor{
		shape: append([]int(nil), shape...),
		data:  make([]float64, n),
	}
}

// FromSlice wraps data in a tensor of the given shape. The slice is not
// copied; its length must equal the product of the dimensions.
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("tensor: negative dimension %d", d)
		}
		n *= d
	}
	if len(data) != n {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v", len(data), shape)
	}
	return &Tensor{
		shape: append([]int(nil), shape...),
		data:  data,
	}, nil
}

// Shape returns a copy of the tensor's dimensions.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

func (t *Tensor) Rank() int {
	return len(t.shape)
}

func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// SampleCount returns the size of the last (sample) axis.
func (t *Tensor) SampleCount() int {
	return t.shape[len(t.shape)-1]
}

// Rows returns the number of vectors along the last axis, i.e. the
// product of all leading dimensions.
func (t *Tensor) Rows() int {
	n := 1
	for _, d := range t.shape[:len(t.shape)-1] {
		n *= d
	}
	return n
}

// Row returns the i-th last-axis vector in row-major order. The returned
// slice aliases the tensor's storage.
func (t *Tensor) Row(i int) []float64 {
	n := t.SampleCount()
	return t.data[i*n : (i+1)*n]
}

// Vec returns the last-axis vector addressed by the leading indices.
// len(leading) must be Rank()-1.
func (t *Tensor) Vec(leading ...int) []float64 {
	if len(leading) != len(t.shape)-1 {
		panic(fmt.Sprintf("tensor: got %d indices for rank %d", len(leading), len(t.shape)))
	}
	offset := 0
	for axis, idx := range leading {
		if idx < 0 || idx >= t.shape[axis] {
			panic(fmt.Sprintf("tensor: index %d out of range for axis %d (size %d)", idx, axis, t.shape[axis]))
		}
		offset = offset*t.shape[axis] + idx
	}
	n := t.SampleCount()
	return t.data[offset*n : (offset+1)*n]
}

// PadTail returns a new tensor with `padding` zero samples appended along
// the last axis of every row. A padding of zero returns the receiver.
func (t *Tensor) PadTail(padding int) *Tensor {
	if padding < 0 {
		panic(fmt.Sprintf("tensor: negative padding %d", padding))
	}
	if padding == 0 {
		return t
	}

	oldN := t.SampleCount()
	newShape := t.Shape()
	newShape[len(newShape)-1] = oldN + padding

	out := New(newShape...)
	for i := 0; i < t.Rows(); i++ {
		copy(out.Row(i), t.Row(i))
	}
	return out
}

// SplitLast reshapes the last axis of size K*size into two axes
// (K, size). The storage is shared, not copied; row-major layout makes
// the reshape a pure reinterpretation.
func (t *Tensor) SplitLast(size int) (*Tensor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("tensor: invalid split size %d", size)
	}
	n := t.SampleCount()
	if n%size != 0 {
		return nil, fmt.Errorf("tensor: sample axis %d is not a multiple of %d", n, size)
	}

	newShape := t.Shape()
	newShape = append(newShape[:len(newShape)-1], n/size, size)

	return &Tensor{shape: newShape, data: t.data}, nil
}
