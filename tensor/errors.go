package tensor

import "fmt"

// ShapeError reports a malformed or under-ranked tensor.
type ShapeError struct {
	Op     string
	Shape  []int
	Reason string
}

// NewShapeError builds a ShapeError with a formatted reason.
func NewShapeError(op string, shape []int, format string, args ...interface{}) *ShapeError {
	return &ShapeError{
		Op:     op,
		Shape:  append([]int(nil), shape...),
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape %v: %s", e.Op, e.Shape, e.Reason)
}
