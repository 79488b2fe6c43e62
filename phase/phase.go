package phase

import (
	"math"

	"github.com/pkg/errors"

	"github.com/neurlang/gofeat/tensor"
)

// DefaultPower selects the power spectrum.
const DefaultPower = 2.0

// ErrInvalidPower is returned for non-positive powers.
var ErrInvalidPower = errors.New("power must be positive")

// Decompose splits a complex tensor (..., 2) into magnitude^power and phase,
// both shaped (...).
func Decompose(complx *tensor.Tensor, power float64) (*tensor.Tensor, *tensor.Tensor, error) {
	if power <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidPower, "decompose with power %g", power)
	}
	if complx == nil || complx.Dims() < 1 || complx.Dim(-1) != 2 {
		var shape []int
		if complx != nil {
			shape = complx.Shape
		}
		return nil, nil, tensor.NewShapeError("phase.Decompose", shape, "innermost axis must hold (real, imag)")
	}

	shape := complx.Shape[:complx.Dims()-1]
	mag := tensor.New(shape...)
	ph := tensor.New(shape...)
	for i := range mag.Data {
		re := complx.Data[2*i]
		im := complx.Data[2*i+1]
		energy := re*re + im*im
		if power == DefaultPower {
			mag.Data[i] = energy
		} else {
			mag.Data[i] = math.Pow(energy, power/2)
		}
		ph.Data[i] = math.Atan2(im, re)
	}
	return mag, ph, nil
}

// Recompose rebuilds a complex tensor (..., 2) from magnitude^power and phase.
func Recompose(mag, ph *tensor.Tensor, power float64) (*tensor.Tensor, error) {
	if power <= 0 {
		return nil, errors.Wrapf(ErrInvalidPower, "recompose with power %g", power)
	}
	if mag == nil || ph == nil {
		return nil, tensor.NewShapeError("phase.Recompose", nil, "nil magnitude or phase")
	}
	if !tensor.SameShape(mag.Shape, ph.Shape) {
		return nil, tensor.NewShapeError("phase.Recompose", mag.Shape, "phase shape %v differs", ph.Shape)
	}

	shape := append(append([]int(nil), mag.Shape...), 2)
	out := tensor.New(shape...)
	for i, m := range mag.Data {
		amp := math.Pow(m, 1/power)
		sin, cos := math.Sincos(ph.Data[i])
		out.Data[2*i] = amp * cos
		out.Data[2*i+1] = amp * sin
	}
	return out, nil
}
