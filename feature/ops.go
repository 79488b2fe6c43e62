package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/neurlang/gofeat/tensor"
)

// Epsilon stabilizes the log and the CMVN division.
const Epsilon = 1e-10

// Log returns log(x + Epsilon) element-wise.
func Log(x *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		out.Data[i] = math.Log(v + Epsilon)
	}
	return out
}

// CMVN normalizes every feature row of x shaped (..., feature, time) to zero
// mean and unit standard deviation over time. The standard deviation is the
// unbiased estimate; rows shorter than two frames are only mean-centered.
func CMVN(x *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(x.Shape...)
	if x.Dims() < 1 {
		return out
	}
	T := x.Dim(-1)
	if T == 0 {
		return out
	}
	for r := 0; r < tensor.Leading(x.Shape, 1); r++ {
		src := x.Data[r*T : (r+1)*T]
		dst := out.Data[r*T : (r+1)*T]
		mean, std := stat.Mean(src, nil), 0.0
		if T > 1 {
			mean, std = stat.MeanStdDev(src, nil)
		}
		for t, v := range src {
			dst[t] = (v - mean) / (std + Epsilon)
		}
	}
	return out
}
