package feature

import "github.com/neurlang/gofeat/tensor"

// DeltaWindow is the regression window length, two frames on each side.
const DeltaWindow = 5

// Delta computes regression deltas along the last (time) axis of x shaped
// (..., feature, time). win is the odd window length; frames beyond the edges
// repeat the boundary frame, so the time axis keeps its length:
//
//	d[t] = sum_{n=1}^{N} n*(c[t+n] - c[t-n]) / (2 * sum_{n=1}^{N} n^2),  N = (win-1)/2
func Delta(x *tensor.Tensor, win int) (*tensor.Tensor, error) {
	if win < 3 || win%2 == 0 {
		return nil, &ConfigError{Field: "delta window", Value: win, Reason: "must be odd and at least 3"}
	}
	if x.Dims() < 1 {
		return nil, tensor.NewShapeError("feature.Delta", x.Shape, "need a time axis")
	}
	N := (win - 1) / 2
	denom := 0.0
	for n := 1; n <= N; n++ {
		denom += float64(n * n)
	}
	denom *= 2

	T := x.Dim(-1)
	out := tensor.New(x.Shape...)
	if T == 0 {
		return out, nil
	}
	for r := 0; r < tensor.Leading(x.Shape, 1); r++ {
		src := x.Data[r*T : (r+1)*T]
		dst := out.Data[r*T : (r+1)*T]
		for t := 0; t < T; t++ {
			num := 0.0
			for n := 1; n <= N; n++ {
				tp := t + n
				if tp >= T {
					tp = T - 1
				}
				tn := t - n
				if tn < 0 {
					tn = 0
				}
				num += float64(n) * (src[tp] - src[tn])
			}
			dst[t] = num / denom
		}
	}
	return out, nil
}

// AppendDeltas stacks x with its first order deltas, each computed from the
// previous one, along the feature axis: [x, d1, ..., d_order].
func AppendDeltas(x *tensor.Tensor, order int) (*tensor.Tensor, error) {
	blocks := []*tensor.Tensor{x}
	for i := 0; i < order; i++ {
		d, err := Delta(blocks[len(blocks)-1], DeltaWindow)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, d)
	}
	return concatFeatures(blocks), nil
}

// concatFeatures joins same-shaped (..., feature, time) blocks along the feature axis.
func concatFeatures(blocks []*tensor.Tensor) *tensor.Tensor {
	if len(blocks) == 1 {
		return blocks[0]
	}
	first := blocks[0]
	D, T := first.Dim(-2), first.Dim(-1)
	shape := append([]int(nil), first.Shape...)
	shape[len(shape)-2] = D * len(blocks)
	out := tensor.New(shape...)

	plane := D * T
	for b := 0; b < tensor.Leading(first.Shape, 2); b++ {
		for i, blk := range blocks {
			copy(out.Data[(b*len(blocks)+i)*plane:], blk.Data[b*plane:(b+1)*plane])
		}
	}
	return out
}
