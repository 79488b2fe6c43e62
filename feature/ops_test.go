package feature

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/neurlang/gofeat/tensor"
)

func TestLog_ZerosFinite(t *testing.T) {
	out := Log(tensor.New(2, 4, 5))
	for _, v := range out.Data {
		require.False(t, math.IsInf(v, 0) || math.IsNaN(v))
		assert.InDelta(t, math.Log(Epsilon), v, 1e-12)
	}
}

func TestCMVN_Stats(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const B, D, T = 2, 4, 50
	x := tensor.New(B, D, T)
	for i := range x.Data {
		row := i / T
		x.Data[i] = 3*rng.NormFloat64() + float64(row)
	}

	out := CMVN(x)
	for r := 0; r < B*D; r++ {
		mean, std := stat.MeanStdDev(out.Data[r*T:(r+1)*T], nil)
		assert.InDelta(t, 0, mean, 1e-5, "row %d", r)
		assert.InDelta(t, 1, std, 1e-5, "row %d", r)
	}
	// input untouched
	assert.NotEqual(t, out.Data, x.Data)
}

func TestCMVN_SingleFrame(t *testing.T) {
	x, err := tensor.FromData([]float64{7, -2}, 2, 1)
	require.NoError(t, err)
	out := CMVN(x)
	assert.Equal(t, []float64{0, 0}, out.Data)
}

func TestCMVN_ConstantRow(t *testing.T) {
	x, err := tensor.FromData([]float64{1, 1, 1, 1}, 1, 4)
	require.NoError(t, err)
	for _, v := range CMVN(x).Data {
		assert.False(t, math.IsNaN(v))
		assert.Equal(t, 0.0, v)
	}
}
