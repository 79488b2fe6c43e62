package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromData_LengthMismatch(t *testing.T) {
	_, err := FromData(make([]float64, 5), 2, 3)
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []int{2, 3}, se.Shape)
}

func TestSelect(t *testing.T) {
	// shape (2, 3, 2): value = 100*b + 10*c + t
	x := New(2, 3, 2)
	for b := 0; b < 2; b++ {
		for c := 0; c < 3; c++ {
			for k := 0; k < 2; k++ {
				x.Data[(b*3+c)*2+k] = float64(100*b + 10*c + k)
			}
		}
	}
	sel, err := x.Select(-2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, sel.Shape)
	assert.Equal(t, []float64{10, 11, 110, 111}, sel.Data)

	_, err = x.Select(1, 3)
	require.Error(t, err)
}

func TestSwapLast(t *testing.T) {
	x, err := FromData([]float64{1, 2, 3, 4, 5, 6}, 1, 2, 3)
	require.NoError(t, err)
	y, err := x.SwapLast()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, y.Shape)
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, y.Data)

	back, err := y.SwapLast()
	require.NoError(t, err)
	assert.Equal(t, x.Data, back.Data)
}

func TestReshapeSharesData(t *testing.T) {
	x := New(2, 6)
	y, err := x.Reshape(3, 4)
	require.NoError(t, err)
	y.Data[0] = 7
	assert.Equal(t, 7.0, x.Data[0])

	_, err = x.Reshape(5)
	require.Error(t, err)
}

func TestLeading(t *testing.T) {
	assert.Equal(t, 6, Leading([]int{2, 3, 4, 5}, 2))
	assert.Equal(t, 1, Leading([]int{4}, 1))
	assert.Equal(t, 1, Leading([]int{4}, 3))
}

func TestHalfRoundTrip(t *testing.T) {
	x, err := FromData([]float64{0, 0.5, -1.25, 1024}, 4)
	require.NoError(t, err)
	y, err := FromHalf(x.Half(), 4)
	require.NoError(t, err)
	assert.Equal(t, x.Data, y.Data)
}
