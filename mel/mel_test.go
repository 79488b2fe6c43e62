package mel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/gofeat/phase"
	"github.com/neurlang/gofeat/spectrum"
	"github.com/neurlang/gofeat/tensor"
)

func TestMelScale_Invertible(t *testing.T) {
	for _, freq := range []float64{0, 1, 50, 300, 1000, 4000, 8000} {
		back := melToHz(hzToMel(freq))
		assert.InDelta(t, freq, back, 1e-9*math.Max(1, freq))
	}
	// HTK mel: 1000 Hz sits close to 1000 mel
	assert.InDelta(t, 1000.0, hzToMel(1000), 0.5)
}

func TestFilterBank_Shape(t *testing.T) {
	fb, err := NewFilterBank(40, 257, 16000, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, fb.FMax)

	w := fb.Weights()
	r, c := w.Dims()
	require.Equal(t, 40, r)
	require.Equal(t, 257, c)

	for m := 0; m < r; m++ {
		peak := 0.0
		for k := 0; k < c; k++ {
			v := w.At(m, k)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			peak = math.Max(peak, v)
		}
		assert.Greater(t, peak, 0.0, "filter %d is empty", m)
	}
}

func TestFilterBank_Invalid(t *testing.T) {
	_, err := NewFilterBank(0, 257, 16000, 0, 0)
	require.Error(t, err)
	_, err = NewFilterBank(40, 257, 16000, 9000, 8000)
	require.Error(t, err)
}

func TestProject_MatchesManual(t *testing.T) {
	fb, err := NewFilterBank(8, 33, 8000, 0, 0)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	spec := tensor.New(2, 33, 5)
	for i := range spec.Data {
		spec.Data[i] = rng.Float64()
	}
	out, err := fb.Project(spec)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 8, 5}, out.Shape)

	w := fb.Weights()
	for b := 0; b < 2; b++ {
		for m := 0; m < 8; m++ {
			for f := 0; f < 5; f++ {
				want := 0.0
				for k := 0; k < 33; k++ {
					want += w.At(m, k) * spec.Data[(b*33+k)*5+f]
				}
				assert.InDelta(t, want, out.Data[(b*8+m)*5+f], 1e-12)
			}
		}
	}

	_, err = fb.Project(tensor.New(2, 32, 5))
	require.Error(t, err)
}

func TestDCT_Orthonormal(t *testing.T) {
	d := NewDCT(16, 16)
	var p mat.Dense
	p.Mul(d, d.T())
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, p.At(i, j), 1e-12)
		}
	}
}

func TestPowerToDB(t *testing.T) {
	buf := []float64{0, 1, 100, 1e-20}
	PowerToDB(buf, 0)
	assert.InDeltaSlice(t, []float64{-100, 0, 20, -100}, buf, 1e-9)

	buf = []float64{0, 1, 100}
	PowerToDB(buf, 30)
	assert.InDeltaSlice(t, []float64{-10, 0, 20}, buf, 1e-9)
	for _, v := range buf {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	}
}

func newTestMFCC(t *testing.T) (*MFCC, *FilterBank, spectrum.Params) {
	t.Helper()
	params := spectrum.Params{NFFT: 512, HopLen: 256, WinLen: 512}
	fb, err := NewFilterBank(40, params.FreqBins(), 16000, 0, 0)
	require.NoError(t, err)
	m, err := NewMFCC(13, fb, params, spectrum.Hann, 0, nil)
	require.NoError(t, err)
	return m, fb, params
}

func TestMFCC_Shape(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	m, _, _ := newTestMFCC(t)
	out, err := m.Transform(tensor.New(2, 2, 16000))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 13, 63}, out.Shape)
	for _, v := range out.Data {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}

	_, err = m.Transform(tensor.New(16000))
	require.Error(t, err)
}

// The MFCC transform runs its own STFT. Projecting the spectrum package's
// power spectrogram and applying the same dB and DCT steps must agree up to
// the rounding differences of the two FFT implementations.
func TestMFCC_AgreesWithSharedSpectrogram(t *testing.T) {
	m, fb, params := newTestMFCC(t)

	rng := rand.New(rand.NewSource(5))
	wav := tensor.New(1, 1, 8000)
	for i := range wav.Data {
		wav.Data[i] = rng.Float64()*2 - 1
	}

	got, err := m.Transform(wav)
	require.NoError(t, err)

	w, err := spectrum.NewWindow(spectrum.Hann, params.WinLen, params.NFFT)
	require.NoError(t, err)
	tr, err := spectrum.New(params, w)
	require.NoError(t, err)
	complx, err := tr.Analyze(wav)
	require.NoError(t, err)
	power, _, err := phase.Decompose(complx, phase.DefaultPower)
	require.NoError(t, err)
	melPower, err := fb.Project(power)
	require.NoError(t, err)

	frames := melPower.Dim(-1)
	PowerToDB(melPower.Data, DefaultTopDB)
	var want mat.Dense
	want.Mul(NewDCT(13, 40), mat.NewDense(40, frames, melPower.Data))

	for k := 0; k < 13; k++ {
		for f := 0; f < frames; f++ {
			assert.InDelta(t, want.At(k, f), got.Data[k*frames+f], 1e-6, "coeff %d frame %d", k, f)
		}
	}
}
