package array

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Window functions accepted by Fourier.
const (
	WindowNone    = "none"
	WindowHamming = "Hamming"
	WindowHann    = "Hann"
	WindowFlatTop = "flat-top"
)

var flatTop = [5]float64{0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368}

// Fourier returns the amplitudes of the Fourier transform of values. The data is
// multiplied by the window, zero padded to a power of two N and transformed; the
// result has N/2+1 elements with result[0] the mean. Amplitudes are normalised by the
// sum of the window factors so a sine of amplitude A gives A/sqrt(2).
func Fourier(values []float64, window string) ([]float64, error) {
	weight, err := windowFunc(window)
	if err != nil {
		return nil, err
	}
	n := len(values)
	if n == 0 {
		return nil, ErrEmpty
	}

	size := 2
	for size < n {
		size *= 2
	}

	seq := make([]float64, size)
	sum := 0.0
	for i, v := range values {
		w := weight(float64(i), float64(n))
		seq[i] = v * w
		sum += w
	}
	if sum == 0 {
		sum = 1
	}

	coeff := fourier.NewFFT(size).Coefficients(nil, seq)
	half := size / 2
	out := make([]float64, half+1)
	for k := range out {
		amp := cmplx.Abs(coeff[k]) / sum
		if k > 0 && k < half {
			amp *= math.Sqrt2
		}
		out[k] = amp
	}
	return out, nil
}

func windowFunc(name string) (func(x, n float64) float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", WindowNone:
		return func(_, _ float64) float64 { return 1 }, nil
	case strings.ToLower(WindowHamming):
		return func(x, n float64) float64 { return 0.54 - 0.46*math.Cos(2*math.Pi*x/n) }, nil
	case strings.ToLower(WindowHann):
		return func(x, n float64) float64 { return 0.5 - 0.5*math.Cos(2*math.Pi*x/n) }, nil
	case WindowFlatTop, "flattop", "flat top":
		return func(x, n float64) float64 {
			phi := 2 * math.Pi * x / n
			w := flatTop[0]
			sign := -1.0
			for k := 1; k < len(flatTop); k++ {
				w += sign * flatTop[k] * math.Cos(float64(k)*phi)
				sign = -sign
			}
			return w
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
}
