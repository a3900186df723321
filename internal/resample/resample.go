// Package resample implements anti-aliased integer-factor decimation.
// The signal is low-pass filtered with a Kaiser-windowed sinc FIR before
// the rate reduction, so energy above the new Nyquist frequency is
// attenuated instead of folding back into the coarse signal.
package resample

import (
	"fmt"
	"math"
)

// Filter design mirrors the conventional polyphase resampler defaults:
// 10·q taps per side and a Kaiser window with beta 5.0.
const (
	tapsPerSide = 10
	kaiserBeta  = 5.0
)

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// lowPass designs a linear-phase FIR low-pass with cutoff 1/q (relative
// to Nyquist) and unit DC gain. The filter has 2·tapsPerSide·q+1 taps;
// its group delay is exactly half the length, which Decimate compensates.
func lowPass(q int) []float64 {
	half := tapsPerSide * q
	n := 2*half + 1
	cutoff := 1 / float64(q)

	w := kaiser(n, kaiserBeta)
	h := make([]float64, n)
	sum := 0.0
	for i := range h {
		m := float64(i - half)
		h[i] = cutoff * sinc(cutoff*m) * w[i]
		sum += h[i]
	}
	for i := range h {
		h[i] /= sum
	}
	return h
}

// OutLen returns the decimated length ceil(n/q).
func OutLen(n, q int) int {
	return (n + q - 1) / q
}

// Decimate reduces x by the integer factor q with anti-aliasing. The
// output has OutLen(len(x), q) samples and output sample i is aligned
// with input sample i·q (group delay removed). Samples beyond the input
// edges are treated as zeros. q must be at least 1; q == 1 returns a
// copy of x.
func Decimate(x []float64, q int) ([]float64, error) {
	if q < 1 {
		return nil, fmt.Errorf("resample: invalid decimation factor %d", q)
	}
	if q == 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}
	if len(x) == 0 {
		return nil, nil
	}

	h := lowPass(q)
	half := (len(h) - 1) / 2
	out := make([]float64, OutLen(len(x), q))

	for i := range out {
		center := i * q
		acc := 0.0
		// y[i] = sum_k h[k] * x[center + half - k], zero outside x.
		lo := center + half - (len(x) - 1)
		if lo < 0 {
			lo = 0
		}
		hi := center + half
		if hi > len(h)-1 {
			hi = len(h) - 1
		}
		for k := lo; k <= hi; k++ {
			acc += h[k] * x[center+half-k]
		}
		out[i] = acc
	}
	return out, nil
}
