// Package pyramid builds the multiresolution representation of a signal:
// an ordered sequence of successively coarser levels produced by
// anti-aliased decimation, deduplicated by resulting sample count.
package pyramid

import (
	"fmt"
	"math"

	"github.com/shots47s/react-series-data-viewer/internal/resample"
	"github.com/shots47s/react-series-data-viewer/internal/tensor"
)

// Level is one resolution of the signal. Ordinal is the positional index
// after deduplication (0 = original resolution); Factor is the decimation
// factor actually applied to the original signal to reach it (1 for
// level 0). Ordinals are NOT the factors: the index document downstream
// stores ordinals.
type Level struct {
	Ordinal int
	Factor  int
	Data    *tensor.Tensor
}

// Pyramid is the full ordered set of levels for one signal, strictly
// decreasing in sample count. Level 0 is always the unmodified input.
type Pyramid struct {
	ChunkSize int
	StartTime float64
	EndTime   float64
	Levels    []Level
}

// Build derives the resolution pyramid for sig with the given chunk size.
// Candidate level d decimates by chunkSize^d, clamped so no level drops
// below twice the chunk length; candidates that resolve to the same
// sample count as an earlier level are dropped. The whole pyramid is
// materialized before returning since the index document needs every
// level's shape up front.
func Build(sig *Signal, chunkSize int) (*Pyramid, error) {
	if chunkSize < 2 {
		return nil, fmt.Errorf("pyramid: chunk size must be at least 2, got %d", chunkSize)
	}
	n := sig.Samples()
	if n == 0 {
		return nil, fmt.Errorf("pyramid: signal has no samples")
	}

	candidates := int(math.Ceil(math.Log(float64(n)) / math.Log(float64(chunkSize))))
	if candidates < 1 {
		candidates = 1
	}

	pyr := &Pyramid{
		ChunkSize: chunkSize,
		StartTime: sig.StartTime,
		EndTime:   sig.EndTime,
	}
	seen := make(map[int]bool)

	for d := 0; d < candidates; d++ {
		factor := clampedFactor(n, chunkSize, d)
		if factor < 2 {
			if d == 0 {
				pyr.Levels = append(pyr.Levels, Level{Ordinal: 0, Factor: 1, Data: sig.Data})
				seen[n] = true
			}
			// A clamped factor of 1 reproduces an existing length.
			continue
		}

		size := resample.OutLen(n, factor)
		if seen[size] {
			continue
		}

		data, err := decimateTensor(sig.Data, factor)
		if err != nil {
			return nil, fmt.Errorf("pyramid: level %d: %w", d, err)
		}

		pyr.Levels = append(pyr.Levels, Level{
			Ordinal: len(pyr.Levels),
			Factor:  factor,
			Data:    data,
		})
		seen[size] = true
	}

	return pyr, nil
}

// clampedFactor computes the decimation factor for candidate level d.
// The nominal factor is chunkSize^d; if the decimated signal would be at
// most 2·chunkSize samples, the factor is clamped to n/(2·chunkSize) so
// the coarsest level never degenerates to a single chunk.
func clampedFactor(n, chunkSize, d int) int {
	if d == 0 {
		return 1
	}

	nominal := math.Pow(float64(chunkSize), float64(d))
	if float64(n)/nominal <= float64(2*chunkSize) {
		return n / (2 * chunkSize)
	}
	return intPow(chunkSize, d)
}

func intPow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

func decimateTensor(t *tensor.Tensor, factor int) (*tensor.Tensor, error) {
	n := t.SampleCount()
	shape := t.Shape()
	shape[len(shape)-1] = resample.OutLen(n, factor)

	out := tensor.New(shape...)
	for i := 0; i < t.Rows(); i++ {
		row, err := resample.Decimate(t.Row(i), factor)
		if err != nil {
			return nil, err
		}
		copy(out.Row(i), row)
	}
	return out, nil
}
