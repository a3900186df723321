package pyramid

import (
	"fmt"

	"github.com/shots47s/react-series-data-viewer/internal/tensor"
)

// Signal is a dense recording: channels x traces x samples of amplitudes
// plus the recording's time bounds in seconds. The trace axis is explicit
// with a count of 1 for ordinary single-stream channels. A Signal is
// produced once by a Reader and treated as read-only afterwards.
type Signal struct {
	Data      *tensor.Tensor
	StartTime float64
	EndTime   float64
}

// Reader decodes a native recording format into a Signal. Implementations
// live outside the conversion core; any error is fatal for that input
// file and is propagated unchanged.
type Reader interface {
	Read(path string) (*Signal, error)
}

// NewSignal builds a Signal from a channels x samples amplitude matrix,
// inserting the trace axis with a count of 1. All channels must have the
// same length.
func NewSignal(channels [][]float64, start, end float64) (*Signal, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("pyramid: signal has no channels")
	}

	samples := len(channels[0])
	flat := make([]float64, 0, len(channels)*samples)
	for i, ch := range channels {
		if len(ch) != samples {
			return nil, fmt.Errorf("pyramid: channel %d has %d samples, channel 0 has %d", i, len(ch), samples)
		}
		flat = append(flat, ch...)
	}

	data, err := tensor.FromSlice(flat, len(channels), 1, samples)
	if err != nil {
		return nil, err
	}
	return &Signal{Data: data, StartTime: start, EndTime: end}, nil
}

func (s *Signal) Channels() int {
	return s.Data.Dim(0)
}

func (s *Signal) Traces() int {
	return s.Data.Dim(1)
}

func (s *Signal) Samples() int {
	return s.Data.SampleCount()
}
