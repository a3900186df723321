package tensor

import "fmt"

// NumChunks returns ceil(samples/chunkSize).
func NumChunks(samples, chunkSize int) int {
	return (samples + chunkSize - 1) / chunkSize
}

// Padding returns the number of zero samples that must be appended so the
// sample axis becomes a multiple of chunkSize. Always in [0, chunkSize).
func Padding(samples, chunkSize int) int {
	return NumChunks(samples, chunkSize)*chunkSize - samples
}

// Partition pads the sample axis of t up to a multiple of chunkSize and
// reshapes it into (chunkCount, chunkSize). A tensor of shape [..., N]
// becomes [..., ceil(N/chunkSize), chunkSize]; chunk i of a row holds
// samples [i*chunkSize, (i+1)*chunkSize) of the padded row, so
// concatenating chunks in index order and truncating to N reconstructs
// the row exactly.
func Partition(t *Tensor, chunkSize int) (*Tensor, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("tensor: invalid chunk size %d", chunkSize)
	}
	padded := t.PadTail(Padding(t.SampleCount(), chunkSize))
	return padded.SplitLast(chunkSize)
}
