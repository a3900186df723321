// Package chunk implements the binary record for one fixed-size chunk of
// samples. The layout is the contract downstream readers depend on
// byte-for-byte: chunk index (uint32 LE), level ordinal (uint32 LE),
// then the samples as float32 LE. No compression, checksum, or schema
// version field.
package chunk

import (
	"encoding/binary"
	"errors"
	"math"
)

const HeaderSize = 8

var (
	ErrEmpty            = errors.New("chunk has no samples")
	ErrInsufficientData = errors.New("insufficient data for chunk record")
	ErrTruncated        = errors.New("chunk record sample data truncated")
)

// Record is one decoded chunk: its index within the trace, the pyramid
// level ordinal it belongs to, and exactly chunkSize samples. Padding
// samples at the tail of a trace are literal zeros; the record does not
// distinguish them from real data.
type Record struct {
	Index        uint32
	Downsampling uint32
	Samples      []float32
}

// EncodedSize returns the record size in bytes for the given chunk size.
func EncodedSize(chunkSize int) int {
	return HeaderSize + 4*chunkSize
}

// Encode serializes one chunk. Samples are narrowed to float32 on the
// wire, matching what a rendering client consumes.
func Encode(index, downsampling uint32, samples []float64) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}

	buf := make([]byte, EncodedSize(len(samples)))
	binary.LittleEndian.PutUint32(buf[0:4], index)
	binary.LittleEndian.PutUint32(buf[4:8], downsampling)

	pos := HeaderSize
	for _, s := range samples {
		binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(float32(s)))
		pos += 4
	}
	return buf, nil
}

// Decode parses a chunk record produced by Encode.
func Decode(data []byte) (*Record, error) {
	if len(data) < HeaderSize {
		return nil, ErrInsufficientData
	}
	if (len(data)-HeaderSize)%4 != 0 {
		return nil, ErrTruncated
	}

	rec := &Record{
		Index:        binary.LittleEndian.Uint32(data[0:4]),
		Downsampling: binary.LittleEndian.Uint32(data[4:8]),
		Samples:      make([]float32, (len(data)-HeaderSize)/4),
	}

	pos := HeaderSize
	for i := range rec.Samples {
		rec.Samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
	}
	return rec, nil
}
