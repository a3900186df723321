// Package edf reads European Data Format recordings. The format is a
// 256-byte ASCII header, a 256-byte ASCII block per signal, then data
// records of interleaved int16 little-endian samples. Digital values are
// scaled to physical units using the per-signal calibration fields.
package edf

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shots47s/react-series-data-viewer/internal/pyramid"
)

const (
	headerSize       = 256
	annotationsLabel = "EDF Annotations"
)

// Header is the fixed part of an EDF file plus the per-signal blocks.
type Header struct {
	Version        string
	PatientID      string
	RecordingID    string
	StartDate      string
	StartTime      string
	HeaderBytes    int
	DataRecords    int
	RecordDuration float64
	Signals        []Signal
}

// Signal describes one channel of the recording.
type Signal struct {
	Label             string
	TransducerType    string
	PhysicalDimension string
	PhysicalMin       float64
	PhysicalMax       float64
	DigitalMin        int
	DigitalMax        int
	Prefiltering      string
	SamplesPerRecord  int
}

// Annotation reports whether the signal carries EDF+ annotations rather
// than samples.
func (s *Signal) Annotation() bool {
	return s.Label == annotationsLabel
}

// Reader decodes an EDF recording into a Signal for pyramid building.
// Annotation channels are skipped; all remaining channels must share one
// sampling rate.
type Reader struct{}

func (Reader) Read(path string) (*pyramid.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, err := readHeader(f)
	if err != nil {
		return nil, fmt.Errorf("edf: %s: %w", path, err)
	}

	kept := make([]int, 0, len(hdr.Signals))
	for i := range hdr.Signals {
		if !hdr.Signals[i].Annotation() {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("edf: %s: no sample channels", path)
	}

	perRecord := hdr.Signals[kept[0]].SamplesPerRecord
	for _, i := range kept[1:] {
		if hdr.Signals[i].SamplesPerRecord != perRecord {
			return nil, fmt.Errorf("edf: %s: channel %q has %d samples per record, channel %q has %d",
				path, hdr.Signals[i].Label, hdr.Signals[i].SamplesPerRecord,
				hdr.Signals[kept[0]].Label, perRecord)
		}
	}
	if hdr.DataRecords < 0 {
		return nil, fmt.Errorf("edf: %s: unknown record count", path)
	}

	channels := make([][]float64, len(kept))
	for c := range channels {
		channels[c] = make([]float64, 0, hdr.DataRecords*perRecord)
	}

	record := make([]byte, 0)
	for r := 0; r < hdr.DataRecords; r++ {
		for i := range hdr.Signals {
			sig := &hdr.Signals[i]
			need := 2 * sig.SamplesPerRecord
			if cap(record) < need {
				record = make([]byte, need)
			}
			record = record[:need]
			if _, err := io.ReadFull(f, record); err != nil {
				return nil, fmt.Errorf("edf: %s: record %d: %w", path, r, err)
			}

			c := keptIndex(kept, i)
			if c < 0 {
				continue
			}
			for s := 0; s < sig.SamplesPerRecord; s++ {
				dig := int16(binary.LittleEndian.Uint16(record[2*s:]))
				channels[c] = append(channels[c], sig.Physical(dig))
			}
		}
	}

	end := float64(hdr.DataRecords) * hdr.RecordDuration
	return pyramid.NewSignal(channels, 0, end)
}

// Physical converts a digital sample to physical units. Degenerate
// calibration (digital min == max) yields the raw value.
func (s *Signal) Physical(dig int16) float64 {
	if s.DigitalMax == s.DigitalMin {
		return float64(dig)
	}
	scale := (s.PhysicalMax - s.PhysicalMin) / float64(s.DigitalMax-s.DigitalMin)
	return float64(int(dig)-s.DigitalMin)*scale + s.PhysicalMin
}

func keptIndex(kept []int, signal int) int {
	for c, i := range kept {
		if i == signal {
			return c
		}
	}
	return -1
}

func readHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	fields := newFieldReader(buf)
	hdr := &Header{
		Version:     fields.str(8),
		PatientID:   fields.str(80),
		RecordingID: fields.str(80),
		StartDate:   fields.str(8),
		StartTime:   fields.str(8),
	}

	var err error
	if hdr.HeaderBytes, err = fields.num(8); err != nil {
		return nil, fmt.Errorf("header bytes: %w", err)
	}
	fields.skip(44)
	if hdr.DataRecords, err = fields.num(8); err != nil {
		return nil, fmt.Errorf("data records: %w", err)
	}
	if hdr.RecordDuration, err = fields.float(8); err != nil {
		return nil, fmt.Errorf("record duration: %w", err)
	}
	ns, err := fields.num(4)
	if err != nil {
		return nil, fmt.Errorf("signal count: %w", err)
	}
	if ns <= 0 {
		return nil, fmt.Errorf("invalid signal count %d", ns)
	}

	sigBuf := make([]byte, headerSize*ns)
	if _, err := io.ReadFull(r, sigBuf); err != nil {
		return nil, fmt.Errorf("read signal headers: %w", err)
	}

	// Per-signal fields are stored as column arrays: all labels, then all
	// transducers, and so on.
	fields = newFieldReader(sigBuf)
	hdr.Signals = make([]Signal, ns)
	for i := range hdr.Signals {
		hdr.Signals[i].Label = fields.str(16)
	}
	for i := range hdr.Signals {
		hdr.Signals[i].TransducerType = fields.str(80)
	}
	for i := range hdr.Signals {
		hdr.Signals[i].PhysicalDimension = fields.str(8)
	}
	for i := range hdr.Signals {
		if hdr.Signals[i].PhysicalMin, err = fields.float(8); err != nil {
			return nil, fmt.Errorf("signal %d physical min: %w", i, err)
		}
	}
	for i := range hdr.Signals {
		if hdr.Signals[i].PhysicalMax, err = fields.float(8); err != nil {
			return nil, fmt.Errorf("signal %d physical max: %w", i, err)
		}
	}
	for i := range hdr.Signals {
		if hdr.Signals[i].DigitalMin, err = fields.num(8); err != nil {
			return nil, fmt.Errorf("signal %d digital min: %w", i, err)
		}
	}
	for i := range hdr.Signals {
		if hdr.Signals[i].DigitalMax, err = fields.num(8); err != nil {
			return nil, fmt.Errorf("signal %d digital max: %w", i, err)
		}
	}
	for i := range hdr.Signals {
		hdr.Signals[i].Prefiltering = fields.str(80)
	}
	for i := range hdr.Signals {
		if hdr.Signals[i].SamplesPerRecord, err = fields.num(8); err != nil {
			return nil, fmt.Errorf("signal %d samples per record: %w", i, err)
		}
		if hdr.Signals[i].SamplesPerRecord <= 0 {
			return nil, fmt.Errorf("signal %d has %d samples per record", i, hdr.Signals[i].SamplesPerRecord)
		}
	}
	fields.skip(32 * ns)

	return hdr, nil
}

type fieldReader struct {
	buf []byte
	pos int
}

func newFieldReader(buf []byte) *fieldReader {
	return &fieldReader{buf: buf}
}

func (f *fieldReader) str(n int) string {
	s := strings.TrimSpace(string(f.buf[f.pos : f.pos+n]))
	f.pos += n
	return s
}

func (f *fieldReader) num(n int) (int, error) {
	return strconv.Atoi(f.str(n))
}

func (f *fieldReader) float(n int) (float64, error) {
	return strconv.ParseFloat(f.str(n), 64)
}

func (f *fieldReader) skip(n int) {
	f.pos += n
}
