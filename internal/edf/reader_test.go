package edf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type testSignal struct {
	label            string
	physMin, physMax float64
	digMin, digMax   int
	samplesPerRecord int
	records          [][]int16
}

func field(s string, n int) []byte {
	b := []byte(s)
	if len(b) > n {
		return b[:n]
	}
	return append(b, bytes.Repeat([]byte{' '}, n-len(b))...)
}

func writeTestEDF(t *testing.T, records int, duration float64, signals []testSignal) string {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(field("0", 8))
	buf.Write(field("test patient", 80))
	buf.Write(field("test recording", 80))
	buf.Write(field("01.01.24", 8))
	buf.Write(field("00.00.00", 8))
	buf.Write(field(fmt.Sprintf("%d", 256*(1+len(signals))), 8))
	buf.Write(field("", 44))
	buf.Write(field(fmt.Sprintf("%d", records), 8))
	buf.Write(field(fmt.Sprintf("%g", duration), 8))
	buf.Write(field(fmt.Sprintf("%d", len(signals)), 4))

	for _, s := range signals {
		buf.Write(field(s.label, 16))
	}
	for range signals {
		buf.Write(field("", 80))
	}
	for range signals {
		buf.Write(field("uV", 8))
	}
	for _, s := range signals {
		buf.Write(field(fmt.Sprintf("%g", s.physMin), 8))
	}
	for _, s := range signals {
		buf.Write(field(fmt.Sprintf("%g", s.physMax), 8))
	}
	for _, s := range signals {
		buf.Write(field(fmt.Sprintf("%d", s.digMin), 8))
	}
	for _, s := range signals {
		buf.Write(field(fmt.Sprintf("%d", s.digMax), 8))
	}
	for range signals {
		buf.Write(field("", 80))
	}
	for _, s := range signals {
		buf.Write(field(fmt.Sprintf("%d", s.samplesPerRecord), 8))
	}
	for range signals {
		buf.Write(field("", 32))
	}

	for r := 0; r < records; r++ {
		for _, s := range signals {
			for _, v := range s.records[r] {
				var le [2]byte
				binary.LittleEndian.PutUint16(le[:], uint16(v))
				buf.Write(le[:])
			}
		}
	}

	path := filepath.Join(t.TempDir(), "test.edf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader_TwoChannels(t *testing.T) {
	// Identity calibration: physical range equals digital range.
	path := writeTestEDF(t, 2, 1, []testSignal{
		{
			label: "EEG Fpz-Cz", physMin: 0, physMax: 100, digMin: 0, digMax: 100,
			samplesPerRecord: 3,
			records:          [][]int16{{1, 2, 3}, {4, 5, 6}},
		},
		{
			label: "EEG Pz-Oz", physMin: 0, physMax: 100, digMin: 0, digMax: 100,
			samplesPerRecord: 3,
			records:          [][]int16{{10, 20, 30}, {40, 50, 60}},
		},
	})

	sig, err := Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if sig.Channels() != 2 {
		t.Errorf("channels: got %d, want 2", sig.Channels())
	}
	if sig.Traces() != 1 {
		t.Errorf("traces: got %d, want 1", sig.Traces())
	}
	if sig.Samples() != 6 {
		t.Errorf("samples: got %d, want 6", sig.Samples())
	}
	if sig.StartTime != 0 || sig.EndTime != 2 {
		t.Errorf("time bounds: got [%g, %g], want [0, 2]", sig.StartTime, sig.EndTime)
	}

	want0 := []float64{1, 2, 3, 4, 5, 6}
	got0 := sig.Data.Vec(0, 0)
	for i, want := range want0 {
		if got0[i] != want {
			t.Errorf("channel 0 sample %d: got %g, want %g", i, got0[i], want)
		}
	}
	want1 := []float64{10, 20, 30, 40, 50, 60}
	got1 := sig.Data.Vec(1, 0)
	for i, want := range want1 {
		if got1[i] != want {
			t.Errorf("channel 1 sample %d: got %g, want %g", i, got1[i], want)
		}
	}
}

func TestReader_PhysicalScaling(t *testing.T) {
	// Full int16 digital range mapped to [-100, 100] uV.
	path := writeTestEDF(t, 1, 1, []testSignal{
		{
			label: "EEG", physMin: -100, physMax: 100, digMin: -32768, digMax: 32767,
			samplesPerRecord: 2,
			records:          [][]int16{{-32768, 32767}},
		},
	})

	sig, err := Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	got := sig.Data.Vec(0, 0)
	if math.Abs(got[0]+100) > 1e-9 {
		t.Errorf("digital min: got %g, want -100", got[0])
	}
	if math.Abs(got[1]-100) > 1e-9 {
		t.Errorf("digital max: got %g, want 100", got[1])
	}
}

func TestReader_SkipsAnnotations(t *testing.T) {
	path := writeTestEDF(t, 1, 1, []testSignal{
		{
			label: "EEG", physMin: 0, physMax: 10, digMin: 0, digMax: 10,
			samplesPerRecord: 2,
			records:          [][]int16{{7, 8}},
		},
		{
			label: "EDF Annotations", physMin: 0, physMax: 1, digMin: 0, digMax: 1,
			samplesPerRecord: 4,
			records:          [][]int16{{0, 0, 0, 0}},
		},
	})

	sig, err := Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sig.Channels() != 1 {
		t.Errorf("channels: got %d, want 1", sig.Channels())
	}
	got := sig.Data.Vec(0, 0)
	if got[0] != 7 || got[1] != 8 {
		t.Errorf("samples: got %v, want [7 8]", got)
	}
}

func TestReader_MixedRatesRejected(t *testing.T) {
	path := writeTestEDF(t, 1, 1, []testSignal{
		{
			label: "EEG", physMin: 0, physMax: 10, digMin: 0, digMax: 10,
			samplesPerRecord: 2,
			records:          [][]int16{{1, 2}},
		},
		{
			label: "ECG", physMin: 0, physMax: 10, digMin: 0, digMax: 10,
			samplesPerRecord: 4,
			records:          [][]int16{{1, 2, 3, 4}},
		},
	})

	if _, err := (Reader{}).Read(path); err == nil {
		t.Error("expected error for mixed sampling rates, got nil")
	}
}

func TestReader_TruncatedRecords(t *testing.T) {
	path := writeTestEDF(t, 2, 1, []testSignal{
		{
			label: "EEG", physMin: 0, physMax: 10, digMin: 0, digMax: 10,
			samplesPerRecord: 2,
			records:          [][]int16{{1, 2}, {3, 4}},
		},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-2], 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := (Reader{}).Read(path); err == nil {
		t.Error("expected error for truncated file, got nil")
	}
}
