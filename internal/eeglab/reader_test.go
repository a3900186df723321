package eeglab

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// writeTestSet builds a minimal MATLAB-v7.3-style .set file: an EEG
// group with the data matrix and scalar recording fields.
func writeTestSet(t *testing.T, data interface{}, fields map[string]float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recording.set")
	f, err := hdf5.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}

	eeg, err := f.Root().CreateGroup("EEG")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if _, err := eeg.CreateDataset("data", data); err != nil {
		t.Fatalf("create data: %v", err)
	}
	for name, v := range fields {
		if _, err := eeg.CreateDataset(name, []float64{v}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func TestReader_TransposedMatrix(t *testing.T) {
	// MATLAB column-major save: 2 channels x 4 samples lands in HDF5 as
	// [samples, channels].
	data := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
	}
	path := writeTestSet(t, data, map[string]float64{
		"nbchan": 2, "srate": 100, "xmin": 0, "xmax": 0.03,
	})

	sig, err := Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if sig.Channels() != 2 || sig.Traces() != 1 || sig.Samples() != 4 {
		t.Fatalf("shape: got %dx%dx%d, want 2x1x4", sig.Channels(), sig.Traces(), sig.Samples())
	}
	want0 := []float64{1, 2, 3, 4}
	got0 := sig.Data.Vec(0, 0)
	for i, want := range want0 {
		if got0[i] != want {
			t.Errorf("channel 0 sample %d: got %g, want %g", i, got0[i], want)
		}
	}
	want1 := []float64{10, 20, 30, 40}
	got1 := sig.Data.Vec(1, 0)
	for i, want := range want1 {
		if got1[i] != want {
			t.Errorf("channel 1 sample %d: got %g, want %g", i, got1[i], want)
		}
	}
	if sig.StartTime != 0 || sig.EndTime != 0.03 {
		t.Errorf("time bounds: got [%g, %g], want [0, 0.03]", sig.StartTime, sig.EndTime)
	}
}

func TestReader_ChannelMajorMatrix(t *testing.T) {
	// Channel-major orientation is accepted when nbchan matches the first
	// axis instead.
	data := [][]float64{
		{1, 2, 3, 4},
		{10, 20, 30, 40},
	}
	path := writeTestSet(t, data, map[string]float64{
		"nbchan": 2, "srate": 100, "xmin": 0, "xmax": 0.03,
	})

	sig, err := Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sig.Channels() != 2 || sig.Samples() != 4 {
		t.Fatalf("shape: got %dx%d, want 2x4", sig.Channels(), sig.Samples())
	}
	got := sig.Data.Vec(1, 0)
	if got[0] != 10 || got[3] != 40 {
		t.Errorf("channel 1: got %v, want [10 20 30 40]", got)
	}
}

func TestReader_TimeBoundsFromRate(t *testing.T) {
	// Without xmin/xmax the interval derives from the sampling rate.
	data := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}
	path := writeTestSet(t, data, map[string]float64{
		"nbchan": 2, "srate": 200,
	})

	sig, err := Reader{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sig.StartTime != 0 {
		t.Errorf("start: got %g, want 0", sig.StartTime)
	}
	if math.Abs(sig.EndTime-0.01) > 1e-12 {
		t.Errorf("end: got %g, want 0.01", sig.EndTime)
	}
}

func TestReader_MissingChannelCount(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}}
	path := writeTestSet(t, data, map[string]float64{"srate": 100})

	if _, err := (Reader{}).Read(path); err == nil {
		t.Error("expected error for missing nbchan, got nil")
	}
}

func TestReader_AmbiguousShapeRejected(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	path := writeTestSet(t, data, map[string]float64{
		"nbchan": 7, "srate": 100,
	})

	if _, err := (Reader{}).Read(path); err == nil {
		t.Error("expected error when nbchan matches neither axis, got nil")
	}
}

func TestReader_EpochedDataRejected(t *testing.T) {
	// 3-D data means an epoched recording, which the converter does not
	// handle.
	data := [][][]float64{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7, 8}},
	}
	path := writeTestSet(t, data, map[string]float64{
		"nbchan": 2, "srate": 100,
	})

	if _, err := (Reader{}).Read(path); err == nil {
		t.Error("expected error for 3-D data matrix, got nil")
	}
}
