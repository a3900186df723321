// Package eeglab reads EEGLAB .set recordings saved as MATLAB v7.3
// containers, which are HDF5 files. The EEG struct becomes an HDF5
// group holding the data matrix and the scalar recording fields; MATLAB
// stores matrices column-major, so a nbchan x pnts matrix usually
// appears with shape [pnts, nbchan] on the HDF5 side. The nbchan field
// disambiguates the orientation.
package eeglab

import (
	"fmt"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/shots47s/react-series-data-viewer/internal/pyramid"
)

// dataPaths are tried in order: EEGLAB normally saves the whole EEG
// struct as one variable, but some exports place the fields at the root.
var dataPaths = []string{"/EEG/data", "/data"}

// Reader decodes a continuous .set recording into a Signal for pyramid
// building. Epoched recordings (a 3-D data matrix) are rejected.
type Reader struct{}

func (Reader) Read(path string) (*pyramid.Signal, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eeglab: %s: %w", path, err)
	}
	defer f.Close()

	ds, base, err := openData(f)
	if err != nil {
		return nil, fmt.Errorf("eeglab: %s: %w", path, err)
	}
	shape := ds.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("eeglab: %s: data has rank %d, only continuous 2-D recordings are supported", path, len(shape))
	}

	nbchan, ok := scalar(f, base+"/nbchan")
	if !ok {
		return nil, fmt.Errorf("eeglab: %s: missing nbchan field", path)
	}
	nc := int(nbchan)
	if nc <= 0 {
		return nil, fmt.Errorf("eeglab: %s: invalid channel count %d", path, nc)
	}

	flat, err := ds.ReadFloat64()
	if err != nil {
		return nil, fmt.Errorf("eeglab: %s: read data: %w", path, err)
	}

	channels, err := orient(flat, int(shape[0]), int(shape[1]), nc)
	if err != nil {
		return nil, fmt.Errorf("eeglab: %s: %w", path, err)
	}

	start, end, err := timeBounds(f, base, len(channels[0]))
	if err != nil {
		return nil, fmt.Errorf("eeglab: %s: %w", path, err)
	}
	return pyramid.NewSignal(channels, start, end)
}

func openData(f *hdf5.File) (*hdf5.Dataset, string, error) {
	for _, p := range dataPaths {
		if ds, err := f.OpenDataset(p); err == nil {
			base := p[:len(p)-len("/data")]
			return ds, base, nil
		}
	}
	return nil, "", fmt.Errorf("no data matrix at %v", dataPaths)
}

// orient de-transposes the flat row-major HDF5 buffer into per-channel
// sample slices. MATLAB's column-major save puts samples on the first
// HDF5 axis; data written channel-major is accepted too.
func orient(flat []float64, rows, cols, nbchan int) ([][]float64, error) {
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("data has %d values for shape [%d %d]", len(flat), rows, cols)
	}

	var samples int
	switch nbchan {
	case cols:
		samples = rows
	case rows:
		samples = cols
	default:
		return nil, fmt.Errorf("nbchan %d matches neither data axis [%d %d]", nbchan, rows, cols)
	}
	if samples == 0 {
		return nil, fmt.Errorf("data matrix is empty")
	}

	channels := make([][]float64, nbchan)
	for c := range channels {
		channels[c] = make([]float64, samples)
	}
	if nbchan == cols {
		for i := 0; i < samples; i++ {
			for c := 0; c < nbchan; c++ {
				channels[c][i] = flat[i*nbchan+c]
			}
		}
	} else {
		for c := 0; c < nbchan; c++ {
			copy(channels[c], flat[c*samples:(c+1)*samples])
		}
	}
	return channels, nil
}

// timeBounds prefers the recording's xmin/xmax fields and falls back to
// deriving the interval from the sampling rate.
func timeBounds(f *hdf5.File, base string, samples int) (float64, float64, error) {
	xmin, okMin := scalar(f, base+"/xmin")
	xmax, okMax := scalar(f, base+"/xmax")
	if okMin && okMax && xmax > xmin {
		return xmin, xmax, nil
	}

	if srate, ok := scalar(f, base+"/srate"); ok && srate > 0 {
		return 0, float64(samples-1) / srate, nil
	}
	return 0, 0, fmt.Errorf("missing time bounds (no usable xmin/xmax or srate)")
}

func scalar(f *hdf5.File, path string) (float64, bool) {
	ds, err := f.OpenDataset(path)
	if err != nil {
		return 0, false
	}
	vals, err := ds.ReadFloat64()
	if err != nil || len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}
