package chunkstore

import (
	"os"

	"github.com/shots47s/react-series-data-viewer/internal/jsonenc"
)

// Index is the metadata document describing a whole chunk directory.
// Downsamplings holds the positional level ordinals 0..L-1, not the
// multiplicative factors used to reach each level; viewers address
// levels by ordinal.
type Index struct {
	TimeInterval  [2]float64        `json:"timeInterval"`
	ChunkSize     int               `json:"chunkSize"`
	Downsamplings []int             `json:"downsamplings"`
	Shapes        [][4]int          `json:"shapes"`
	TraceTypes    map[string]string `json:"traceTypes"`
}

func writeIndexFile(path string, doc *Index) error {
	if doc.TraceTypes == nil {
		doc.TraceTypes = map[string]string{}
	}

	data, err := jsonenc.JSON.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadIndex loads an index document, for verification and tests.
func ReadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Index
	if err := jsonenc.JSON.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
