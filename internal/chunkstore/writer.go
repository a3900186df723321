// Package chunkstore persists a resolution pyramid as a tree of binary
// chunk records plus an index document:
//
//	<chunkDir>/raw/<level>/<channel>/<trace>/<chunkIndex>.buf
//	<chunkDir>/index.json
//
// Two write modes exist. Legacy mode follows the historical converter:
// the stale raw tree is removed, then chunks are written in place, so an
// interrupted run can leave a mixed tree. Staged mode builds the whole
// output under <chunkDir>/.staging and swaps it into place at the end,
// so reruns are idempotent and interruptions never corrupt a published
// tree. In both modes the stale tree under the final directory is gone
// before any chunk write lands there.
package chunkstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shots47s/react-series-data-viewer/internal/chunk"
	"github.com/shots47s/react-series-data-viewer/internal/pyramid"
	"github.com/shots47s/react-series-data-viewer/internal/tensor"
)

type Writer struct {
	// Workers bounds the pool that fans chunk encoding and writing out
	// across traces. Values below 1 mean no parallelism.
	Workers int

	// Staged selects the atomic publish mode.
	Staged bool

	// TraceTypes optionally labels level ordinals in the index document.
	TraceTypes map[int]string
}

type Stats struct {
	Levels int
	Chunks int64
	Bytes  int64
}

// Write persists pyr under chunkDir and returns write statistics. On
// error the conversion of this input is aborted; sibling inputs writing
// to other directories are unaffected.
func (w *Writer) Write(chunkDir string, pyr *pyramid.Pyramid) (Stats, error) {
	var stats Stats

	chunked := make([]*tensor.Tensor, len(pyr.Levels))
	shapes := make([][4]int, len(pyr.Levels))
	for i, lvl := range pyr.Levels {
		ct, err := tensor.Partition(lvl.Data, pyr.ChunkSize)
		if err != nil {
			return stats, fmt.Errorf("partition level %d: %w", lvl.Ordinal, err)
		}
		chunked[i] = ct
		s := ct.Shape()
		shapes[i] = [4]int{s[0], s[1], s[2], s[3]}
	}

	doc := &Index{
		TimeInterval:  [2]float64{pyr.StartTime, pyr.EndTime},
		ChunkSize:     pyr.ChunkSize,
		Downsamplings: make([]int, len(pyr.Levels)),
		Shapes:        shapes,
		TraceTypes:    map[string]string{},
	}
	for i, lvl := range pyr.Levels {
		doc.Downsamplings[i] = lvl.Ordinal
	}
	for ordinal, label := range w.TraceTypes {
		doc.TraceTypes[strconv.Itoa(ordinal)] = label
	}

	if w.Staged {
		return w.writeStaged(chunkDir, pyr, chunked, doc)
	}
	return w.writeLegacy(chunkDir, pyr, chunked, doc)
}

func (w *Writer) writeLegacy(chunkDir string, pyr *pyramid.Pyramid, chunked []*tensor.Tensor, doc *Index) (Stats, error) {
	var stats Stats

	if _, err := EnsureDir(chunkDir); err != nil {
		return stats, err
	}
	if err := writeIndexFile(filepath.Join(chunkDir, IndexFileName), doc); err != nil {
		return stats, fmt.Errorf("write index: %w", err)
	}

	// Barrier: the stale tree must be fully gone before any new chunk
	// write into this directory begins.
	if _, err := RemoveTree(filepath.Join(chunkDir, RawDirName)); err != nil {
		return stats, fmt.Errorf("clear stale chunk tree: %w", err)
	}

	return w.writeRawTree(chunkDir, pyr, chunked)
}

func (w *Writer) writeStaged(chunkDir string, pyr *pyramid.Pyramid, chunked []*tensor.Tensor, doc *Index) (Stats, error) {
	var stats Stats

	staging := filepath.Join(chunkDir, stagingName)
	if _, err := RemoveTree(staging); err != nil {
		return stats, fmt.Errorf("clear stale staging tree: %w", err)
	}
	if _, err := EnsureDir(staging); err != nil {
		return stats, err
	}

	stats, err := w.writeRawTree(staging, pyr, chunked)
	if err != nil {
		return stats, err
	}
	if err := writeIndexFile(filepath.Join(staging, IndexFileName), doc); err != nil {
		return stats, fmt.Errorf("write index: %w", err)
	}

	// Publish: drop the previous tree, then move the staged one into
	// place. Each rename is atomic on a POSIX filesystem.
	if _, err := RemoveTree(filepath.Join(chunkDir, RawDirName)); err != nil {
		return stats, fmt.Errorf("clear stale chunk tree: %w", err)
	}
	if err := os.Rename(filepath.Join(staging, RawDirName), filepath.Join(chunkDir, RawDirName)); err != nil {
		return stats, fmt.Errorf("publish chunk tree: %w", err)
	}
	if err := os.Rename(filepath.Join(staging, IndexFileName), filepath.Join(chunkDir, IndexFileName)); err != nil {
		return stats, fmt.Errorf("publish index: %w", err)
	}
	if _, err := RemoveTree(staging); err != nil {
		return stats, fmt.Errorf("remove staging tree: %w", err)
	}
	return stats, nil
}

// writeRawTree writes every chunk record under root/raw. Chunk files are
// disjoint, so traces fan out across a bounded worker pool; chunks within
// one trace are written in index order by a single worker.
func (w *Writer) writeRawTree(root string, pyr *pyramid.Pyramid, chunked []*tensor.Tensor) (Stats, error) {
	var chunkCount, byteCount int64

	workers := w.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for li := range pyr.Levels {
		ordinal := pyr.Levels[li].Ordinal
		ct := chunked[li]
		channels, traces, numChunks := ct.Dim(0), ct.Dim(1), ct.Dim(2)

		for c := 0; c < channels; c++ {
			for tr := 0; tr < traces; tr++ {
				traceDir := filepath.Join(root, RawDirName,
					strconv.Itoa(ordinal), strconv.Itoa(c), strconv.Itoa(tr))
				if _, err := EnsureDir(traceDir); err != nil {
					return Stats{}, err
				}

				c, tr := c, tr
				g.Go(func() error {
					for k := 0; k < numChunks; k++ {
						encoded, err := chunk.Encode(uint32(k), uint32(ordinal), ct.Vec(c, tr, k))
						if err != nil {
							return fmt.Errorf("encode chunk %d/%d/%d/%d: %w", ordinal, c, tr, k, err)
						}
						path := filepath.Join(traceDir, strconv.Itoa(k)+ChunkFileExt)
						if err := os.WriteFile(path, encoded, 0644); err != nil {
							return fmt.Errorf("write chunk %d/%d/%d/%d: %w", ordinal, c, tr, k, err)
						}
						atomic.AddInt64(&chunkCount, 1)
						atomic.AddInt64(&byteCount, int64(len(encoded)))
					}
					return nil
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Stats{
		Levels: len(pyr.Levels),
		Chunks: chunkCount,
		Bytes:  byteCount,
	}, nil
}
