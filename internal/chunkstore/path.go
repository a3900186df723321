package chunkstore

import (
	"path/filepath"
	"strings"
)

const (
	RawDirName    = "raw"
	IndexFileName = "index.json"
	ChunkFileExt  = ".buf"
	chunkDirExt   = ".chunks"
	stagingName   = ".staging"
)

// DirPath derives the chunk directory for an input recording:
// <destination-or-input's-parent>/<prefix-or-nothing>/<inputBaseName>.chunks
func DirPath(inputPath, prefix, destination string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	root, name := filepath.Split(base)
	if destination != "" {
		root = destination
	}
	return filepath.Join(root, prefix, name) + chunkDirExt
}
