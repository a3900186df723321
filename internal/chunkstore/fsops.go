package chunkstore

import (
	"fmt"
	"os"
)

// Filesystem operations return explicit result categories instead of
// relying on callers to classify errno values: only the error return is
// ever fatal.

type CreateResult int

const (
	DirCreated CreateResult = iota
	DirAlreadyExists
)

type RemoveResult int

const (
	TreeRemoved RemoveResult = iota
	TreeNotFound
)

// EnsureDir creates path and any missing parents. An already existing
// directory is reported as DirAlreadyExists, not an error; a pre-existing
// non-directory is an error.
func EnsureDir(path string) (CreateResult, error) {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return DirAlreadyExists, nil
		}
		return 0, fmt.Errorf("path exists and is not a directory: %s", path)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		if os.IsExist(err) {
			return DirAlreadyExists, nil
		}
		return 0, err
	}
	return DirCreated, nil
}

// RemoveTree deletes path recursively. A missing tree is reported as
// TreeNotFound, not an error.
func RemoveTree(path string) (RemoveResult, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return TreeNotFound, nil
		}
		return 0, err
	}

	if err := os.RemoveAll(path); err != nil {
		return 0, err
	}
	return TreeRemoved, nil
}
