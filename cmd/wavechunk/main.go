// Command wavechunk converts multi-channel time-series recordings into
// chunked multiresolution directories for range-based visualization.
//
//	wavechunk [flags] recording.set [recording.edf ...]
//
// Each input produces <name>.chunks next to it (or under --destination),
// holding a resolution pyramid of fixed-size binary chunk files and an
// index.json describing the tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shots47s/react-series-data-viewer/internal/chunkstore"
	"github.com/shots47s/react-series-data-viewer/internal/config"
	"github.com/shots47s/react-series-data-viewer/internal/edf"
	"github.com/shots47s/react-series-data-viewer/internal/eeglab"
	"github.com/shots47s/react-series-data-viewer/internal/logger"
	"github.com/shots47s/react-series-data-viewer/internal/pyramid"
)

var Version = "dev"

var logCategories = []string{
	"startup", "convert", "error", "warning", "debug",
}

func main() {
	var cfg Config
	files, err := config.Load(&cfg, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "wavechunk: %v\n", err)
		os.Exit(1)
	}

	logger.RegisterCategories(logCategories...)
	if cfg.Debug {
		logger.SetMinLevel(logger.LevelDebug)
	}
	if cfg.LogFilter != "" {
		logger.SetCategoryFilter(strings.Split(cfg.LogFilter, ","))
	}
	if cfg.LogFile != "" {
		if err := logger.SetLogFile(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "wavechunk: failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "wavechunk: no input files (usage: wavechunk [flags] recording.set|recording.edf ...)")
		os.Exit(1)
	}
	if cfg.ChunkSize < 2 {
		fmt.Fprintf(os.Stderr, "wavechunk: chunk size must be at least 2, got %d\n", cfg.ChunkSize)
		os.Exit(1)
	}

	logger.Printf("startup", "wavechunk %s | chunk-size: %d | workers: %d | staged: %v | files: %d",
		Version, cfg.ChunkSize, cfg.Workers, cfg.Staged, len(files))

	failed := 0
	for _, file := range files {
		if err := convert(&cfg, file); err != nil {
			logger.Error("%s: %v", file, err)
			failed++
		}
	}

	if failed > 0 {
		logger.Error("%d of %d files failed", failed, len(files))
		os.Exit(1)
	}
}

func convert(cfg *Config, inputPath string) error {
	reader, err := readerFor(inputPath)
	if err != nil {
		return err
	}

	start := time.Now()
	sig, err := reader.Read(inputPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	logger.Printf("debug", "%s: %d channels x %d samples read in %v",
		inputPath, sig.Channels(), sig.Samples(), time.Since(start).Round(time.Millisecond))

	pyr, err := pyramid.Build(sig, cfg.ChunkSize)
	if err != nil {
		return fmt.Errorf("build pyramid: %w", err)
	}

	chunkDir := chunkstore.DirPath(inputPath, cfg.Prefix, cfg.Destination)
	w := &chunkstore.Writer{
		Workers: cfg.Workers,
		Staged:  cfg.Staged,
	}
	stats, err := w.Write(chunkDir, pyr)
	if err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}

	logger.Printf("convert", "%s -> %s | %d levels, %s chunks, %s in %v",
		inputPath, chunkDir, stats.Levels,
		logger.FormatCount(stats.Chunks), logger.FormatBytes(stats.Bytes),
		time.Since(start).Round(time.Millisecond))
	return nil
}

func readerFor(path string) (pyramid.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".edf":
		return edf.Reader{}, nil
	case ".set":
		return eeglab.Reader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}
