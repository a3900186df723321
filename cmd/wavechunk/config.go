package main

// Config holds every tunable of the converter. Values come from struct
// tag defaults, an optional --config INI file, and command-line flags,
// with flags winning.
type Config struct {
	ChunkSize   int    `name:"chunk-size" alias:"s" default:"50000" help:"Samples per chunk"`
	Destination string `name:"destination" alias:"d" help:"Root directory for chunk output (default: next to each input)"`
	Prefix      string `name:"prefix" alias:"p" help:"Directory prefix inserted between the output root and the chunk directory"`
	Workers     int    `name:"workers" default:"8" help:"Concurrent chunk writers per file"`
	Staged      bool   `name:"staged" default:"true" help:"Stage output and publish atomically (use --staged=false for in-place writes)"`
	Debug       bool   `name:"debug" help:"Enable debug logging"`
	LogFilter   string `name:"log-filter" help:"Comma-separated list of log categories to show (empty: all)"`
	LogFile     string `name:"log-file" help:"Also append log output to this file"`
}
