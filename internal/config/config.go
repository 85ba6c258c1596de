package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ogzhanolguncu/cpgo/internal/backup"
	"github.com/ogzhanolguncu/cpgo/internal/options"
)

// Default configuration constants
const (
	DefaultChunkSize    = 128 << 10 // 128KB copy buffer
	DefaultDebug        = false
	DefaultChecksum     = false
	DefaultReportFormat = ""
)

// Report formats for a dry run.
const (
	ReportTree = "tree"
	ReportYAML = "yaml"
)

// Environment variables read by FromEnv.
const (
	EnvSuffix         = "SIMPLE_BACKUP_SUFFIX"
	EnvVersionControl = "VERSION_CONTROL"
	EnvDebug          = "CPGO_DEBUG"
	EnvDryRun         = "CPGO_DRY_RUN"
	EnvChecksum       = "CPGO_CHECKSUM"
	EnvChunkSize      = "CPGO_CHUNK_SIZE"
)

// Config holds the settings that come from the process environment rather
// than from the command line.
type Config struct {
	// Debug enables Debug level logging.
	Debug bool
	// ReportFormat, when non-empty, prints the copy plan in that format
	// instead of executing it.
	ReportFormat string
	// Checksum verifies every regular-file copy by hashing both sides.
	Checksum bool
	// ChunkSize is the copy buffer size in bytes.
	ChunkSize int64
	// Defaults seed the option state before flags are applied.
	Defaults options.Defaults
}

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Debug:        DefaultDebug,
		ReportFormat: DefaultReportFormat,
		Checksum:     DefaultChecksum,
		ChunkSize:    DefaultChunkSize,
		Defaults:     options.DefaultDefaults,
	}
}

// FromEnv builds a Config from lookup, usually os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := NewDefaultConfig()

	if v, ok := lookup(EnvSuffix); ok {
		cfg.Defaults.Suffix = backup.CleanSuffix(v)
	}
	if v, ok := lookup(EnvVersionControl); ok && v != "" {
		method, err := backup.Methods("$"+EnvVersionControl).Resolve(v)
		if err != nil {
			return nil, err
		}
		cfg.Defaults.BackupMethod = method
	}

	cfg.Debug = truthy(lookup, EnvDebug)
	cfg.Checksum = truthy(lookup, EnvChecksum)

	if v, ok := lookup(EnvDryRun); ok && v != "" {
		switch strings.ToLower(v) {
		case ReportYAML:
			cfg.ReportFormat = ReportYAML
		case ReportTree, "1", "true":
			cfg.ReportFormat = ReportTree
		default:
			return nil, fmt.Errorf("config: invalid %s value %q", EnvDryRun, v)
		}
	}

	if v, ok := lookup(EnvChunkSize); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid %s value %q", EnvChunkSize, v)
		}
		cfg.ChunkSize = n
	}
	return cfg, nil
}

func truthy(lookup func(string) (string, bool), key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
