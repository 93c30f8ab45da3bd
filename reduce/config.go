package reduce

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/msoos/cryptominisat-sub002/reduce/trace"
)

// Config tunes a reduction sweep. It is loadable from a YAML file; fields
// missing from the file keep their DefaultConfig values.
type Config struct {
	// Workers bounds the goroutines classifying candidates concurrently.
	Workers int `yaml:"workers"`
	// ChunkSize is the number of candidates one worker task classifies.
	ChunkSize int `yaml:"chunk_size"`
	// SolverConfig selects the conf<N> axis of the model key.
	SolverConfig int `yaml:"solver_config"`
	// StrictConflictAge rejects candidates introduced after the current
	// conflict instead of classifying them with a wrapped clause age.
	StrictConflictAge bool `yaml:"strict_conflict_age"`
	// TraceLevel is "none" or "decisions".
	TraceLevel trace.Level `yaml:"trace_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Workers:    runtime.GOMAXPROCS(0),
		ChunkSize:  512,
		TraceLevel: trace.LevelNone,
	}
}

// LoadConfig reads a YAML sweep configuration on top of DefaultConfig.
// Uses strict field checking: typos must cause errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading sweep config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing sweep config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("sweep config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if c.SolverConfig < 0 {
		return fmt.Errorf("solver_config must be non-negative, got %d", c.SolverConfig)
	}
	if !trace.IsValidLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}
