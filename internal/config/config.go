// Package config loads a party's run configuration from YAML.
//
// The query mapping is decoded through yaml.Node rather than a Go map so
// that condition order survives loading; the compiled query and the match
// scan both follow that order. Conditions are validated against an embedded
// CUE schema before a query.Spec is built, so a malformed condition fails
// the load, never the run.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fedqlab/fedq/internal/query"
	"github.com/fedqlab/fedq/internal/report"
)

// Role strings accepted in the config file.
const (
	RoleCoordinator = "coordinator"
	RoleParticipant = "participant"
)

// Config is one party's run configuration.
type Config struct {
	// Client is the party ID.
	Client string

	// Role is RoleCoordinator or RoleParticipant.
	Role string

	// Servers lists the party's data-source identifiers.
	Servers []string

	// DataDir is the root the directory-backed fetcher reads from.
	DataDir string

	// Query is the ordered, validated filter specification.
	Query query.Spec

	// ResultFile is the local report file name, joined onto OutputDir.
	ResultFile string

	// OutputDir receives the local report and, on the coordinator, the
	// aggregate report and sampled test dataset.
	OutputDir string

	// GatherTimeout bounds the coordinator's fan-in wait. Zero means wait
	// until the run context is cancelled.
	GatherTimeout time.Duration

	// SampleFrac and SampleSeed control held-out test-data generation.
	SampleFrac float64
	SampleSeed int64

	// Parties is the full roster, coordinator included. The coordinator
	// gathers until it has heard from every listed party.
	Parties []string
}

// file mirrors the YAML document. Query stays a raw node so mapping order
// is preserved.
type file struct {
	Client  string    `yaml:"client"`
	Role    string    `yaml:"role"`
	Servers []string  `yaml:"servers"`
	DataDir string    `yaml:"data_dir"`
	Query   yaml.Node `yaml:"query"`
	Results struct {
		File string `yaml:"file"`
	} `yaml:"results"`
	OutputDir     string `yaml:"output_dir"`
	GatherTimeout string `yaml:"gather_timeout"`
	Sample        struct {
		Frac float64 `yaml:"frac"`
		Seed int64   `yaml:"seed"`
	} `yaml:"sample"`
	Parties []string `yaml:"parties"`
}

// Load reads, validates, and defaults a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a config document from memory. Split out of Load for tests.
func Parse(data []byte) (*Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg := &Config{
		Client:     f.Client,
		Role:       f.Role,
		Servers:    f.Servers,
		DataDir:    f.DataDir,
		ResultFile: f.Results.File,
		OutputDir:  f.OutputDir,
		SampleFrac: f.Sample.Frac,
		SampleSeed: f.Sample.Seed,
		Parties:    f.Parties,
	}

	if cfg.Client == "" {
		return nil, fmt.Errorf("config: client is required")
	}
	switch cfg.Role {
	case RoleCoordinator, RoleParticipant:
	case "":
		return nil, fmt.Errorf("config: role is required")
	default:
		return nil, fmt.Errorf("config: role %q must be %s or %s", cfg.Role, RoleCoordinator, RoleParticipant)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config: servers is required")
	}
	if cfg.ResultFile == "" {
		return nil, fmt.Errorf("config: results.file is required")
	}

	spec, err := decodeQuery(&f.Query)
	if err != nil {
		return nil, err
	}
	cfg.Query = spec

	if f.GatherTimeout != "" {
		d, err := time.ParseDuration(f.GatherTimeout)
		if err != nil {
			return nil, fmt.Errorf("config: gather_timeout: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("config: gather_timeout must not be negative")
		}
		cfg.GatherTimeout = d
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.SampleFrac == 0 {
		cfg.SampleFrac = report.DefaultSampleFrac
	}
	if cfg.SampleSeed == 0 {
		cfg.SampleSeed = report.DefaultSampleSeed
	}
	if len(cfg.Parties) == 0 {
		cfg.Parties = []string{cfg.Client}
	}
}
