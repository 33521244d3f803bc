// Package config holds the CLI tool configuration, loadable from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the recstream tool configuration.
type Config struct {
	// Codec selects the object codec for chunk payloads: msgpack, cbor or
	// json.
	Codec string `yaml:"codec"`
	// CompressLevel is the writer's zlib level; 0 stores chunks verbatim.
	CompressLevel int `yaml:"compress_level"`
	// MinChunkSize is the writer's chunk flush threshold in bytes.
	MinChunkSize int `yaml:"min_chunk_size"`
	// IgnoreCorrupt makes decoding skip checksum-failed chunks.
	IgnoreCorrupt bool    `yaml:"ignore_corrupt"`
	Logging       Logging `yaml:"logging"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Codec:         "msgpack",
		CompressLevel: 2,
		MinChunkSize:  1 << 20,
		Logging:       Logging{Level: "info"},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
