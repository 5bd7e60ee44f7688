package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eventual-recluse/scalespace/explorer"
)

// Config is read by the command line tools. It has the same parameters and
// states as the plugin state chunk, plus how many blocks of which size to
// process.
type Config struct {
	explorer.StateDocument `yaml:",inline"`
	BlockSize              int `yaml:"blockSize,omitempty"`
	Blocks                 int `yaml:"blocks,omitempty"`
}

const (
	DefaultBlockSize = 64
	DefaultBlocks    = 1
)

func DefaultConfig() Config {
	return Config{
		StateDocument: explorer.StateDocument{
			Parameters: map[string]float64{},
			States:     map[string]string{},
		},
		BlockSize: DefaultBlockSize,
		Blocks:    DefaultBlocks,
	}
}

// ReadConfig reads a YAML config file. Fields missing from the file keep
// their default values.
func ReadConfig(path string) (Config, error) {
	ret := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return ret, fmt.Errorf("could not read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return ret, fmt.Errorf("could not parse config %v: %w", path, err)
	}
	if ret.Parameters == nil {
		ret.Parameters = map[string]float64{}
	}
	if ret.States == nil {
		ret.States = map[string]string{}
	}
	if ret.BlockSize <= 0 || ret.Blocks < 0 {
		return ret, fmt.Errorf("config %v: block size must be positive and block count non-negative, got %v and %v", path, ret.BlockSize, ret.Blocks)
	}
	return ret, nil
}
