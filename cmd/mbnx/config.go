package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional mbnx configuration file
// (~/.config/mbnx/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	OutputDir   string `yaml:"output_dir"`
	NoExtraData *bool  `yaml:"no_extra_data"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mbnx", "config.yaml")
}

func loadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	return parseConfig(b)
}

func parseConfig(b []byte) Config {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyExtractConfig fills extract command values from the config file
// when the corresponding CLI flag was not set.
func applyExtractConfig(c *cli.Command, cfg Config, outDir *string, noExtra *bool) {
	if cfg.OutputDir != "" && !c.IsSet("path") {
		*outDir = cfg.OutputDir
	}
	if cfg.NoExtraData != nil && !c.IsSet("no-extra-data") {
		*noExtra = *cfg.NoExtraData
	}
	applyLogConfig(c, cfg)
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	applyLogConfig(c, cfg)
}

func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
