// Package config holds the driver's tunables and their viper wiring:
// defaults that can come from cobra flags, LDSIM_* environment
// variables, or an optional .ldsim.yaml file (SPEC_FULL.md §2.3).
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds every knob the driver exposes.
type Config struct {
	Cycles      int    `mapstructure:"cycles"`
	TraceFormat string `mapstructure:"trace-format"`
	LogLevel    string `mapstructure:"log-level"`
	MaxSweeps   int    `mapstructure:"max-sweeps"`
	DumpNetwork bool   `mapstructure:"dump-network"`
}

const (
	DefaultCycles      = 1
	DefaultTraceFormat = "table"
	DefaultLogLevel    = "info"
	DefaultMaxSweeps   = 10
)

// New builds a viper instance bound to cmd's flags (its own and the
// inherited persistent ones), reading
// LDSIM_*-prefixed environment variables and an optional .ldsim.yaml
// (searched for in the current directory and $HOME) as overrides.
func New(cmd *cobra.Command, cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("LDSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".ldsim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}
	return v, nil
}

// Load materializes a Config from v, filling in package defaults for
// anything left unset by flags, environment, or config file.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Cycles:      DefaultCycles,
		TraceFormat: DefaultTraceFormat,
		LogLevel:    DefaultLogLevel,
		MaxSweeps:   DefaultMaxSweeps,
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.TraceFormat == "" {
		cfg.TraceFormat = DefaultTraceFormat
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.MaxSweeps <= 0 {
		cfg.MaxSweeps = DefaultMaxSweeps
	}
	return cfg, nil
}
