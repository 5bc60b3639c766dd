// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package config loads the checker's YAML configuration. Command
// parameters override what's loaded here.
package config

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/platinasystems/nvmecheck/nvmeio"
	"github.com/platinasystems/nvmecheck/pci"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPath   = "/etc/nvmecheck.yaml"
	DefaultLogDir = "/var/log/nvmecheck"
)

type Config struct {
	// PCI bus address of the device under test, DDDD:BB:SS.F
	Device string `yaml:"device"`
	// Root of the per run dump directories.
	LogDir    string        `yaml:"logdir"`
	CmdWait   time.Duration `yaml:"cmdwait"`
	Sim       bool          `yaml:"sim"`
	Verbose   bool          `yaml:"verbose"`
	KeepGoing bool          `yaml:"keepgoing"`
}

func Default() *Config {
	return &Config{
		LogDir:  DefaultLogDir,
		CmdWait: nvmeio.DefaultCmdWait,
	}
}

// Load returns the defaults overlaid by the named file. An empty name
// returns the defaults. Call Validate once command parameters are merged.
func Load(fn string) (*Config, error) {
	cfg := Default()
	if len(fn) == 0 {
		return cfg, nil
	}
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	if err = yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.CmdWait <= 0 {
		return fmt.Errorf("cmdwait: %v: must be positive", cfg.CmdWait)
	}
	if len(cfg.LogDir) == 0 {
		return fmt.Errorf("logdir: missing")
	}
	if !cfg.Sim {
		if len(cfg.Device) == 0 {
			return fmt.Errorf("device: missing")
		}
		if _, err := pci.ParseBusAddress(cfg.Device); err != nil {
			return fmt.Errorf("device: %w", err)
		}
	}
	return nil
}

func (cfg *Config) String() string {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
