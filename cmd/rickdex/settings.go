// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/rickdex/pkg/pagination"
)

const envPrefix = "RICKDEX_"

// settings is resolved in order: defaults, YAML file, RICKDEX_* environment,
// then flags given on the command line.
type settings struct {
	Server string `yaml:"server" env:"SERVER"`
	State  string `yaml:"state"  env:"STATE"`
	Limit  int    `yaml:"limit"  env:"LIMIT"`
	Debug  bool   `yaml:"debug"  env:"DEBUG"`
}

// options are the per-invocation flags.
type options struct {
	config string
	server string
	state  string
	search string
	page   int
	limit  int
	debug  bool
}

func defaultSettings() settings {
	state := "rickdex.db"
	if dir, err := os.UserConfigDir(); err == nil {
		state = filepath.Join(dir, "rickdex", "state.db")
	}

	return settings{
		Server: "http://localhost:8080/api",
		State:  state,
		Limit:  pagination.DefaultLimit,
	}
}

func newFlagSet(opts *options, output io.Writer) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("rickdex", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SetInterspersed(true)

	flagSet.StringVar(&opts.config, "config", "", "YAML settings file")
	flagSet.StringVar(&opts.server, "server", "", "rickdex API base URL")
	flagSet.StringVar(&opts.state, "state", "", "local state file (SQLite)")
	flagSet.StringVar(&opts.search, "search", "", "filter by character name")
	flagSet.IntVar(&opts.page, "page", 1, "page number")
	flagSet.IntVar(&opts.limit, "limit", 0, "favorites per page")
	flagSet.BoolVar(&opts.debug, "debug", false, "debug logging")

	flagSet.Usage = func() {
		fmt.Fprintln(output, "usage: rickdex [flags] <whoami|login|logout|browse|show ID|favorites|fav ID|unfav ID|toggle ID>")
		flagSet.PrintDefaults()
	}
	return flagSet
}

/*
resolveSettings layers the YAML file, the environment and explicit flags over
the defaults.

Parameters:
  - flagSet: *pflag.FlagSet (already parsed)
  - opts: options bound to flagSet
  - environ: map[string]string (nil reads the process environment)

Returns:
  - settings: The effective settings
  - error: Unreadable file, malformed YAML or environment
*/
func resolveSettings(flagSet *pflag.FlagSet, opts options, environ map[string]string) (settings, error) {
	resolved := defaultSettings()

	if opts.config != "" {
		data, err := os.ReadFile(opts.config)
		if err != nil {
			return settings{}, fmt.Errorf("read settings %s: %w", opts.config, err)
		}
		if err := yaml.Unmarshal(data, &resolved); err != nil {
			return settings{}, fmt.Errorf("parse settings %s: %w", opts.config, err)
		}
	}

	if err := env.ParseWithOptions(&resolved, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return settings{}, fmt.Errorf("parse environment: %w", err)
	}

	if flagSet.Changed("server") {
		resolved.Server = opts.server
	}
	if flagSet.Changed("state") {
		resolved.State = opts.state
	}
	if flagSet.Changed("limit") {
		resolved.Limit = opts.limit
	}
	if flagSet.Changed("debug") {
		resolved.Debug = opts.debug
	}

	if resolved.Server == "" {
		return settings{}, errors.New("server URL is empty")
	}
	return resolved, nil
}
