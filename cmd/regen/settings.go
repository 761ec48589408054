package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"regen/internal/driver"
	"regen/internal/lower"
	"regen/internal/project"
)

// lowerSettings is regen.toml merged with command-line flags. Flags win
// when set explicitly.
type lowerSettings struct {
	configPath string
	runtime    lower.Runtime
	jobs       int
	cache      bool
	out        string
	format     driver.Format
	ui         uiMode
	quiet      bool
	timings    bool
	maxDiag    int
}

func loadConfigFor(cmd *cobra.Command) (path string, cfg project.Config, err error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return "", cfg, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		cfg, err = project.LoadConfig(explicit)
		return explicit, cfg, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", cfg, fmt.Errorf("failed to get working directory: %w", err)
	}
	manifest, ok, err := project.LoadManifest(cwd)
	if err != nil || !ok {
		return "", cfg, err
	}
	return manifest.Path, manifest.Config, nil
}

func readLowerSettings(cmd *cobra.Command) (*lowerSettings, error) {
	path, cfg, err := loadConfigFor(cmd)
	if err != nil {
		return nil, err
	}
	s := &lowerSettings{
		configPath: path,
		runtime: lower.Runtime{
			Object: cfg.Runtime.Object,
			Mark:   cfg.Runtime.Mark,
			Values: cfg.Runtime.Values,
			Next:   cfg.Runtime.Next,
			Keys:   cfg.Runtime.Keys,
		},
		jobs:  cfg.Lower.Jobs,
		cache: cfg.Lower.CacheEnabled(),
		out:   cfg.Lower.Out,
	}
	formatValue := cfg.Lower.Format

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if s.jobs < 0 {
			return nil, fmt.Errorf("--jobs must not be negative")
		}
	}
	if flags.Changed("out") {
		if s.out, err = flags.GetString("out"); err != nil {
			return nil, fmt.Errorf("failed to get out flag: %w", err)
		}
	}
	if flags.Changed("format") {
		if formatValue, err = flags.GetString("format"); err != nil {
			return nil, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if flags.Changed("runtime") {
		if s.runtime.Object, err = flags.GetString("runtime"); err != nil {
			return nil, fmt.Errorf("failed to get runtime flag: %w", err)
		}
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		s.cache = false
	}
	if s.format, err = driver.ParseFormat(formatValue); err != nil {
		return nil, err
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}

	root := cmd.Root().PersistentFlags()
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return s, nil
}
