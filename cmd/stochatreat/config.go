package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/manmartgarc/stochatreat/treat"
)

// config holds one run's parameters. Sources merge in precedence order:
// built-in defaults, then STOCHATREAT_* environment variables, then the
// optional YAML config file, then explicit command-line flags.
type config struct {
	Input       string    `yaml:"input"        env:"STOCHATREAT_INPUT"`
	Output      string    `yaml:"output"       env:"STOCHATREAT_OUTPUT"`
	Manifest    string    `yaml:"manifest"     env:"STOCHATREAT_MANIFEST"`
	IDCol       string    `yaml:"id_col"       env:"STOCHATREAT_ID_COL"`
	StratumCols []string  `yaml:"stratum_cols" env:"STOCHATREAT_STRATUM_COLS"`
	Treatments  int       `yaml:"treatments"   env:"STOCHATREAT_TREATMENTS"`
	Probs       []float64 `yaml:"probs"        env:"STOCHATREAT_PROBS"`
	Seed        int64     `yaml:"seed"         env:"STOCHATREAT_SEED"`
	Misfits     string    `yaml:"misfits"      env:"STOCHATREAT_MISFITS"`
	SampleSize  int       `yaml:"sample_size"  env:"STOCHATREAT_SAMPLE_SIZE"`
	Parallelism int       `yaml:"parallelism"  env:"STOCHATREAT_PARALLELISM"`
	Summary     bool      `yaml:"summary"      env:"STOCHATREAT_SUMMARY"`
	Verbose     bool      `yaml:"verbose"      env:"STOCHATREAT_VERBOSE"`
}

// defaultConfig mirrors treat.DefaultOptions for the option-shaped fields.
func defaultConfig() config {
	return config{
		IDCol:      "id",
		Treatments: 2,
		Misfits:    treat.MisfitStratum.String(),
	}
}

// loadFile merges a YAML config file into c. Unknown keys are rejected so a
// typo cannot silently fall back to a default. An empty file is valid.
func (c *config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return nil
}

// fromEnv overlays STOCHATREAT_* environment variables onto c.
func (c *config) fromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	return nil
}

// applyFlags copies the flags the user actually set from the flag-bound
// scratch config fl, completing the precedence chain.
func (c *config) applyFlags(fs *pflag.FlagSet, fl *config) {
	if fs.Changed("input") {
		c.Input = fl.Input
	}
	if fs.Changed("output") {
		c.Output = fl.Output
	}
	if fs.Changed("manifest") {
		c.Manifest = fl.Manifest
	}
	if fs.Changed("id-col") {
		c.IDCol = fl.IDCol
	}
	if fs.Changed("stratum-cols") {
		c.StratumCols = fl.StratumCols
	}
	if fs.Changed("treatments") {
		c.Treatments = fl.Treatments
	}
	if fs.Changed("probs") {
		c.Probs = fl.Probs
	}
	if fs.Changed("seed") {
		c.Seed = fl.Seed
	}
	if fs.Changed("misfits") {
		c.Misfits = fl.Misfits
	}
	if fs.Changed("sample-size") {
		c.SampleSize = fl.SampleSize
	}
	if fs.Changed("parallelism") {
		c.Parallelism = fl.Parallelism
	}
	if fs.Changed("summary") {
		c.Summary = fl.Summary
	}
	if fs.Changed("verbose") {
		c.Verbose = fl.Verbose
	}
}

// validate checks the file-level parameters the assignment core cannot see.
// Everything option-shaped is validated by treat.Assign itself.
func (c *config) validate() error {
	if c.Input == "" {
		return errors.New("input path is required (--input)")
	}
	if c.Output == "" {
		return errors.New("output path is required (--output)")
	}

	return nil
}

// options converts the resolved config into assignment options.
func (c *config) options() (treat.Options, error) {
	strategy, err := treat.ParseMisfitStrategy(c.Misfits)
	if err != nil {
		return treat.Options{}, err
	}

	opts := treat.DefaultOptions()
	opts.StratumCols = c.StratumCols
	opts.IDCol = c.IDCol
	opts.Treatments = c.Treatments
	opts.Probs = c.Probs
	opts.Seed = c.Seed
	opts.MisfitStrategy = strategy
	opts.SampleSize = c.SampleSize
	opts.Parallelism = c.Parallelism

	return opts, nil
}

// manifestPath resolves where the run manifest goes: an explicit path wins,
// otherwise it sits next to the output.
func (c *config) manifestPath() string {
	if c.Manifest != "" {
		return c.Manifest
	}

	return c.Output + ".manifest.yaml"
}
