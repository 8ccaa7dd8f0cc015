// stochatreat assigns treatments to a population by stratified block
// randomization.
//
// The input is a CSV file (optionally gzip- or zstd-compressed, picked by
// extension) with a header row, a unique id column and one or more stratum
// columns. The output is a CSV table with one row per (sampled) unit: its
// id, stratum and treatment label, joinable back onto the population by id.
// A YAML manifest with the resolved options and input/output digests is
// written next to the output so a run can be audited and replayed.
//
// Typical use:
//
//	stochatreat --input population.csv --stratum-cols site,age_band \
//	    --treatments 3 --probs 0.5,0.25,0.25 --seed 42 --output treats.csv
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/manmartgarc/stochatreat/table"
	"github.com/manmartgarc/stochatreat/treat"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, done, err := parseConfig(args)
	if err != nil || done {
		return err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts, err := cfg.options()
	if err != nil {
		return err
	}

	tbl, err := table.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	logger.Debug("population loaded", "path", cfg.Input, "rows", tbl.Len(), "columns", tbl.Columns())

	res, err := treat.Assign(tbl, opts)
	if err != nil {
		return err
	}
	logger.Info("assignment complete",
		"units", res.Len(),
		"strata", res.StrataCount,
		"block_size", res.BlockSize,
		"misfits", res.MisfitCount)
	if cfg.Summary {
		counts := res.TreatmentCounts()
		labels := make([]int, 0, len(counts))
		for label := range counts {
			labels = append(labels, label)
		}
		sort.Ints(labels)
		for _, label := range labels {
			logger.Info("treatment summary", "treat", label, "units", counts[label])
		}
	}

	out, err := res.Table()
	if err != nil {
		return err
	}
	if err = table.WriteFile(cfg.Output, out); err != nil {
		return err
	}
	logger.Debug("assignments written", "path", cfg.Output)

	inDigest, err := digestFile(cfg.Input)
	if err != nil {
		return err
	}
	outDigest, err := digestFile(cfg.Output)
	if err != nil {
		return err
	}
	record := newRunRecord(opts, res, inDigest, outDigest)
	if err = record.write(cfg.manifestPath()); err != nil {
		return err
	}
	logger.Info("manifest written", "path", cfg.manifestPath(), "run_id", record.RunID)

	return nil
}

// parseConfig resolves the run configuration. Flags win over the config
// file, which wins over STOCHATREAT_* environment variables, which win over
// the built-in defaults. done reports that a help request was already
// served.
func parseConfig(args []string) (cfg config, done bool, err error) {
	fl := defaultConfig()
	var configPath string

	fs := pflag.NewFlagSet("stochatreat", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringVarP(&configPath, "config", "c", "", "YAML config file")
	fs.StringVarP(&fl.Input, "input", "i", fl.Input, "population CSV to read (.csv, .csv.gz, .csv.zst)")
	fs.StringVarP(&fl.Output, "output", "o", fl.Output, "assignment CSV to write")
	fs.StringVar(&fl.Manifest, "manifest", fl.Manifest, "manifest path (default: <output>.manifest.yaml)")
	fs.StringVar(&fl.IDCol, "id-col", fl.IDCol, "unique unit id column")
	fs.StringSliceVar(&fl.StratumCols, "stratum-cols", fl.StratumCols, "columns whose combination defines a stratum")
	fs.IntVar(&fl.Treatments, "treatments", fl.Treatments, "number of treatment labels, control included")
	fs.Float64SliceVar(&fl.Probs, "probs", fl.Probs, "per-label probabilities (default: equal)")
	fs.Int64Var(&fl.Seed, "seed", fl.Seed, "random seed (0 uses the built-in default)")
	fs.StringVar(&fl.Misfits, "misfits", fl.Misfits, "misfit strategy: stratum, global or none")
	fs.IntVar(&fl.SampleSize, "sample-size", fl.SampleSize, "stratified subsample size (0 assigns everyone)")
	fs.IntVar(&fl.Parallelism, "parallelism", fl.Parallelism, "strata assigned concurrently (below 2 runs sequentially)")
	fs.BoolVar(&fl.Summary, "summary", fl.Summary, "log per-treatment unit counts")
	fs.BoolVarP(&fl.Verbose, "verbose", "v", fl.Verbose, "log progress details")

	if err = fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return config{}, true, nil
		}

		return config{}, false, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return config{}, false, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg = defaultConfig()
	if err = cfg.fromEnv(); err != nil {
		return config{}, false, err
	}
	if configPath == "" {
		configPath = os.Getenv("STOCHATREAT_CONFIG")
	}
	if configPath != "" {
		if err = cfg.loadFile(configPath); err != nil {
			return config{}, false, err
		}
	}
	cfg.applyFlags(fs, &fl)

	if err = cfg.validate(); err != nil {
		return config{}, false, err
	}

	return cfg, false, nil
}
