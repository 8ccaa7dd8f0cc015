package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"github.com/manmartgarc/stochatreat/treat"
)

// fileDigest pins one file's exact content for the audit trail.
type fileDigest struct {
	Path  string `yaml:"path"`
	Bytes int64  `yaml:"bytes"`
	XXH3  string `yaml:"xxh3"`
}

// digestFile hashes a file's full content with XXH3.
func digestFile(path string) (fileDigest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileDigest{}, fmt.Errorf("digest %s: %w", path, err)
	}

	return fileDigest{
		Path:  path,
		Bytes: int64(len(data)),
		XXH3:  fmt.Sprintf("%016x", xxh3.Hash(data)),
	}, nil
}

// runRecord is the manifest of one assignment run: which exact input bytes,
// under which options, produced which exact output bytes. Together with the
// input file it is enough to replay the run bit for bit.
type runRecord struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`

	Input  fileDigest `yaml:"input"`
	Output fileDigest `yaml:"output"`

	IDCol       string    `yaml:"id_col"`
	StratumCols []string  `yaml:"stratum_cols"`
	Treatments  int       `yaml:"treatments"`
	Probs       []float64 `yaml:"probs,omitempty"`
	Seed        int64     `yaml:"seed"`
	Misfits     string    `yaml:"misfits"`
	SampleSize  int       `yaml:"sample_size,omitempty"`

	Units           int         `yaml:"units"`
	BlockSize       int         `yaml:"block_size"`
	StrataCount     int         `yaml:"strata_count"`
	MisfitCount     int         `yaml:"misfit_count"`
	TreatmentCounts map[int]int `yaml:"treatment_counts"`
}

// newRunRecord assembles the manifest for a finished run.
func newRunRecord(opts treat.Options, res *treat.Result, in, out fileDigest) runRecord {
	return runRecord{
		RunID:           uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Input:           in,
		Output:          out,
		IDCol:           opts.IDCol,
		StratumCols:     opts.StratumCols,
		Treatments:      opts.Treatments,
		Probs:           opts.Probs,
		Seed:            opts.Seed,
		Misfits:         opts.MisfitStrategy.String(),
		SampleSize:      opts.SampleSize,
		Units:           res.Len(),
		BlockSize:       res.BlockSize,
		StrataCount:     res.StrataCount,
		MisfitCount:     res.MisfitCount,
		TreatmentCounts: res.TreatmentCounts(),
	}
}

// write renders the record as YAML at path.
func (m runRecord) write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}

	return nil
}
