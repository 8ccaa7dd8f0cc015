// Package table - CSV codec with transparent compression.
//
// Files are plain CSV with a mandatory header row. ReadFile and WriteFile
// pick a compression codec from the file extension: ".zst" wraps the stream
// in zstd, ".gz" in gzip, anything else stays plain. Assignment tables are
// text-heavy and compress well, so large populations ship compressed.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ReadCSV parses CSV from r into a MemTable. The first record is the
// header; every following record must have the same number of fields.
//
// Complexity: O(rows*cols).
func ReadCSV(r io.Reader) (*MemTable, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}

		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t, err := newEmpty(header)
	if err != nil {
		return nil, err
	}

	for {
		rec, rerr := cr.Read()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			// encoding/csv reports ragged rows via ErrFieldCount; surface
			// those under the package's shape sentinel.
			if errors.Is(rerr, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: %v", ErrNonRectangular, rerr)
			}

			return nil, fmt.Errorf("read csv record: %w", rerr)
		}
		if err = t.AppendRow(rec...); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// WriteCSV writes t as CSV to w, header first, rows in order.
//
// Complexity: O(rows*cols).
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	cols := t.Columns()
	rec := make([]string, len(cols))
	for r := 0; r < t.Len(); r++ {
		for c, name := range cols {
			v, err := t.Value(r, name)
			if err != nil {
				return err
			}
			rec[c] = v
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv record %d: %w", r, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// ReadFile reads a CSV file, decompressing by extension (.zst, .gz).
func ReadFile(path string) (*MemTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".zst":
		dec, derr := zstd.NewReader(f)
		if derr != nil {
			return nil, fmt.Errorf("zstd reader for %s: %w", path, derr)
		}
		defer dec.Close()

		return ReadCSV(dec)
	case ".gz":
		gz, gerr := gzip.NewReader(f)
		if gerr != nil {
			return nil, fmt.Errorf("gzip reader for %s: %w", path, gerr)
		}
		defer gz.Close()

		return ReadCSV(gz)
	default:
		return ReadCSV(f)
	}
}

// WriteFile writes t as a CSV file, compressing by extension (.zst, .gz).
// The file is created or truncated.
func WriteFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var werr error
	switch filepath.Ext(path) {
	case ".zst":
		enc, eerr := zstd.NewWriter(f)
		if eerr != nil {
			f.Close()
			return fmt.Errorf("zstd writer for %s: %w", path, eerr)
		}
		werr = WriteCSV(enc, t)
		if cerr := enc.Close(); werr == nil {
			werr = cerr
		}
	case ".gz":
		gz := gzip.NewWriter(f)
		werr = WriteCSV(gz, t)
		if cerr := gz.Close(); werr == nil {
			werr = cerr
		}
	default:
		werr = WriteCSV(f, t)
	}

	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("write %s: %w", path, werr)
	}

	return nil
}
