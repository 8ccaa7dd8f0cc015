package table

import (
	"errors"
	"fmt"
)

// Sentinel errors for table construction and access.
var (
	// ErrEmptyTable indicates a table without any column.
	ErrEmptyTable = errors.New("table: table must have at least one column")
	// ErrEmptyColumn indicates an empty column name.
	ErrEmptyColumn = errors.New("table: column name must not be empty")
	// ErrDuplicateColumn indicates two columns sharing one name.
	ErrDuplicateColumn = errors.New("table: duplicate column name")
	// ErrNonRectangular indicates a row whose cell count differs from the column count.
	ErrNonRectangular = errors.New("table: all rows must have the same number of cells")
	// ErrUnknownColumn indicates a lookup on a column the table does not have.
	ErrUnknownColumn = errors.New("table: unknown column")
	// ErrRowOutOfRange indicates a row index outside [0, Len).
	ErrRowOutOfRange = errors.New("table: row index out of range")
)

// Table is the read-only tabular view the assignment core works against.
// Implementations must be deterministic: repeated calls observe identical
// values, and row order is stable.
type Table interface {
	// Len returns the number of rows.
	// Complexity: O(1).
	Len() int

	// Columns returns the column names in declaration order.
	// The returned slice must not be mutated by callers.
	// Complexity: O(1) for implementations that cache the header.
	Columns() []string

	// Value returns the cell at (row, col).
	// Returns ErrRowOutOfRange or ErrUnknownColumn on bad coordinates.
	// Complexity: O(1).
	Value(row int, col string) (string, error)
}

// MemTable is a column-major in-memory Table. Width is fixed at
// construction; rows may be appended while building.
type MemTable struct {
	cols  []string
	index map[string]int
	cells [][]string // cells[c][r] = value of column c at row r
	rows  int
}

// Compile-time interface compliance.
var _ Table = (*MemTable)(nil)

// New builds a MemTable from a header and row-major cell data.
// The header must be non-empty, with unique, non-empty names; every row
// must have exactly len(cols) cells.
//
// Complexity: O(rows*cols) time and space.
func New(cols []string, rows [][]string) (*MemTable, error) {
	t, err := newEmpty(cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err = t.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("%w (row %d has %d cells, want %d)", ErrNonRectangular, i, len(row), len(cols))
		}
	}

	return t, nil
}

// newEmpty validates the header and allocates column storage.
func newEmpty(cols []string) (*MemTable, error) {
	if len(cols) == 0 {
		return nil, ErrEmptyTable
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("%w (position %d)", ErrEmptyColumn, i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}

	return &MemTable{
		cols:  append([]string(nil), cols...),
		index: index,
		cells: make([][]string, len(cols)),
	}, nil
}

// AppendRow adds one row. The number of cells must equal the column count;
// otherwise ErrNonRectangular is returned and the table is unchanged.
//
// Complexity: amortized O(cols).
func (t *MemTable) AppendRow(cells ...string) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("%w (%d cells, want %d)", ErrNonRectangular, len(cells), len(t.cols))
	}
	for c, v := range cells {
		t.cells[c] = append(t.cells[c], v)
	}
	t.rows++

	return nil
}

// Len returns the number of rows.
func (t *MemTable) Len() int { return t.rows }

// Columns returns the column names in declaration order.
func (t *MemTable) Columns() []string { return t.cols }

// HasColumn reports whether a column exists.
func (t *MemTable) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Value returns the cell at (row, col).
func (t *MemTable) Value(row int, col string) (string, error) {
	c, ok := t.index[col]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if row < 0 || row >= t.rows {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	return t.cells[c][row], nil
}

// Column returns a copy of one column's values in row order.
// Returns ErrUnknownColumn for a name the table does not have.
//
// Complexity: O(rows).
func (t *MemTable) Column(col string) ([]string, error) {
	c, ok := t.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}

	return append([]string(nil), t.cells[c]...), nil
}

// Row returns a copy of one row's cells in column order.
// Returns ErrRowOutOfRange for an index outside [0, Len).
//
// Complexity: O(cols).
func (t *MemTable) Row(row int) ([]string, error) {
	if row < 0 || row >= t.rows {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	out := make([]string, len(t.cols))
	for c := range t.cols {
		out[c] = t.cells[c][row]
	}

	return out, nil
}
