// Package table provides the minimal tabular container consumed and produced
// by the assignment core, plus a CSV file codec.
//
// 🚀 What is table?
//
//	A tiny column-addressable view over string cells:
//	  • Table     - read-only interface (Len / Columns / Value)
//	  • MemTable  - in-memory implementation with rectangular-shape checks
//	  • ReadCSV / WriteCSV and the file variants with transparent
//	    compression chosen by extension (.gz, .zst)
//
// ✨ Design notes:
//   - Cells are strings. Identifiers and stratification keys are compared
//     and hashed as text; callers that need typed columns convert at the
//     edges, the way a CSV-centric pipeline would.
//   - MemTable is immutable in width: columns are fixed at construction,
//     rows may be appended while building.
//   - Shape violations surface as sentinel errors (ErrNonRectangular,
//     ErrDuplicateColumn, ...) matched with errors.Is.
//
// ⚙️ Usage:
//
//	tbl, err := table.ReadFile("population.csv.zst")
//	if err != nil { ... }
//	v, err := tbl.Value(0, "id")
//
// See example_test.go for runnable examples.
package table
