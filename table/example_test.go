package table_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/manmartgarc/stochatreat/table"
)

// ExampleReadCSV parses a population from an in-memory CSV document.
func ExampleReadCSV() {
	in := "id,site\nu1,north\nu2,south\nu3,north\n"

	tbl, err := table.ReadCSV(strings.NewReader(in))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("rows:", tbl.Len())
	fmt.Println("columns:", tbl.Columns())
	site, _ := tbl.Value(2, "site")
	fmt.Println("u3 site:", site)
	// Output:
	// rows: 3
	// columns: [id site]
	// u3 site: north
}

// ExampleWriteCSV renders a table built row by row.
func ExampleWriteCSV() {
	tbl, err := table.New([]string{"id", "site"}, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	_ = tbl.AppendRow("u1", "north")
	_ = tbl.AppendRow("u2", "south")

	if err = table.WriteCSV(os.Stdout, tbl); err != nil {
		fmt.Println("error:", err)
	}
	// Output:
	// id,site
	// u1,north
	// u2,south
}
