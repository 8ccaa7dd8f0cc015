package treat

import (
	"strconv"
	"strings"

	"github.com/manmartgarc/stochatreat/table"
)

// stratum is one partition cell: the set of rows sharing a composite value
// across the stratum columns.
type stratum struct {
	// id is the stratum's numeric id, assigned in first-seen input order.
	id int

	// key is the canonical encoding of the composite value. It doubles as
	// the stratum's random stream key, so equal strata draw equal streams
	// under equal seeds.
	key string

	// members are the stratum's row indexes, in input order.
	members []int
}

// compositeKey encodes one combination of stratum column values into a
// single string. Values are length-prefixed, so distinct combinations can
// never collide however the cell contents nest or repeat separators.
func compositeKey(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte(';')
	}

	return b.String()
}

// partition groups the table's rows by their composite stratum value.
// Strata are numbered in order of first appearance, and each stratum's
// members keep their input row order. Every row lands in exactly one
// stratum.
func partition(tbl table.Table, cols []string) ([]*stratum, error) {
	byKey := make(map[string]*stratum)
	strata := make([]*stratum, 0)
	values := make([]string, len(cols))

	for row := 0; row < tbl.Len(); row++ {
		for i, col := range cols {
			v, err := tbl.Value(row, col)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		key := compositeKey(values)
		st, ok := byKey[key]
		if !ok {
			st = &stratum{id: len(strata), key: key}
			byKey[key] = st
			strata = append(strata, st)
		}
		st.members = append(st.members, row)
	}

	return strata, nil
}
