package ingest

import (
	"fmt"
	"strings"
)

// TotalRowPolicy names the strategy used to detect the synthetic channel
// aggregate row. The strategies are not interchangeable: on ambiguous input
// (a video literally titled "Total recall") they flag different rows, so the
// choice is explicit configuration, not an implementation detail.
type TotalRowPolicy string

const (
	// TotalFirstColumn checks only the first column's text for the
	// case-insensitive substring "Total".
	TotalFirstColumn TotalRowPolicy = "first_column"
	// TotalAnyColumn checks every cell of the row.
	TotalAnyColumn TotalRowPolicy = "any_column"
	// TotalExactRole checks the resolved Title (or, failing that,
	// ContentType) column for exact equality with "Total".
	TotalExactRole TotalRowPolicy = "exact_role"
)

// ParseTotalRowPolicy validates a configured policy name.
func ParseTotalRowPolicy(s string) (TotalRowPolicy, error) {
	switch TotalRowPolicy(s) {
	case TotalFirstColumn, TotalAnyColumn, TotalExactRole:
		return TotalRowPolicy(s), nil
	case "":
		return TotalFirstColumn, nil
	}
	return "", fmt.Errorf("unknown total-row policy %q", s)
}

func (p TotalRowPolicy) matches(row []string, m *ColumnMap) bool {
	switch p {
	case TotalAnyColumn:
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), "total") {
				return true
			}
		}
		return false
	case TotalExactRole:
		idx := m.Index(RoleTitle)
		if idx < 0 {
			idx = m.Index(RoleContentType)
		}
		if idx < 0 || idx >= len(row) {
			return false
		}
		return strings.TrimSpace(row[idx]) == "Total"
	default: // TotalFirstColumn
		return len(row) > 0 && strings.Contains(strings.ToLower(row[0]), "total")
	}
}

// ExtractTotal splits the table's rows into the synthetic aggregate row and
// the remaining data rows. At most the first matching row is the total; any
// later match is treated as an ordinary content row. When no row matches,
// total is nil and channel-level figures must be synthesized by summing the
// data rows.
func ExtractTotal(t *Table, m *ColumnMap, policy TotalRowPolicy) (total []string, data [][]string) {
	for i, row := range t.Rows {
		if policy.matches(row, m) {
			data = make([][]string, 0, len(t.Rows)-1)
			data = append(data, t.Rows[:i]...)
			data = append(data, t.Rows[i+1:]...)
			return row, data
		}
	}
	return nil, t.Rows
}
