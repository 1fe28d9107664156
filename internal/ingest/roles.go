package ingest

import (
	"fmt"
	"strings"
)

// roleCandidates maps each role to its candidate labels, in priority order.
// Studio renames columns between export versions and locales; candidates for
// one role are tried in order, and within a candidate, columns are scanned
// left to right. First hit wins on both axes, so list order is the tie-break.
var roleCandidates = map[Role][]string{
	RoleTitle:            {"Video title", "Title"},
	RolePublishDate:      {"Video publish time", "Published", "Date"},
	RoleDuration:         {"Duration"},
	RoleViews:            {"Views"},
	RoleSubscribers:      {"Subscribers"},
	RoleWatchTimeHours:   {"Watch time (hours)", "Watch time"},
	RoleImpressions:      {"Impressions"},
	RoleClickThroughRate: {"Impressions click-through rate (%)", "CTR"},
	RoleContentType:      {"Content type", "Content"},
}

// resolutionOrder fixes the order roles are resolved in, so the exported
// mapping is deterministic and reproducible in tests.
var resolutionOrder = []Role{
	RoleTitle, RolePublishDate, RoleDuration, RoleViews, RoleSubscribers,
	RoleWatchTimeHours, RoleImpressions, RoleClickThroughRate, RoleContentType,
}

// ColumnMap is the resolved mapping from roles to concrete columns of one
// export. Built once per upload, immutable afterward. The mapping is exposed
// (Labels) rather than hidden because substring matching is a best-effort
// heuristic: operators need to see what actually matched.
type ColumnMap struct {
	index  map[Role]int
	labels map[Role]string
}

// Index returns the column index for a role, or -1 when unresolved.
func (m *ColumnMap) Index(role Role) int {
	if i, ok := m.index[role]; ok {
		return i
	}
	return -1
}

// Label returns the literal column label a role resolved to.
func (m *ColumnMap) Label(role Role) (string, bool) {
	l, ok := m.labels[role]
	return l, ok
}

// Labels returns a copy of the full resolved mapping for inspection.
func (m *ColumnMap) Labels() map[Role]string {
	out := make(map[Role]string, len(m.labels))
	for r, l := range m.labels {
		out[r] = l
	}
	return out
}

// findColumn locates the first column whose label contains any candidate,
// case-insensitively, in candidate order. Returns -1 if nothing matches.
// A label containing a candidate anywhere counts: "Video title" resolves a
// "Video" candidate, which occasionally mismatches. Accepted trade-off for
// absorbing schema drift across export versions.
func findColumn(columns []string, candidates []string) int {
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		for i, col := range columns {
			if strings.Contains(strings.ToLower(col), lc) {
				return i
			}
		}
	}
	return -1
}

// findColumnExact locates the first column equal to any candidate,
// case-sensitively. Used where substring drift absorption is not wanted.
func findColumnExact(columns []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range columns {
			if col == cand {
				return i
			}
		}
	}
	return -1
}

// ResolveColumns builds the role-to-column mapping for a table. Exact
// case-sensitive matching is tried first, so a column that survived schema
// drift untouched resolves without the substring heuristic's false-positive
// risk; case-insensitive substring matching then absorbs the renamed rest.
// Views and Subscribers are required:
// without them no aggregation is numerically meaningful, so their absence is
// a structural failure naming the missing role. Any other unresolved role is
// simply absent from the map, never an error.
func ResolveColumns(t *Table) (*ColumnMap, error) {
	m := &ColumnMap{
		index:  make(map[Role]int),
		labels: make(map[Role]string),
	}
	for _, role := range resolutionOrder {
		i := findColumnExact(t.Columns, roleCandidates[role])
		if i < 0 {
			i = findColumn(t.Columns, roleCandidates[role])
		}
		if i >= 0 {
			m.index[role] = i
			m.labels[role] = t.Columns[i]
		}
	}

	for _, required := range []Role{RoleViews, RoleSubscribers} {
		if _, ok := m.index[required]; !ok {
			return nil, fmt.Errorf("%w: required column %q not found in header %v",
				ErrStructuralParse, required, t.Columns)
		}
	}
	return m, nil
}
