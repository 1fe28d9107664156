// Package ingest normalizes raw YouTube Studio CSV exports into a tabular
// structure with stable semantic roles. Exports arrive with a variable
// preamble, version-dependent column names, mixed encodings, and a synthetic
// "Total" row; everything downstream (classification, aggregation, ranking)
// assumes those have been repaired here.
package ingest

// Options configures one normalization pass.
type Options struct {
	// HeaderMarkers overrides the default header detection substrings.
	HeaderMarkers []string
	// TotalPolicy selects the total-row detection strategy.
	TotalPolicy TotalRowPolicy
}

// Export is the fully normalized form of one upload: cleaned rows with
// coerced numbers, the resolved column mapping, and the extracted channel
// total row (nil when the export carried none). Created once per upload and
// treated as immutable afterward.
type Export struct {
	Rows    []ContentRow
	Mapping *ColumnMap
	Table   *Table

	// Total is the synthetic channel aggregate row, coerced like a data row.
	// Nil means no total row was present in the export.
	Total *ContentRow
}

// Normalize runs the full structural pass over raw upload bytes: decode,
// header location, tabular parse, role resolution, total extraction, numeric
// coercion. The only error condition is structural (ErrStructuralParse);
// per-cell numeric garbage coerces to zero and is not reported.
func Normalize(raw []byte, opts Options) (*Export, error) {
	content, err := DecodeExport(raw)
	if err != nil {
		return nil, err
	}

	table, err := ParseTable(content, opts.HeaderMarkers)
	if err != nil {
		return nil, err
	}

	mapping, err := ResolveColumns(table)
	if err != nil {
		return nil, err
	}

	totalCells, dataCells := ExtractTotal(table, mapping, opts.TotalPolicy)

	ex := &Export{
		Mapping: mapping,
		Table:   table,
		Rows:    make([]ContentRow, 0, len(dataCells)),
	}
	for _, cells := range dataCells {
		ex.Rows = append(ex.Rows, buildRow(cells, mapping))
	}
	if totalCells != nil {
		t := buildRow(totalCells, mapping)
		ex.Total = &t
	}
	return ex, nil
}

// cell fetches a resolved role's raw text from a row, tolerating ragged rows
// shorter than the header.
func cell(row []string, m *ColumnMap, role Role) string {
	idx := m.Index(role)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// buildRow coerces one raw row into a ContentRow using the resolved mapping.
func buildRow(row []string, m *ColumnMap) ContentRow {
	r := ContentRow{
		Title:            cell(row, m, RoleTitle),
		PublishDate:      cell(row, m, RolePublishDate),
		PublishedAt:      ParsePublishDate(cell(row, m, RolePublishDate)),
		ContentType:      cell(row, m, RoleContentType),
		Views:            CoerceNumber(cell(row, m, RoleViews)),
		Subscribers:      CoerceNumber(cell(row, m, RoleSubscribers)),
		WatchTimeHours:   CoerceNumber(cell(row, m, RoleWatchTimeHours)),
		Impressions:      CoerceNumber(cell(row, m, RoleImpressions)),
		ClickThroughRate: CoerceNumber(cell(row, m, RoleClickThroughRate)),
	}
	if m.Index(RoleDuration) >= 0 {
		r.HasDuration = true
		r.Duration = CoerceNumber(cell(row, m, RoleDuration))
	}
	return r
}
