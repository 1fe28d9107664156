// Package pipeline runs the single linear pass from raw upload bytes to a
// finished dashboard: normalize, classify, aggregate. One upload, one pass;
// nothing is shared between uploads.
package pipeline

import (
	"time"

	"github.com/ignite/studio-insights/internal/analytics"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/ingest"
)

// Config fixes the normalization and classification policies for a pipeline.
type Config struct {
	HeaderMarkers   []string
	TotalPolicy     ingest.TotalRowPolicy
	LiveKeywords    []string
	ShortMaxSeconds float64
	TieBreak        classify.TieBreak
}

// Pipeline processes uploads under one fixed policy set.
type Pipeline struct {
	ingestOpts ingest.Options
	classifier *classify.Classifier
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		ingestOpts: ingest.Options{
			HeaderMarkers: cfg.HeaderMarkers,
			TotalPolicy:   cfg.TotalPolicy,
		},
		classifier: classify.NewClassifier(classify.Options{
			LiveKeywords:    cfg.LiveKeywords,
			ShortMaxSeconds: cfg.ShortMaxSeconds,
			TieBreak:        cfg.TieBreak,
		}),
	}
}

// Dashboard is the complete processed result of one upload. It is built
// once, stored under its ID for follow-up requests (rankings, exports,
// strategy), and never mutated afterward.
type Dashboard struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Rows    []classify.Row           `json:"rows"`
	Total   *ingest.ContentRow       `json:"total,omitempty"`
	Summary analytics.ChannelSummary `json:"summary"`
	Mapping map[ingest.Role]string   `json:"mapping"`

	HeaderLine int `json:"header_line"`
}

// Process runs the full pass. Structural failures (decode, missing required
// roles) abort before any aggregation; no partial dashboard is produced.
func (p *Pipeline) Process(id, fileName string, raw []byte) (*Dashboard, error) {
	ex, err := ingest.Normalize(raw, p.ingestOpts)
	if err != nil {
		return nil, err
	}

	rows := p.classifier.ClassifyAll(ex.Rows)

	return &Dashboard{
		ID:         id,
		FileName:   fileName,
		CreatedAt:  time.Now().UTC(),
		Rows:       rows,
		Total:      ex.Total,
		Summary:    analytics.Summarize(rows, ex.Total),
		Mapping:    ex.Mapping.Labels(),
		HeaderLine: ex.Table.HeaderLine,
	}, nil
}
