package agent

import (
	"fmt"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/studio-insights/internal/analytics"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/pipeline"
)

// defaultPromptTemplate is the growth-strategy prompt skeleton. Operators
// can override it from config; the bindings below are the stable contract.
const defaultPromptTemplate = `YouTube Analytics Breakdown (Executive Summary):

1. CORE STATS:
- Videos: {{ videos.count }} posts, {{ videos.views | comma }} views, {{ videos.subscribers | comma }} subs.
- Shorts: {{ shorts.count }} posts, {{ shorts.views | comma }} views, {{ shorts.subscribers | comma }} subs.
- Live Streams: {{ streams.count }} posts, {{ streams.views | comma }} views, {{ streams.subscribers | comma }} subs.

2. TOP PERFORMERS: {{ best | join: ", " }}
3. UNDERPERFORMERS: {{ worst | join: ", " }}
4. PACKAGE ALERT (Low CTR with {{ min_views }}+ views): {{ low_ctr | join: ", " }}

TASK: Provide a professional YouTube Consultant Roadmap.
- STOP: What content types/topics have low ROI?
- CONTINUE: What is driving subscribers most efficiently?
- IMPROVE: Identify leaks in the funnel (e.g., low CTR despite high potential).
- WHY: Back up reasoning with the data provided. Skip themed lingo.`

// PromptBuilder renders the strategy prompt from a dashboard via a Liquid
// template. The rendered text is also what manual-fallback mode shows the
// operator, so it must stand on its own when pasted into an external tool.
type PromptBuilder struct {
	engine    *liquid.Engine
	source    string
	exemplars int
	minViews  float64

	mu       sync.Mutex
	compiled *liquid.Template
}

// PromptOptions configures evidence selection for the prompt.
type PromptOptions struct {
	// Template overrides the built-in prompt template.
	Template string
	// Exemplars is how many top/bottom titles to cite. Default 3.
	Exemplars int
	// MinViewsForCTR is the view floor for the low-CTR alert list. Default 500.
	MinViewsForCTR float64
}

func NewPromptBuilder(opts PromptOptions) *PromptBuilder {
	engine := liquid.NewEngine()
	engine.RegisterFilter("comma", groupThousands)

	b := &PromptBuilder{
		engine:    engine,
		source:    opts.Template,
		exemplars: opts.Exemplars,
		minViews:  opts.MinViewsForCTR,
	}
	if b.source == "" {
		b.source = defaultPromptTemplate
	}
	if b.exemplars == 0 {
		b.exemplars = 3
	}
	if b.minViews == 0 {
		b.minViews = 500
	}
	return b
}

// Build renders the prompt for one dashboard.
func (b *PromptBuilder) Build(d *pipeline.Dashboard) (string, error) {
	tmpl, err := b.template()
	if err != nil {
		return "", err
	}

	videoRows := analytics.FilterCategory(d.Rows, classify.CategoryVideo)
	best := titles(analytics.TopN(videoRows, analytics.MetricViews, b.exemplars))
	worst := titles(analytics.BottomN(videoRows, analytics.MetricViews, b.exemplars))

	lowCTR := titles(analytics.BottomN(
		analytics.FilterMinViews(videoRows, b.minViews),
		analytics.MetricCTR, b.exemplars))
	if len(lowCTR) == 0 {
		lowCTR = []string{"N/A"}
	}

	bindings := map[string]any{
		"videos":    aggBindings(d.Summary.Category(classify.CategoryVideo)),
		"shorts":    aggBindings(d.Summary.Category(classify.CategoryShort)),
		"streams":   aggBindings(d.Summary.Category(classify.CategoryLiveStream)),
		"best":      best,
		"worst":     worst,
		"low_ctr":   lowCTR,
		"min_views": int(b.minViews),
	}

	out, err := tmpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render strategy prompt: %w", err)
	}
	return out, nil
}

func (b *PromptBuilder) template() (*liquid.Template, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.compiled == nil {
		t, err := b.engine.ParseTemplate([]byte(b.source))
		if err != nil {
			return nil, fmt.Errorf("parse strategy prompt template: %w", err)
		}
		b.compiled = t
	}
	return b.compiled, nil
}

func aggBindings(a analytics.CategoryAggregate) map[string]any {
	return map[string]any{
		"count":       a.Count,
		"views":       a.Views,
		"subscribers": a.Subscribers,
		"watch_time":  a.WatchTimeHours,
		"impressions": a.Impressions,
		"ctr":         a.WeightedCTR,
	}
}

func titles(rows []classify.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

// groupThousands formats a number with comma separators for prompt
// readability ({{ n | comma }}).
func groupThousands(v any) string {
	var n int64
	switch x := v.(type) {
	case float64:
		n = int64(x)
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		return fmt.Sprintf("%v", v)
	}

	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
