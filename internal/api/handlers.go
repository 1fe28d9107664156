package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/studio-insights/internal/agent"
	"github.com/ignite/studio-insights/internal/analytics"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/feed"
	"github.com/ignite/studio-insights/internal/ingest"
	"github.com/ignite/studio-insights/internal/pipeline"
	"github.com/ignite/studio-insights/internal/pkg/httputil"
	"github.com/ignite/studio-insights/internal/pkg/logger"
	"github.com/ignite/studio-insights/internal/report"
	"github.com/ignite/studio-insights/internal/store"
)

// strategyGenerator is the slice of agent.StrategyAgent the handlers need.
type strategyGenerator interface {
	GenerateStrategy(ctx context.Context, prompt string) (string, error)
	ModelID() string
}

// uploadsFetcher is the slice of feed.Client the handlers need.
type uploadsFetcher interface {
	RecentUploads(ctx context.Context, channelID string, limit int) ([]feed.Upload, error)
}

// archiver stores rendered exports off-box. Nil when archiving is disabled.
type archiver interface {
	Store(ctx context.Context, dashboardID, ext, contentType string, data []byte) (string, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	prompts  *agent.PromptBuilder
	strategy strategyGenerator
	feed     uploadsFetcher
	archive  archiver

	maxUploadBytes int64
	rankingSize    int
	feedLimit      int
	minViewsForCTR float64
	startTime      time.Time
}

// NewHandlers creates a new Handlers instance. strategy, feedClient and
// archive may be nil; the matching endpoints then report the feature as
// unavailable instead of failing at startup.
func NewHandlers(p *pipeline.Pipeline, s store.Store, prompts *agent.PromptBuilder) *Handlers {
	return &Handlers{
		pipeline:       p,
		store:          s,
		prompts:        prompts,
		maxUploadBytes: 32 << 20,
		rankingSize:    5,
		feedLimit:      10,
		minViewsForCTR: 500,
		startTime:      time.Now(),
	}
}

// SetStrategyAgent wires the Bedrock strategy generator.
func (h *Handlers) SetStrategyAgent(s strategyGenerator) { h.strategy = s }

// SetFeedClient wires the channel uploads feed client.
func (h *Handlers) SetFeedClient(c uploadsFetcher) { h.feed = c }

// SetArchive wires the S3 report archive.
func (h *Handlers) SetArchive(a archiver) { h.archive = a }

// SetLimits overrides the upload size cap, default ranking size, feed page
// size and the CTR-ranking view floor from config.
func (h *Handlers) SetLimits(maxUploadBytes int64, rankingSize, feedLimit int, minViewsForCTR float64) {
	if maxUploadBytes > 0 {
		h.maxUploadBytes = maxUploadBytes
	}
	if rankingSize > 0 {
		h.rankingSize = rankingSize
	}
	if feedLimit > 0 {
		h.feedLimit = feedLimit
	}
	if minViewsForCTR > 0 {
		h.minViewsForCTR = minViewsForCTR
	}
}

// HealthCheck returns basic service health.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// uploadResponse is the envelope returned after a successful upload.
type uploadResponse struct {
	ID         string                   `json:"id"`
	FileName   string                   `json:"file_name,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	RowCount   int                      `json:"row_count"`
	HeaderLine int                      `json:"header_line"`
	Mapping    map[ingest.Role]string   `json:"mapping"`
	Summary    analytics.ChannelSummary `json:"summary"`
}

// HandleUpload accepts a Studio CSV export, runs the full analysis pass and
// stores the resulting dashboard for follow-up requests. The file arrives
// either as multipart form field "file" or as the raw request body.
//
//	POST /api/uploads
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	raw, fileName, err := h.readUpload(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if len(raw) == 0 {
		httputil.BadRequest(w, "empty upload")
		return
	}

	id := uuid.New().String()
	d, err := h.pipeline.Process(id, fileName, raw)
	if err != nil {
		if errors.Is(err, ingest.ErrStructuralParse) {
			logger.Warn("upload rejected", "file", fileName, "error", err)
			httputil.Unprocessable(w, err.Error())
			return
		}
		httputil.InternalError(w, err)
		return
	}

	if err := h.store.Put(r.Context(), d); err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Info("upload processed", "id", id, "file", fileName, "rows", len(d.Rows))
	httputil.Created(w, uploadResponse{
		ID:         d.ID,
		FileName:   d.FileName,
		CreatedAt:  d.CreatedAt,
		RowCount:   len(d.Rows),
		HeaderLine: d.HeaderLine,
		Mapping:    d.Mapping,
		Summary:    d.Summary,
	})
}

func (h *Handlers) readUpload(r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)

	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, "", errors.New("invalid multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("missing form field \"file\"")
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("upload read failed")
		}
		return raw, header.Filename, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", errors.New("upload read failed")
	}
	return raw, r.Header.Get("X-File-Name"), nil
}

// loadDashboard resolves the {id} URL parameter to a stored dashboard,
// writing the error response itself when the lookup fails.
func (h *Handlers) loadDashboard(w http.ResponseWriter, r *http.Request) (*pipeline.Dashboard, bool) {
	id := chi.URLParam(r, "id")
	d, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "dashboard not found")
			return nil, false
		}
		httputil.InternalError(w, err)
		return nil, false
	}
	return d, true
}

// GetDashboard returns the full stored dashboard.
//
//	GET /api/dashboards/{id}
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}
	httputil.OK(w, d)
}

// GetSummary returns the channel summary, optionally recomputed over a
// single publish year. The year-filtered summary synthesizes channel totals
// from the filtered rows: the export's Total row spans all time and has no
// per-year breakdown.
//
//	GET /api/dashboards/{id}/summary?year=2025
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("year")
	if raw == "" {
		httputil.OK(w, d.Summary)
		return
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		httputil.BadRequest(w, "year must be a positive integer")
		return
	}

	rows := analytics.FilterYear(d.Rows, year)
	httputil.OK(w, map[string]any{
		"year":    year,
		"summary": analytics.Summarize(rows, nil),
	})
}

// rankingResponse carries one ranking request's result.
type rankingResponse struct {
	Metric   string         `json:"metric"`
	Category string         `json:"category,omitempty"`
	Top      []classify.Row `json:"top"`
	Bottom   []classify.Row `json:"bottom"`
}

// GetRankings returns the top and bottom N rows for a metric, optionally
// restricted to one category. CTR rankings only consider rows at or above
// the impression-noise view floor, the same floor the prompt builder uses
// for its low-CTR alert list.
//
//	GET /api/dashboards/{id}/rankings?metric=views&n=5&category=video
func (h *Handlers) GetRankings(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}

	metric, err := analytics.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	n := h.rankingSize
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "n must be a positive integer")
			return
		}
		n = parsed
	}

	rows := d.Rows
	catParam := r.URL.Query().Get("category")
	if catParam != "" {
		cat, ok := parseCategory(catParam)
		if !ok {
			httputil.BadRequest(w, "unknown category "+strconv.Quote(catParam))
			return
		}
		rows = analytics.FilterCategory(rows, cat)
	}
	if metric == analytics.MetricCTR {
		rows = analytics.FilterMinViews(rows, h.minViewsForCTR)
	}

	httputil.OK(w, rankingResponse{
		Metric:   string(metric),
		Category: catParam,
		Top:      analytics.TopN(rows, metric, n),
		Bottom:   analytics.BottomN(rows, metric, n),
	})
}

func parseCategory(s string) (classify.Category, bool) {
	for _, cat := range classify.Categories {
		if string(cat) == s {
			return cat, true
		}
	}
	return "", false
}

// GetPrompt returns the rendered strategy prompt without calling the model,
// so users can run it through their own tooling.
//
//	GET /api/dashboards/{id}/prompt
func (h *Handlers) GetPrompt(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}
	prompt, err := h.prompts.Build(d)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"prompt": prompt})
}

// strategyResponse carries a generated growth strategy.
type strategyResponse struct {
	Strategy string `json:"strategy"`
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
}

// GenerateStrategy builds the prompt and invokes the model once. On model
// failure the response still includes the prompt so the caller can fall
// back to running it manually.
//
//	POST /api/dashboards/{id}/strategy
func (h *Handlers) GenerateStrategy(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}
	if h.strategy == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "strategy generation is not configured")
		return
	}

	prompt, err := h.prompts.Build(d)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	strategy, err := h.strategy.GenerateStrategy(r.Context(), prompt)
	if err != nil {
		logger.Error("strategy generation failed", "id", d.ID, "error", err)
		httputil.JSON(w, http.StatusBadGateway, map[string]string{
			"error":  "strategy generation failed",
			"prompt": prompt,
		})
		return
	}

	httputil.OK(w, strategyResponse{
		Strategy: strategy,
		Model:    h.strategy.ModelID(),
		Prompt:   prompt,
	})
}

// ExportCSV streams the normalized, classified rows as CSV.
//
//	GET /api/dashboards/{id}/export/csv
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}
	data, err := report.RenderCSV(d)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	h.archiveExport(r.Context(), d.ID, "csv", "text/csv", data)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="studio-insights-`+d.ID+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportPDF streams the one-page summary report as PDF.
//
//	GET /api/dashboards/{id}/export/pdf
func (h *Handlers) ExportPDF(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDashboard(w, r)
	if !ok {
		return
	}
	data, err := report.RenderPDF(d)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	h.archiveExport(r.Context(), d.ID, "pdf", "application/pdf", data)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="studio-insights-`+d.ID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// archiveExport copies an export to S3 when archiving is configured. The
// download itself never fails on archive errors.
func (h *Handlers) archiveExport(ctx context.Context, id, ext, contentType string, data []byte) {
	if h.archive == nil {
		return
	}
	if key, err := h.archive.Store(ctx, id, ext, contentType, data); err != nil {
		logger.Warn("report archive failed", "id", id, "error", err)
	} else {
		logger.Info("report archived", "id", id, "key", key)
	}
}

// GetChannelUploads proxies the public channel uploads feed so the UI can
// show recent videos alongside the analyzed export.
//
//	GET /api/channel/uploads?channel_id=UC...
func (h *Handlers) GetChannelUploads(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "channel feed is not configured")
		return
	}
	channelID := r.URL.Query().Get("channel_id")
	if channelID == "" {
		httputil.BadRequest(w, "channel_id is required")
		return
	}

	limit := h.feedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	uploads, err := h.feed.RecentUploads(r.Context(), channelID, limit)
	if err != nil {
		logger.Error("channel feed fetch failed", "channel", channelID, "error", err)
		httputil.BadGateway(w, "channel feed fetch failed")
		return
	}
	httputil.OK(w, map[string]any{
		"channel_id": channelID,
		"uploads":    uploads,
	})
}

// DeleteDashboard removes a stored dashboard before its TTL expires.
//
//	DELETE /api/dashboards/{id}
func (h *Handlers) DeleteDashboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		httputil.InternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
