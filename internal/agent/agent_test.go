package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/studio-insights/internal/analytics"
	"github.com/ignite/studio-insights/internal/classify"
	"github.com/ignite/studio-insights/internal/ingest"
	"github.com/ignite/studio-insights/internal/pipeline"
)

func testDashboard() *pipeline.Dashboard {
	rows := []classify.Row{
		{ContentRow: ingest.ContentRow{Title: "big hit", Views: 9000, Subscribers: 100, Impressions: 20000, ClickThroughRate: 6}, Category: classify.CategoryVideo},
		{ContentRow: ingest.ContentRow{Title: "steady one", Views: 2000, Subscribers: 20, Impressions: 9000, ClickThroughRate: 3}, Category: classify.CategoryVideo},
		{ContentRow: ingest.ContentRow{Title: "flop", Views: 600, Subscribers: 1, Impressions: 4000, ClickThroughRate: 0.5}, Category: classify.CategoryVideo},
		{ContentRow: ingest.ContentRow{Title: "#quick", Views: 12000, Subscribers: 40}, Category: classify.CategoryShort},
	}
	return &pipeline.Dashboard{
		ID:      "d1",
		Rows:    rows,
		Summary: analytics.Summarize(rows, nil),
	}
}

func TestPromptBuilderBuild(t *testing.T) {
	b := NewPromptBuilder(PromptOptions{})
	prompt, err := b.Build(testDashboard())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Videos: 3 posts")
	assert.Contains(t, prompt, "11,600 views")
	assert.Contains(t, prompt, "Shorts: 1 posts")
	assert.Contains(t, prompt, "TOP PERFORMERS: big hit, steady one, flop")
	assert.Contains(t, prompt, "UNDERPERFORMERS: flop, steady one, big hit")
	assert.Contains(t, prompt, "Low CTR with 500+ views")
	assert.Contains(t, prompt, "STOP:")
}

func TestPromptBuilderNoEligibleCTRRows(t *testing.T) {
	rows := []classify.Row{
		{ContentRow: ingest.ContentRow{Title: "tiny", Views: 10}, Category: classify.CategoryVideo},
	}
	d := &pipeline.Dashboard{Rows: rows, Summary: analytics.Summarize(rows, nil)}

	b := NewPromptBuilder(PromptOptions{})
	prompt, err := b.Build(d)
	require.NoError(t, err)
	assert.Contains(t, prompt, "N/A")
}

func TestPromptBuilderCustomTemplate(t *testing.T) {
	b := NewPromptBuilder(PromptOptions{Template: "videos={{ videos.count }}"})
	prompt, err := b.Build(testDashboard())
	require.NoError(t, err)
	assert.Equal(t, "videos=3", prompt)
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "12,345", groupThousands(float64(12345)))
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000,000", groupThousands(int64(1000000)))
	assert.Equal(t, "-12,345", groupThousands(-12345))
}

type fakeInvoker struct {
	lastBody    []byte
	hadDeadline bool
	response    anthropicResponse
	err         error
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	_, f.hadDeadline = ctx.Deadline()
	f.lastBody = in.Body
	if f.err != nil {
		return nil, f.err
	}
	body, _ := json.Marshal(f.response)
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func TestGenerateStrategy(t *testing.T) {
	fake := &fakeInvoker{}
	fake.response.Content = []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{{Type: "text", Text: "Post more shorts."}}

	a := &StrategyAgent{client: fake, modelID: "test-model", maxTokens: 100, temperature: 0.5}
	out, err := a.GenerateStrategy(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Post more shorts.", out)

	var req anthropicRequest
	require.NoError(t, json.Unmarshal(fake.lastBody, &req))
	assert.Equal(t, 100, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "the prompt", req.Messages[0].Content[0].Text)
}

func TestGenerateStrategyFailure(t *testing.T) {
	a := &StrategyAgent{client: &fakeInvoker{err: errors.New("throttled")}, modelID: "m"}
	_, err := a.GenerateStrategy(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bedrock invoke")
}

func TestGenerateStrategyTimeout(t *testing.T) {
	fake := &fakeInvoker{
		response: anthropicResponse{Content: []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{{Type: "text", Text: "ok"}}},
	}

	// Without a configured timeout the caller's context passes through
	// unchanged.
	a := &StrategyAgent{client: fake, modelID: "m"}
	_, err := a.GenerateStrategy(context.Background(), "p")
	require.NoError(t, err)
	assert.False(t, fake.hadDeadline)

	a = &StrategyAgent{client: fake, modelID: "m", timeout: time.Minute}
	_, err = a.GenerateStrategy(context.Background(), "p")
	require.NoError(t, err)
	assert.True(t, fake.hadDeadline)
}

func TestGenerateStrategyEmptyResponse(t *testing.T) {
	a := &StrategyAgent{client: &fakeInvoker{}, modelID: "m"}
	_, err := a.GenerateStrategy(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}
