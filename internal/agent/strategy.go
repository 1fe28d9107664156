// Package agent generates the growth-strategy narrative for a processed
// dashboard: it composes the analysis prompt and forwards it to AWS Bedrock
// as a one-shot, stateless text-in/text-out call. When the call is not
// configured or fails, the composed prompt itself is the fallback — the
// operator pastes it into an external tool by hand.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/studio-insights/internal/pkg/logger"
)

const systemPrompt = `You are an expert YouTube growth consultant. You analyze channel
performance data and produce a concrete content roadmap. Be direct and
actionable, quantify impact where the data allows, and never invent numbers
that are not in the provided breakdown.`

// Config holds everything the Bedrock call needs. It is passed in
// explicitly at construction; there is no ambient or module-level API state.
type Config struct {
	Region  string
	ModelID string
	// Static credentials are optional; when empty the default AWS
	// credential chain applies (profile, IAM role).
	AccessKeyID     string
	SecretAccessKey string

	MaxTokens   int
	Temperature float64
	// Timeout bounds one invoke call; zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration
}

// invokeAPI is the slice of the Bedrock client the agent uses; narrowed for
// testing.
type invokeAPI interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, opts ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// StrategyAgent issues the one-shot strategy request.
type StrategyAgent struct {
	client      invokeAPI
	modelID     string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// anthropicRequest is the Bedrock invoke body for Anthropic models.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewStrategyAgent builds the Bedrock-backed agent from explicit config.
func NewStrategyAgent(ctx context.Context, cfg Config) (*StrategyAgent, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4000
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	logger.Info("strategy agent initialized", "model", modelID, "region", region)
	return &StrategyAgent{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// GenerateStrategy sends the composed prompt and returns the narrative.
// One-shot: no conversation history, no streaming, no retry. A failure here
// is an external-service failure isolated to this feature; the dashboard the
// prompt was built from is unaffected.
func (a *StrategyAgent) GenerateStrategy(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        a.maxTokens,
		System:           systemPrompt,
		Temperature:      a.temperature,
		Messages: []anthropicMessage{{
			Role:    "user",
			Content: []anthropicContent{{Type: "text", Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal strategy request: %w", err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	out, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke: %w", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("parse strategy response: %w", err)
	}

	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("strategy response contained no text (stop reason %q)", resp.StopReason)
	}

	logger.Info("strategy generated",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)
	return text, nil
}

// ModelID returns the configured Bedrock model.
func (a *StrategyAgent) ModelID() string { return a.modelID }
