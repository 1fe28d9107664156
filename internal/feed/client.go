// Package feed fetches a channel's recent uploads from YouTube's public RSS
// feed. It backs the "recent uploads" dashboard panel and is independent of
// CSV processing; a feed failure never affects an already-computed dashboard.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultBaseURL is YouTube's channel feed endpoint.
const DefaultBaseURL = "https://www.youtube.com/feeds/videos.xml"

// Upload is one entry from the channel feed.
type Upload struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	Author    string    `json:"author,omitempty"`
}

// Client fetches and parses channel upload feeds.
type Client struct {
	parser  *gofeed.Parser
	baseURL string
}

// NewClient builds a feed client. baseURL is overridable for tests; empty
// means the real YouTube endpoint. timeout bounds each fetch; zero means no
// client-side limit.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parser := gofeed.NewParser()
	if timeout > 0 {
		parser.Client = &http.Client{Timeout: timeout}
	}
	return &Client{parser: parser, baseURL: baseURL}
}

// RecentUploads fetches the channel feed and returns up to limit entries,
// newest first as YouTube serves them.
func (c *Client) RecentUploads(ctx context.Context, channelID string, limit int) ([]Upload, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel id is required")
	}

	feedURL := fmt.Sprintf("%s?channel_id=%s", c.baseURL, url.QueryEscape(channelID))
	parsed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch channel feed: %w", err)
	}

	uploads := make([]Upload, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if limit > 0 && len(uploads) >= limit {
			break
		}
		u := Upload{Title: item.Title, Link: item.Link}
		if item.PublishedParsed != nil {
			u.Published = *item.PublishedParsed
		}
		if item.Author != nil {
			u.Author = item.Author.Name
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}
