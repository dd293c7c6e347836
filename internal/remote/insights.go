package remote

import (
	"context"
	"errors"
	"strings"
	"time"
)

// InsightRequest carries the prompt in both the plain and provider-native
// shapes; services read whichever they understand.
type InsightRequest struct {
	Prompt   string           `json:"prompt" validate:"required"`
	Contents []insightContent `json:"contents,omitempty"`
}

type insightContent struct {
	Parts []insightPart `json:"parts"`
}

type insightPart struct {
	Text string `json:"text"`
}

type insightResponse struct {
	Insights   string `json:"insights"`
	Candidates []struct {
		Content insightContent `json:"content"`
	} `json:"candidates"`
}

// text returns the insight from either response shape.
func (r *insightResponse) text() string {
	if strings.TrimSpace(r.Insights) != "" {
		return r.Insights
	}
	for _, c := range r.Candidates {
		var parts []string
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return ""
}

// ErrEmptyInsight is returned when the service answered without any text.
var ErrEmptyInsight = errors.New("insight service returned no text")

// InsightClient calls the insight-generation service.
type InsightClient struct{ *Client }

// NewInsightClient posts to the full endpoint url.
func NewInsightClient(url, apiKey string, timeout time.Duration) *InsightClient {
	return &InsightClient{NewClient("insights", url, timeout).WithAPIKey(apiKey)}
}

// Generate sends prompt and returns the generated text.
func (c *InsightClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := InsightRequest{
		Prompt:   prompt,
		Contents: []insightContent{{Parts: []insightPart{{Text: prompt}}}},
	}
	var out insightResponse
	if err := c.postJSON(ctx, "", req, &out); err != nil {
		return "", err
	}
	text := out.text()
	if text == "" {
		return "", ErrEmptyInsight
	}
	return text, nil
}
