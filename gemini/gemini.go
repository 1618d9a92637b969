// Package gemini asks the Gemini generateContent endpoint for short fantasy
// profiles of players.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the generateContent endpoint of the flash model.
const DefaultURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// ErrEmptyResponse is returned when the API answers without any candidate text.
var ErrEmptyResponse = errors.New("gemini: empty response")

const promptTemplate = `You are an expert fantasy sports analyst. Write a short 3-paragraph fantasy profile for the Major League Pickleball player %s on the team %s.

1. Describe their playstyle and give a brief overview of their performance.
2. Summarize their recent match outcomes in a few short sentences, without scores or stats.
3. Finish with one sentence that starts with "You should..." telling a fantasy user whether to draft this player.

Style hint: %s
Match record summary: %s

Keep the tone informative and focused. No bullet points. Do not include game scores. Do not open the recommendation with "Yes" or "No".`

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Client calls generateContent with an API key.
type Client struct {
	http *resty.Client
	url  string
}

// New creates a Client. An empty url means DefaultURL.
func New(apiKey, url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", apiKey).
		SetHeader("User-Agent", "rally-metrics/1.0")
	return &Client{http: http, url: url}
}

// GeneratePlayerSummary returns the generated profile text for one player.
func (c *Client) GeneratePlayerSummary(ctx context.Context, name, team, recentStats, styleHint string) (string, error) {
	body := generateRequest{Contents: []content{{Parts: []part{{
		Text: fmt.Sprintf(promptTemplate, name, team, styleHint, recentStats),
	}}}}}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("gemini: request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode(), snippet(resp.String()))
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 200 {
		return string(r[:200]) + "..."
	}
	return s
}
