// Package ai calls the hosted language model that powers the
// "Improve with AI" action.
//
// When no credential is configured the client degrades to a clearly-marked
// mock response instead of failing: drafts are never at the mercy of
// deployment configuration.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Improver is the single operation the editing session needs from the AI
// collaborator.
type Improver interface {
	Improve(ctx context.Context, content string) (string, error)
}

// ServiceError reports a failed improvement call. The editing session
// keeps the user's draft and appends a visible marker instead of
// surfacing this to the view layer.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string { return fmt.Sprintf("ai service: %s: %v", e.Op, e.Err) }
func (e *ServiceError) Unwrap() error { return e.Err }

// MockNotice is appended to the draft when no credential is configured.
const MockNotice = "\n\n---\n*Mock AI improvement: This is a sample response as the API key is not configured.*"

// instruction is the fixed preamble sent ahead of the document text.
const instruction = `You are an expert technical writer. Review the following markdown document. Improve it for clarity, conciseness, and correctness. Fix any grammar or spelling mistakes. Maintain the original markdown formatting. Only return the improved markdown content, without any additional commentary or preamble.

DOCUMENT:
---
`

// Defaults for the hosted model.
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-pro"
)

// Client talks to a generateContent-style text endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	model      string
	log        *zap.Logger
}

// New builds a Client. An empty apiKey puts the client in mock mode.
func New(apiKey, endpoint, model string, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		logger.Warn("AI credential not configured; improvement requests will return mock responses")
	}
	return &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		endpoint:   endpoint,
		model:      model,
		log:        logger,
	}
}

// request/response shapes for the generateContent API.

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Improve sends the full document text with the instruction preamble and
// returns the replacement text. In mock mode it resolves with the original
// content plus a marked suffix.
func (c *Client) Improve(ctx context.Context, content string) (string, error) {
	if c.apiKey == "" {
		return content + MockNotice, nil
	}

	prompt := instruction + content + "\n---\n"

	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", &ServiceError{Op: "encode request", Err: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &ServiceError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Op: "call model", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("AI endpoint returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return "", &ServiceError{Op: "call model", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ServiceError{Op: "decode response", Err: err}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &ServiceError{Op: "decode response", Err: fmt.Errorf("empty candidate list")}
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
