// Package analysis asks a Gemini model to interpret a night of sleep.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourname/sleepscope/internal"
	"google.golang.org/genai"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/"
)

var ErrMissingAPIKey = errors.New("analysis: API key not set")

// Analyzer turns a record into a natural-language analysis.
type Analyzer interface {
	Analyze(ctx context.Context, rec internal.SleepRecord) (string, error)
}

type ClientOption func(*GeminiClient)

func WithModel(model string) ClientOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

func WithBaseURL(base string) ClientOption {
	return func(c *GeminiClient) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/") + "/"
		}
	}
}

// WithHTTPClient replaces the transport. The default client has no timeout;
// callers bound the call through the context.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *GeminiClient) { c.httpClient = hc }
}

// GeminiClient issues one generateContent call per Analyze.
type GeminiClient struct {
	model      string
	baseURL    string
	httpClient *http.Client
	genai      *genai.Client
	logger     internal.Logger
}

// NewGeminiClient fails when apiKey is empty so a missing credential is
// caught at startup rather than on the first submission.
func NewGeminiClient(ctx context.Context, apiKey string, logger internal.Logger, opts ...ClientOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &GeminiClient{
		model:   DefaultModel,
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: create client: %w", err)
	}
	c.genai = gc
	return c, nil
}

func (c *GeminiClient) Model() string { return c.model }

func (c *GeminiClient) Analyze(ctx context.Context, rec internal.SleepRecord) (string, error) {
	prompt, err := BuildPrompt(rec)
	if err != nil {
		return "", err
	}

	c.logger.Debugf("analysis: generateContent model=%s (%d chars)", c.model, len(prompt))

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("analysis: request failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("analysis: empty response (no candidates)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("analysis: empty text (finish reason %q)", resp.Candidates[0].FinishReason)
	}

	c.logger.Debugf("analysis: reply (%d chars)", len(text))
	return text, nil
}

var _ Analyzer = (*GeminiClient)(nil)
