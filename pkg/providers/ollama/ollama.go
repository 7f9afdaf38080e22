// Package ollama is the local fallback backend: a client for an Ollama
// server on the loopback interface.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/germanamz/aiui/pkg/modeladapter"
	"github.com/germanamz/aiui/pkg/modeladapter/usage"
)

const (
	// DefaultBaseURL is where a local Ollama server listens.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is requested when New is given an empty model name.
	DefaultModel = "llama3.2:latest"
	// DefaultAvailabilityTimeout bounds IsAvailable.
	DefaultAvailabilityTimeout = 2 * time.Second

	tagsPath     = "/api/tags"
	generatePath = "/api/generate"
)

// Adapter talks to a local Ollama server. It needs no credential.
type Adapter struct {
	modeladapter.ModelAdapter
	AvailabilityTimeout time.Duration
	Logger              *slog.Logger
}

// New creates an Adapter. Empty arguments select DefaultBaseURL and
// DefaultModel.
func New(baseURL, model string) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	a := &Adapter{AvailabilityTimeout: DefaultAvailabilityTimeout}
	a.BaseURL = baseURL
	a.Name = model

	return a
}

func (a *Adapter) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// IsAvailable reports whether the server answers its model listing with a
// success status. Any failure, including a timeout, means unavailable.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if a.AvailabilityTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.AvailabilityTimeout)
		defer cancel()
	}

	if err := a.Get(ctx, tagsPath, nil); err != nil {
		a.logger().Debug("ollama unavailable", "base_url", a.BaseURL, "error", err)
		return false
	}
	return true
}

// Generate performs a buffered completion of prompt. Every failure is
// reported as a *modeladapter.APIError: the server's status when it sent
// one, 500 otherwise.
func (a *Adapter) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{Model: a.Name, Prompt: prompt, Stream: false}

	var resp generateResponse
	if err := a.PostJSON(ctx, generatePath, req, &resp); err != nil {
		return "", fmt.Errorf("ollama: %w", asAPIError(err))
	}

	a.Usage.Add(usage.Stats{InputTokens: resp.PromptEvalCount, OutputTokens: resp.EvalCount})
	return resp.Response, nil
}

// TryGenerate is Generate under the name the assistant's backends share.
func (a *Adapter) TryGenerate(ctx context.Context, prompt string) (string, error) {
	return a.Generate(ctx, prompt)
}

// ListModels returns the names of the models installed on the server.
func (a *Adapter) ListModels(ctx context.Context) ([]string, error) {
	var resp tagsResponse
	if err := a.Get(ctx, tagsPath, &resp); err != nil {
		return nil, fmt.Errorf("ollama: %w", asAPIError(err))
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func asAPIError(err error) error {
	var apiErr *modeladapter.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var rle *modeladapter.RateLimitError
	if errors.As(err, &rle) {
		return &modeladapter.APIError{Status: http.StatusTooManyRequests, Message: rle.Body}
	}

	return &modeladapter.APIError{Status: http.StatusInternalServerError, Message: err.Error()}
}
