package modeladapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/germanamz/aiui/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks.
var (
	_ modeladapter.UsageReporter     = (*modeladapter.ModelAdapter)(nil)
	_ modeladapter.RateLimitReporter = (*modeladapter.ModelAdapter)(nil)
)

func TestNew_Fields(t *testing.T) {
	a := modeladapter.New("https://api.example.com", modeladapter.Auth{}, nil)
	a.Name = "claude-test"
	a.MaxTokens = 1024

	assert.Nil(t, a.Client)
	assert.Equal(t, "claude-test", a.Name)
	assert.Equal(t, 1024, a.ModelMaxTokens())
}

func TestNewRequest_BearerAuth(t *testing.T) {
	a := modeladapter.New("https://api.example.com", modeladapter.Auth{Key: "sk-test"}, nil)

	req, err := a.NewRequest(context.Background(), http.MethodGet, "/v1/messages", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/messages", req.URL.String())
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
}

func TestNewRequest_CustomHeader(t *testing.T) {
	auth := modeladapter.Auth{Key: "sk-test", Header: "x-api-key"}
	a := modeladapter.New("https://api.example.com", auth, nil)

	req, err := a.NewRequest(context.Background(), http.MethodGet, "/v1/messages", nil)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", req.Header.Get("x-api-key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestNewRequest_NoAuthAndExtraHeaders(t *testing.T) {
	a := modeladapter.New("https://api.example.com", modeladapter.Auth{}, nil)
	a.Headers = map[string]string{"anthropic-version": "2023-06-01"}

	req, err := a.NewRequest(context.Background(), http.MethodGet, "/v1/messages", nil)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "2023-06-01", req.Header.Get("anthropic-version"))
}

func TestPostJSON_Success(t *testing.T) {
	type reqBody struct {
		Model string `json:"model"`
	}
	type respBody struct {
		ID string `json:"id"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got reqBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "claude-test", got.Model)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(respBody{ID: "msg_123"})
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{Key: "sk-test"}, srv.Client())

	var dest respBody
	err := a.PostJSON(context.Background(), "/v1/messages", reqBody{Model: "claude-test"}, &dest)
	require.NoError(t, err)
	assert.Equal(t, "msg_123", dest.ID)
}

func TestPostJSON_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	err := a.PostJSON(context.Background(), "/v1/messages", map[string]string{}, nil)

	var apiErr *modeladapter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, `{"error":"invalid api key"}`, apiErr.Message)
	assert.False(t, modeladapter.Retryable(err))
}

func TestPostJSON_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	err := a.PostJSON(context.Background(), "/v1/messages", map[string]string{}, nil)
	require.ErrorIs(t, err, modeladapter.ErrRateLimited)

	var rle *modeladapter.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 7*time.Second, rle.RetryAfter)
	assert.Equal(t, "slow down", rle.Body)
	assert.True(t, modeladapter.Retryable(err))
}

func TestPostJSON_RateLimitedUsesHeaderReset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("anthropic-ratelimit-requests-remaining", "0")
		w.Header().Set("anthropic-ratelimit-requests-reset", "30s")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())
	a.HeaderParser = modeladapter.ParseAnthropicRateLimitHeaders

	err := a.PostJSON(context.Background(), "/v1/messages", map[string]string{}, nil)

	var rle *modeladapter.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.InDelta(t, (30 * time.Second).Seconds(), rle.RetryAfter.Seconds(), 1)
}

func TestPostJSON_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := modeladapter.New(url, modeladapter.Auth{}, nil)

	err := a.PostJSON(context.Background(), "/v1/messages", map[string]string{}, nil)

	var ne *modeladapter.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "do request", ne.Op)
	assert.True(t, modeladapter.Retryable(err))
}

func TestPostJSON_DecodeErrorIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	var dest map[string]any
	err := a.PostJSON(context.Background(), "/v1/messages", map[string]string{}, &dest)

	var ne *modeladapter.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "decode response", ne.Op)
}

func TestPostJSON_MarshalError(t *testing.T) {
	a := modeladapter.New("https://api.example.com", modeladapter.Auth{}, nil)

	err := a.PostJSON(context.Background(), "/v1/messages", make(chan int), nil)
	assert.ErrorContains(t, err, "marshal payload")
}

func TestPostJSON_StoresRateLimitInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("anthropic-ratelimit-requests-remaining", "12")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())
	a.HeaderParser = modeladapter.ParseAnthropicRateLimitHeaders

	require.NoError(t, a.PostJSON(context.Background(), "/v1/messages", map[string]string{}, nil))

	info := a.LastRateLimitInfo()
	require.NotNil(t, info)
	assert.Equal(t, 12, info.RemainingRequests)
}

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	var dest map[string]any
	require.NoError(t, a.Get(context.Background(), "/api/tags", &dest))
	assert.Contains(t, dest, "models")
}

func TestSend_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := modeladapter.New(srv.URL, modeladapter.Auth{}, srv.Client())

	err := a.PostJSON(ctx, "/v1/messages", map[string]string{}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStatusError(t *testing.T) {
	err := modeladapter.StatusError(http.StatusBadRequest, http.Header{}, []byte("bad"))
	assert.EqualError(t, err, "API error 400: bad")

	err = modeladapter.StatusError(http.StatusTooManyRequests, http.Header{}, []byte("wait"))
	assert.ErrorIs(t, err, modeladapter.ErrRateLimited)
}

func TestRetryable(t *testing.T) {
	assert.False(t, modeladapter.Retryable(modeladapter.ErrNoAPIKey))
	assert.False(t, modeladapter.Retryable(errors.New("other")))
	assert.True(t, modeladapter.Retryable(&modeladapter.NetworkError{Op: "read", Err: errors.New("eof")}))
}
