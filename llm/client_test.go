package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-app/ideation/llm"
	_ "github.com/robin-app/ideation/llm/providers" // Register providers
)

// completionResponse builds an OpenAI-format success body.
func completionResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1677652288,
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]string{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
		},
	}
}

func newTestClient(t *testing.T, serverURL string) *llm.Client {
	t.Helper()
	client, err := llm.NewClient("ollama", serverURL, "test-model")
	require.NoError(t, err)
	return client
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse(`{"marketSummary": "ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{
			{Role: "user", Content: "Hello"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"marketSummary": "ok"}`, resp.Content)
	assert.Equal(t, "test-model", resp.Model)
	assert.Equal(t, 18, resp.Usage.TotalTokens)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.NotEmpty(t, resp.RequestID)
}

func TestClient_Complete_NonOKIsFatalAndSingleRequest(t *testing.T) {
	statuses := []int{400, 401, 429, 500, 503}

	for _, status := range statuses {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error": "upstream says no"}`))
		}))

		client := newTestClient(t, server.URL)
		_, err := client.Complete(context.Background(), llm.Request{
			Messages: []llm.Message{{Role: "user", Content: "Hello"}},
		})

		require.Error(t, err, "status %d", status)
		assert.True(t, llm.IsFatal(err), "status %d must be fatal", status)
		assert.False(t, llm.IsTransient(err), "status %d must not be transient", status)
		assert.Contains(t, err.Error(), "Ollama API error")
		assert.Contains(t, err.Error(), "upstream says no")
		assert.Equal(t, int32(1), calls.Load(), "status %d must cause exactly one request", status)

		server.Close()
	}
}

func TestClient_Complete_ErrorBodyTruncated(t *testing.T) {
	longBody := make([]byte, 500)
	for i := range longBody {
		longBody[i] = 'x'
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(longBody)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "Hello"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "...")
	assert.Less(t, len(err.Error()), 300)
}

func TestClient_Complete_MissingContentIsTransient(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "no choices",
			body: map[string]any{"choices": []any{}},
		},
		{
			name: "empty content",
			body: map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": ""}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, err := client.Complete(context.Background(), llm.Request{
				Messages: []llm.Message{{Role: "user", Content: "Hello"}},
			})

			require.Error(t, err)
			assert.True(t, llm.IsTransient(err), "missing content must be transient")
			assert.Contains(t, err.Error(), "no content in API response")
		})
	}
}

func TestClient_Complete_NetworkFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := newTestClient(t, server.URL)
	_, err := client.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "Hello"}},
	})

	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
}

func TestClient_Complete_NoMessages(t *testing.T) {
	client := newTestClient(t, "http://localhost:1")
	_, err := client.Complete(context.Background(), llm.Request{})

	require.Error(t, err)
	assert.True(t, llm.IsFatal(err))
	assert.Contains(t, err.Error(), "at least one message")
}

func TestClient_Complete_SendsTemperatureAndMaxTokens(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	temperature := 0.3
	_, err := client.Complete(context.Background(), llm.Request{
		Messages:    []llm.Message{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}},
		Temperature: &temperature,
		MaxTokens:   2048,
	})
	require.NoError(t, err)

	assert.Equal(t, "test-model", gotBody["model"])
	assert.InDelta(t, 0.3, gotBody["temperature"], 0.001)
	assert.EqualValues(t, 2048, gotBody["max_tokens"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
}

func TestClient_UnknownProvider(t *testing.T) {
	_, err := llm.NewClient("nonexistent", "", "model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestOpenRouterReadyRequiresKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")

	client, err := llm.NewClient("openrouter", "", "test-model")
	require.NoError(t, err)

	err = client.Ready()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenRouter API key is required")
}
