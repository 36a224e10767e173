package openai

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"

	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
)

func TestSanitizeParams(t *testing.T) {
	params := openai.ChatCompletionNewParams{
		Model:             openai.ChatModel("gemini-2.0-flash"),
		Messages:          []openai.ChatCompletionMessageParamUnion{openai.UserMessage("hi")},
		Store:             openai.Bool(true),
		ParallelToolCalls: openai.Bool(true),
		StreamOptions:     openai.ChatCompletionStreamOptionsParam{IncludeUsage: openai.Bool(true)},
		Temperature:       openai.Float(0.7),
	}

	got := sanitizeParams(params)

	if got.Store.Valid() {
		t.Error("expected store to be cleared")
	}
	if got.ParallelToolCalls.Valid() {
		t.Error("expected parallel_tool_calls to be cleared")
	}
	if got.StreamOptions.IncludeUsage.Valid() {
		t.Error("expected stream_options to be cleared")
	}
	if got.Model != params.Model || len(got.Messages) != 1 || !got.Temperature.Valid() {
		t.Error("expected other fields to be preserved")
	}
	if !params.Store.Valid() {
		t.Error("sanitizeParams must not modify its input")
	}
}

func TestConvertMessages(t *testing.T) {
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: "history of tea"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "call_1", Name: llm.SearchToolName, Arguments: map[string]interface{}{"query": "tea"}}}},
		{Role: llm.RoleTool, Content: "Source: Tea\nTea is old.", ToolCallID: "call_1", ToolName: llm.SearchToolName},
	}

	result, err := convertMessages("system prompt", messages)
	if err != nil {
		t.Fatalf("convertMessages failed: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(result))
	}
	if result[0].OfSystem == nil || result[1].OfUser == nil || result[3].OfTool == nil {
		t.Error("unexpected message roles")
	}
	assistant := result[2].OfAssistant
	if assistant == nil || len(assistant.ToolCalls) != 1 {
		t.Fatal("expected assistant message with one tool call")
	}
	if assistant.ToolCalls[0].Function.Arguments != `{"query":"tea"}` {
		t.Errorf("unexpected arguments %s", assistant.ToolCalls[0].Function.Arguments)
	}

	if _, err := convertMessages("", []llm.Message{{Role: llm.RoleTool, Content: "x"}}); err == nil {
		t.Error("expected error for tool message without call id")
	}
	if _, err := convertMessages("", []llm.Message{{Role: "narrator"}}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestProvider_Complete(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gemini-2.0-flash",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "image_tool", "arguments": "{\"prompt\":\"a teapot\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	provider, err := NewProvider("test-key", server.URL)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	resp, err := provider.Complete(t.Context(), &domainllm.CompletionRequest{
		Model:    "gemini-2.0-flash",
		System:   "be helpful",
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "draw a teapot"}},
		Tools:    llm.GetBlogToolDefinitions(),
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if !resp.HasToolCalls() {
		t.Fatal("expected tool calls")
	}
	call := resp.ToolCalls[0]
	if call.ID != "call_1" || call.Name != llm.ImageToolName || call.Arguments["prompt"] != "a teapot" {
		t.Errorf("unexpected tool call %+v", call)
	}
	if resp.InputTokens != 12 || resp.OutputTokens != 3 {
		t.Errorf("expected usage 12/3, got %d/%d", resp.InputTokens, resp.OutputTokens)
	}

	for _, key := range []string{"store", "parallel_tool_calls", "stream_options"} {
		if _, ok := body[key]; ok {
			t.Errorf("request body should not contain %q", key)
		}
	}
	if tools, ok := body["tools"].([]interface{}); !ok || len(tools) != 2 {
		t.Errorf("expected 2 tools in request, got %v", body["tools"])
	}
}

func TestProvider_CompleteClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   domainllm.FailureKind
	}{
		{name: "rate limit", status: http.StatusTooManyRequests, want: domainllm.FailureRateLimit},
		{name: "auth", status: http.StatusUnauthorized, want: domainllm.FailureAuth},
		{name: "bad request", status: http.StatusBadRequest, want: domainllm.FailureInvalidRequest},
		{name: "server", status: http.StatusInternalServerError, want: domainllm.FailureServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "error", "code": "x"}}`))
			}))
			defer server.Close()

			provider, _ := NewProvider("test-key", server.URL)
			_, err := provider.Complete(t.Context(), &domainllm.CompletionRequest{
				Model:    "gemini-2.0-flash",
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			})

			var perr *domainllm.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if perr.Kind != tt.want {
				t.Errorf("expected kind %s, got %s", tt.want, perr.Kind)
			}
			if perr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, perr.StatusCode)
			}
		})
	}
}

func TestNewProvider_RequiresKey(t *testing.T) {
	if _, err := NewProvider("", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}
