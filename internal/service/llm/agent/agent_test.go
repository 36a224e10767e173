package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
	"blogsmith/internal/service/llm/tools"
)

// mockProvider returns scripted responses in order and records every request.
type mockProvider struct {
	mu        sync.Mutex
	responses []*domainllm.CompletionResponse
	err       error
	requests  []*domainllm.CompletionRequest
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy messages; the agent keeps appending to its slice
	snapshot := *req
	snapshot.Messages = append([]llm.Message(nil), req.Messages...)
	m.requests = append(m.requests, &snapshot)

	if m.err != nil {
		return nil, m.err
	}
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return m.responses[idx], nil
}

type stubResearcher struct {
	results []llm.SearchResult
}

func (s *stubResearcher) MultiSearch(ctx context.Context, topic string) []llm.SearchResult {
	return s.results
}

// stubImages maps prompts to saved paths; unknown prompts fail.
type stubImages map[string]string

func (s stubImages) Generate(ctx context.Context, prompt string) string {
	return s[prompt]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAgent(provider domainllm.Provider, images stubImages) *ToolAgent {
	registry := tools.BuildBlogTools(&stubResearcher{results: []llm.SearchResult{
		{Title: "A History of Tea", Snippet: "Tea began in China."},
		{Title: "Tea Today", Snippet: "Tea is the second most consumed drink."},
	}}, images)

	a := NewToolAgent(provider, registry, "gemini-2.0-flash", testLogger())
	a.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return a
}

func toolCall(id, name, key, value string) llm.ToolCall {
	return llm.ToolCall{ID: id, Name: name, Arguments: map[string]interface{}{key: value}}
}

func TestToolAgent_RunWithTools(t *testing.T) {
	provider := &mockProvider{responses: []*domainllm.CompletionResponse{
		{ToolCalls: []llm.ToolCall{toolCall("c1", llm.SearchToolName, "query", "history of tea")}},
		{ToolCalls: []llm.ToolCall{toolCall("c2", llm.ImageToolName, "prompt", "a teapot")}},
		{Content: "Tea has a long history."},
	}}
	a := newTestAgent(provider, stubImages{"a teapot": "/static/images/abc123.png"})

	outcome, err := a.Run(context.Background(), "history of tea")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outcome.RawText != "Tea has a long history." {
		t.Errorf("unexpected text %q", outcome.RawText)
	}
	if outcome.ImageURL != "/static/images/abc123.png" {
		t.Errorf("expected image path, got %q", outcome.ImageURL)
	}
	if len(outcome.Invocations) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(outcome.Invocations))
	}
	if outcome.Invocations[0].Tool != llm.SearchToolName || outcome.Invocations[0].Argument != "history of tea" {
		t.Errorf("unexpected first invocation %+v", outcome.Invocations[0])
	}

	if len(provider.requests) != 3 {
		t.Fatalf("expected 3 provider calls, got %d", len(provider.requests))
	}
	first := provider.requests[0]
	if !strings.Contains(first.System, "Friday, March 14, 2025") {
		t.Errorf("expected dated system instruction, got %q", first.System)
	}
	if len(first.Tools) != 2 {
		t.Errorf("expected 2 tool declarations, got %d", len(first.Tools))
	}

	second := provider.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != llm.RoleTool || last.ToolCallID != "c1" {
		t.Fatalf("expected tool result for c1, got %+v", last)
	}
	if !strings.Contains(last.Content, "Source: A History of Tea\nTea began in China.") {
		t.Errorf("unexpected search digest %q", last.Content)
	}
}

func TestToolAgent_LastImageWins(t *testing.T) {
	provider := &mockProvider{responses: []*domainllm.CompletionResponse{
		{ToolCalls: []llm.ToolCall{
			toolCall("c1", llm.ImageToolName, "prompt", "first"),
			toolCall("c2", llm.ImageToolName, "prompt", "second"),
			toolCall("c3", llm.ImageToolName, "prompt", "broken"),
		}},
		{Content: "done"},
	}}
	a := newTestAgent(provider, stubImages{"first": "/static/images/1.png", "second": "/static/images/2.png"})

	outcome, err := a.Run(context.Background(), "draw")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.ImageURL != "" {
		t.Errorf("expected failed last image to clear the slot, got %q", outcome.ImageURL)
	}
}

func TestToolAgent_ImageSlotFollowsLastCall(t *testing.T) {
	tests := []struct {
		name    string
		prompts []string
		want    string
	}{
		{name: "success then failure", prompts: []string{"first", "broken"}, want: ""},
		{name: "failure then success", prompts: []string{"broken", "first"}, want: "/static/images/1.png"},
		{name: "two successes", prompts: []string{"first", "second"}, want: "/static/images/2.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var responses []*domainllm.CompletionResponse
			for i, prompt := range tt.prompts {
				responses = append(responses, &domainllm.CompletionResponse{ToolCalls: []llm.ToolCall{
					toolCall(fmt.Sprintf("c%d", i), llm.ImageToolName, "prompt", prompt),
				}})
			}
			responses = append(responses, &domainllm.CompletionResponse{Content: "done"})

			provider := &mockProvider{responses: responses}
			a := newTestAgent(provider, stubImages{"first": "/static/images/1.png", "second": "/static/images/2.png"})

			outcome, err := a.Run(context.Background(), "draw")
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if outcome.ImageURL != tt.want {
				t.Errorf("expected image %q, got %q", tt.want, outcome.ImageURL)
			}
		})
	}
}

func TestToolAgent_NoImageWhenToolNotCalled(t *testing.T) {
	provider := &mockProvider{responses: []*domainllm.CompletionResponse{{Content: "Hello! How can I help?"}}}
	a := newTestAgent(provider, nil)

	outcome, err := a.Run(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.ImageURL != "" || len(outcome.Invocations) != 0 {
		t.Errorf("expected no image and no invocations, got %+v", outcome)
	}
}

func TestToolAgent_MaxRounds(t *testing.T) {
	provider := &mockProvider{responses: []*domainllm.CompletionResponse{
		{Content: "still searching", ToolCalls: []llm.ToolCall{toolCall("c", llm.SearchToolName, "query", "tea")}},
	}}
	a := newTestAgent(provider, nil)
	a.maxRounds = 2

	outcome, err := a.Run(context.Background(), "tea")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(provider.requests) != 3 {
		t.Fatalf("expected 3 provider calls, got %d", len(provider.requests))
	}
	if len(provider.requests[2].Tools) != 0 {
		t.Error("expected final call without tools")
	}
	if outcome.RawText != "still searching" {
		t.Errorf("unexpected text %q", outcome.RawText)
	}
}

func TestToolAgent_ProviderErrorKeepsKind(t *testing.T) {
	provider := &mockProvider{err: &domainllm.ProviderError{Kind: domainllm.FailureRateLimit, StatusCode: 429, Provider: "mock", Err: errors.New("slow down")}}
	a := newTestAgent(provider, nil)

	_, err := a.Run(context.Background(), "tea")
	if !domainllm.IsRateLimited(err) {
		t.Errorf("expected rate limit error, got %v", err)
	}
}

func TestScriptedAgent(t *testing.T) {
	registry := tools.BuildBlogTools(&stubResearcher{}, stubImages{"tea": "/static/images/tea.png"})
	boom := errors.New("boom")
	a := NewScriptedAgent(registry,
		Script{Err: boom},
		Script{Calls: []llm.ToolCall{toolCall("c1", llm.ImageToolName, "prompt", "tea")}, Text: "draft"},
		Script{Text: "plain"},
	)

	if _, err := a.Run(context.Background(), "t"); !errors.Is(err, boom) {
		t.Errorf("expected scripted error, got %v", err)
	}

	outcome, err := a.Run(context.Background(), "t")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.RawText != "draft" || outcome.ImageURL != "/static/images/tea.png" {
		t.Errorf("unexpected outcome %+v", outcome)
	}

	// A new run starts with an empty slot
	for i := 0; i < 2; i++ {
		outcome, _ = a.Run(context.Background(), "t")
		if outcome.RawText != "plain" || outcome.ImageURL != "" {
			t.Errorf("run %d: unexpected outcome %+v", i, outcome)
		}
	}

	if a.Runs() != 4 {
		t.Errorf("expected 4 runs, got %d", a.Runs())
	}
}

func TestScriptedAgent_ConcurrentRunsIsolated(t *testing.T) {
	registry := tools.BuildBlogTools(&stubResearcher{}, stubImages{"tea": "/static/images/tea.png"})
	withImage := NewScriptedAgent(registry, Script{Calls: []llm.ToolCall{toolCall("c", llm.ImageToolName, "prompt", "tea")}, Text: "a"})
	withoutImage := NewScriptedAgent(registry, Script{Text: "b"})

	var wg sync.WaitGroup
	errs := make(chan string, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if o, _ := withImage.Run(context.Background(), "x"); o.ImageURL != "/static/images/tea.png" {
				errs <- "missing image"
			}
		}()
		go func() {
			defer wg.Done()
			if o, _ := withoutImage.Run(context.Background(), "y"); o.ImageURL != "" {
				errs <- "leaked image " + o.ImageURL
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func TestSystemInstruction(t *testing.T) {
	got := SystemInstruction(time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC))

	if !strings.Contains(got, "Today's Date: Monday, January 02, 2006.") {
		t.Errorf("unexpected date line in %q", got)
	}
	for _, tool := range []string{llm.SearchToolName, llm.ImageToolName} {
		if !strings.Contains(got, tool) {
			t.Errorf("expected instruction to mention %s", tool)
		}
	}
}
