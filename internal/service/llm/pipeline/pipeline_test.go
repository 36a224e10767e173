package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
	"blogsmith/internal/service/llm/agent"
	"blogsmith/internal/service/llm/tools"
)

type reply struct {
	content string
	err     error
}

// mockEditorProvider replays replies in order and records requests.
type mockEditorProvider struct {
	mu       sync.Mutex
	replies  []reply
	requests []*domainllm.CompletionRequest
}

func (m *mockEditorProvider) Name() string { return "mock" }

func (m *mockEditorProvider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	idx := len(m.requests) - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	r := m.replies[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &domainllm.CompletionResponse{Content: r.content}, nil
}

func (m *mockEditorProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// recordingSleeper returns immediately and remembers each requested delay.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func (r *recordingSleeper) assertDelays(t *testing.T, want ...time.Duration) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, r.delays)
	}
	for i := range want {
		if r.delays[i] != want[i] {
			t.Errorf("delay %d: expected %v, got %v", i, want[i], r.delays[i])
		}
	}
}

type stubResearcher struct {
	results []llm.SearchResult
	topics  []string
}

func (s *stubResearcher) MultiSearch(ctx context.Context, topic string) []llm.SearchResult {
	s.topics = append(s.topics, topic)
	return s.results
}

type stubImages struct {
	path    string
	prompts []string
}

func (s *stubImages) Generate(ctx context.Context, prompt string) string {
	s.prompts = append(s.prompts, prompt)
	return s.path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rateLimited() error {
	return &domainllm.ProviderError{
		Kind:       domainllm.FailureRateLimit,
		StatusCode: 429,
		Provider:   "mock",
		Err:        errors.New("Resource has been exhausted"),
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("tea ", n))
}

func newPipeline(a domainllm.Agent, editor *Editor, sleeper *recordingSleeper) *Pipeline {
	return New(a, editor, testLogger(), WithSleeper(sleeper.Sleep))
}

func newEditor(provider domainllm.Provider) *Editor {
	return NewEditor(provider, "gemini-2.0-flash", testLogger())
}

func request(topic string) *llm.GenerationRequest {
	return &llm.GenerationRequest{Topic: topic}
}

func TestPipeline_RateLimitedTwiceThenSuccess(t *testing.T) {
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil,
		agent.Script{Err: rateLimited()},
		agent.Script{Err: rateLimited()},
		agent.Script{Text: "A short but useful answer about tea."},
	)

	result := newPipeline(a, nil, sleeper).Generate(context.Background(), request("tea"))

	if result.BlogContent != "A short but useful answer about tea." {
		t.Errorf("unexpected content %q", result.BlogContent)
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
	if a.Runs() != 3 {
		t.Errorf("expected 3 agent runs, got %d", a.Runs())
	}
	sleeper.assertDelays(t, 5*time.Second, 10*time.Second)
}

func TestPipeline_RateLimitExhausted(t *testing.T) {
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil, agent.Script{Err: rateLimited()})

	result := newPipeline(a, nil, sleeper).Generate(context.Background(), request("tea"))

	if !strings.HasPrefix(result.BlogContent, "System Error: ") {
		t.Errorf("expected system error, got %q", result.BlogContent)
	}
	if result.ImageURL != nil {
		t.Error("expected no image")
	}
	if a.Runs() != 3 {
		t.Errorf("expected 3 agent runs, got %d", a.Runs())
	}
	sleeper.assertDelays(t, 5*time.Second, 10*time.Second)
}

func TestPipeline_HardErrorIsNotRetried(t *testing.T) {
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil, agent.Script{Err: &domainllm.ProviderError{
		Kind:       domainllm.FailureAuth,
		StatusCode: 401,
		Provider:   "mock",
		Err:        errors.New("invalid api key"),
	}})

	result := newPipeline(a, nil, sleeper).Generate(context.Background(), request("tea"))

	if !strings.HasPrefix(result.BlogContent, "System Error: ") || !strings.Contains(result.BlogContent, "invalid api key") {
		t.Errorf("expected labelled system error, got %q", result.BlogContent)
	}
	if a.Runs() != 1 {
		t.Errorf("expected a single run, got %d", a.Runs())
	}
	sleeper.assertDelays(t)
}

func TestPipeline_EmptyOutputThreeTimes(t *testing.T) {
	sleeper := &recordingSleeper{}
	images := &stubImages{path: "/static/images/ignored.png"}
	registry := tools.BuildBlogTools(&stubResearcher{}, images)
	a := agent.NewScriptedAgent(registry, agent.Script{
		Calls: []llm.ToolCall{{ID: "c1", Name: llm.ImageToolName, Arguments: map[string]interface{}{"prompt": "tea"}}},
		Text:  "  \n ",
	})

	result := newPipeline(a, nil, sleeper).Generate(context.Background(), request("tea"))

	if result.BlogContent != EmptyOutputFallback {
		t.Errorf("expected fallback, got %q", result.BlogContent)
	}
	if result.BlogContent == "" {
		t.Error("content must never be empty")
	}
	if result.ImageURL != nil {
		t.Errorf("expected no image, got %q", *result.ImageURL)
	}
	if a.Runs() != 3 {
		t.Errorf("expected 3 agent runs, got %d", a.Runs())
	}
	sleeper.assertDelays(t, 2*time.Second, 2*time.Second)
}

// nilOutcomeAgent returns neither an outcome nor an error
type nilOutcomeAgent struct{ runs int }

func (a *nilOutcomeAgent) Run(ctx context.Context, topic string) (*llm.AgentRunOutcome, error) {
	a.runs++
	return nil, nil
}

func TestPipeline_NilOutcomeIsDegenerate(t *testing.T) {
	sleeper := &recordingSleeper{}
	a := &nilOutcomeAgent{}

	result := newPipeline(a, nil, sleeper).Generate(context.Background(), request("tea"))

	if result.BlogContent != EmptyOutputFallback {
		t.Errorf("expected fallback, got %q", result.BlogContent)
	}
	if result.ImageURL != nil {
		t.Errorf("expected no image, got %q", *result.ImageURL)
	}
	if a.runs != 3 {
		t.Errorf("expected 3 agent runs, got %d", a.runs)
	}
	sleeper.assertDelays(t, 2*time.Second, 2*time.Second)
}

func TestPipeline_ShortOutputThenSuccess(t *testing.T) {
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil,
		agent.Script{Text: "ok."},
		agent.Script{Text: "Hello! What topic should I write about?"},
	)

	result := newPipeline(a, nil, sleeper).Generate(context.Background(), request("hi"))

	if result.BlogContent != "Hello! What topic should I write about?" {
		t.Errorf("unexpected content %q", result.BlogContent)
	}
	if result.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", result.Attempts)
	}
	sleeper.assertDelays(t, 2*time.Second)
}

func TestPipeline_ShortDraftIsNotPolished(t *testing.T) {
	draft := "  " + words(149) + "\n\n"
	provider := &mockEditorProvider{replies: []reply{{content: "should not be used"}}}
	a := agent.NewScriptedAgent(nil, agent.Script{Text: draft})

	result := newPipeline(a, newEditor(provider), &recordingSleeper{}).Generate(context.Background(), request("tea"))

	if result.BlogContent != draft {
		t.Error("expected draft returned byte-for-byte")
	}
	if result.Polished {
		t.Error("expected unpolished result")
	}
	if provider.calls() != 0 {
		t.Errorf("expected no editor calls, got %d", provider.calls())
	}
}

func TestPipeline_PolishErrorReturnsDraft(t *testing.T) {
	draft := words(200)
	provider := &mockEditorProvider{replies: []reply{{err: &domainllm.ProviderError{
		Kind:     domainllm.FailureServer,
		Provider: "mock",
		Err:      errors.New("internal"),
	}}}}
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil, agent.Script{Text: draft})

	result := newPipeline(a, newEditor(provider), sleeper).Generate(context.Background(), request("tea"))

	if result.BlogContent != draft {
		t.Errorf("expected raw draft, got %q", result.BlogContent)
	}
	if provider.calls() != 1 {
		t.Errorf("expected 1 editor call, got %d", provider.calls())
	}
	sleeper.assertDelays(t)
}

func TestPipeline_PolishRateLimitThenSuccess(t *testing.T) {
	provider := &mockEditorProvider{replies: []reply{
		{err: rateLimited()},
		{content: "\n  Polished tea story.  \n"},
	}}
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil, agent.Script{Text: words(160)})

	result := newPipeline(a, newEditor(provider), sleeper).Generate(context.Background(), request("tea"))

	if result.BlogContent != "Polished tea story." {
		t.Errorf("expected trimmed polished text, got %q", result.BlogContent)
	}
	if !result.Polished {
		t.Error("expected polished result")
	}
	sleeper.assertDelays(t, 5*time.Second)
}

func TestPipeline_PolishRateLimitExhausted(t *testing.T) {
	draft := words(160)
	provider := &mockEditorProvider{replies: []reply{{err: rateLimited()}}}
	sleeper := &recordingSleeper{}
	a := agent.NewScriptedAgent(nil, agent.Script{Text: draft})

	result := newPipeline(a, newEditor(provider), sleeper).Generate(context.Background(), request("tea"))

	if result.BlogContent != draft {
		t.Error("expected raw draft after polish exhaustion")
	}
	if provider.calls() != 3 {
		t.Errorf("expected 3 editor calls, got %d", provider.calls())
	}
	// The agent succeeded first time, so every delay belongs to the polish loop
	sleeper.assertDelays(t, 5*time.Second, 10*time.Second)
}

func TestPipeline_PolishEmptyOutputReturnsDraft(t *testing.T) {
	draft := words(150)
	provider := &mockEditorProvider{replies: []reply{{content: "   "}}}
	a := agent.NewScriptedAgent(nil, agent.Script{Text: draft})

	result := newPipeline(a, newEditor(provider), &recordingSleeper{}).Generate(context.Background(), request("tea"))

	if result.BlogContent != draft {
		t.Error("expected raw draft when editor returns nothing")
	}
}

func TestPipeline_ImageFailureYieldsNoImage(t *testing.T) {
	registry := tools.BuildBlogTools(&stubResearcher{}, &stubImages{path: ""})
	a := agent.NewScriptedAgent(registry, agent.Script{
		Calls: []llm.ToolCall{{ID: "c1", Name: llm.ImageToolName, Arguments: map[string]interface{}{"prompt": "tea"}}},
		Text:  "Tea is a drink made from leaves.",
	})

	result := newPipeline(a, nil, &recordingSleeper{}).Generate(context.Background(), request("tea"))

	if result.ImageURL != nil {
		t.Errorf("expected no image, got %q", *result.ImageURL)
	}
	if result.BlogContent != "Tea is a drink made from leaves." {
		t.Errorf("unexpected content %q", result.BlogContent)
	}
}

func TestPipeline_HistoryOfTea(t *testing.T) {
	researcher := &stubResearcher{results: []llm.SearchResult{
		{Title: "The Origins of Tea", Snippet: "Legend credits Shennong with discovering tea.", Link: "https://example.com/origins"},
		{Title: "Tea and the Silk Road", Snippet: "Tea travelled west along trade routes.", Link: "https://example.com/silk"},
	}}
	images := &stubImages{path: "/static/images/abc123.png"}
	registry := tools.BuildBlogTools(researcher, images)

	draft := "# The History of Tea\n\n" + words(900)
	a := agent.NewScriptedAgent(registry, agent.Script{
		Calls: []llm.ToolCall{
			{ID: "c1", Name: llm.SearchToolName, Arguments: map[string]interface{}{"query": "history of tea"}},
			{ID: "c2", Name: llm.ImageToolName, Arguments: map[string]interface{}{"prompt": "an antique teapot"}},
		},
		Text: draft,
	})
	provider := &mockEditorProvider{replies: []reply{{content: "# The History of Tea\n\nA polished journey through tea."}}}

	result := newPipeline(a, newEditor(provider), &recordingSleeper{}).Generate(context.Background(), request("history of tea"))

	if result.BlogContent != "# The History of Tea\n\nA polished journey through tea." {
		t.Errorf("unexpected content %q", result.BlogContent)
	}
	if result.ImageURL == nil || *result.ImageURL != "/static/images/abc123.png" {
		t.Errorf("expected image /static/images/abc123.png, got %v", result.ImageURL)
	}
	if !result.Polished || result.Attempts != 1 {
		t.Errorf("expected polished first-attempt result, got %+v", result)
	}

	if len(researcher.topics) != 1 || researcher.topics[0] != "history of tea" {
		t.Errorf("expected one search for the topic, got %v", researcher.topics)
	}
	if len(images.prompts) != 1 {
		t.Errorf("expected one image generation, got %d", len(images.prompts))
	}

	if provider.calls() != 1 {
		t.Fatalf("expected 1 editor call, got %d", provider.calls())
	}
	sent := provider.requests[0].Messages[0].Content
	if !strings.HasPrefix(sent, "You are a professional blog editor.") || !strings.HasSuffix(sent, draft) {
		t.Error("expected editorial instruction followed by the draft")
	}
}

func TestPipeline_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := agent.NewScriptedAgent(nil, agent.Script{Err: rateLimited()})
	p := New(a, nil, testLogger()) // real timer sleeper

	done := make(chan *llm.GenerationResult, 1)
	go func() { done <- p.Generate(ctx, request("tea")) }()

	select {
	case result := <-done:
		if !strings.HasPrefix(result.BlogContent, "System Error: ") {
			t.Errorf("expected system error, got %q", result.BlogContent)
		}
		if a.Runs() != 1 {
			t.Errorf("expected 1 run, got %d", a.Runs())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not return after cancellation")
	}
}

func TestPipeline_InvalidRequest(t *testing.T) {
	a := agent.NewScriptedAgent(nil, agent.Script{Text: "unused text here"})
	p := newPipeline(a, nil, &recordingSleeper{})

	for _, req := range []*llm.GenerationRequest{nil, request("")} {
		result := p.Generate(context.Background(), req)
		if !strings.HasPrefix(result.BlogContent, "System Error: ") {
			t.Errorf("expected system error, got %q", result.BlogContent)
		}
	}
	if a.Runs() != 0 {
		t.Errorf("expected agent not to run, got %d runs", a.Runs())
	}
}

func TestPipeline_NeverEmpty(t *testing.T) {
	scripts := []agent.Script{
		{Text: ""},
		{Err: errors.New("")},
		{Err: rateLimited()},
		{Text: "Good content for the reader."},
	}

	for i, script := range scripts {
		a := agent.NewScriptedAgent(nil, script)
		result := newPipeline(a, nil, &recordingSleeper{}).Generate(context.Background(), request("tea"))
		if strings.TrimSpace(result.BlogContent) == "" {
			t.Errorf("script %d: empty content", i)
		}
	}
}

func TestTimerSleep(t *testing.T) {
	if err := TimerSleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := TimerSleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
