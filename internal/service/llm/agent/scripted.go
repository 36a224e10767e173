package agent

import (
	"context"
	"sync"
	"time"

	"blogsmith/internal/domain/models/llm"
	"blogsmith/internal/service/llm/tools"
)

// Script is what a ScriptedAgent does on one Run: execute Calls through the
// tool registry, then return Err if set, Text otherwise.
type Script struct {
	Calls []llm.ToolCall
	Text  string
	Err   error
}

// ScriptedAgent is a deterministic Agent. Each Run consumes the next script;
// once the scripts are exhausted the last one repeats.
type ScriptedAgent struct {
	tools   *tools.ToolRegistry
	scripts []Script

	mu     sync.Mutex
	runs   int
	topics []string
}

// NewScriptedAgent creates a scripted agent. registry may be nil when no script calls tools.
func NewScriptedAgent(registry *tools.ToolRegistry, scripts ...Script) *ScriptedAgent {
	if registry == nil {
		registry = tools.NewToolRegistry()
	}
	return &ScriptedAgent{
		tools:   registry,
		scripts: scripts,
	}
}

// Run implements domainllm.Agent.
func (a *ScriptedAgent) Run(ctx context.Context, topic string) (*llm.AgentRunOutcome, error) {
	script := a.next(topic)
	state := &runState{}

	if len(script.Calls) > 0 {
		calls := tools.FromModelCalls(script.Calls)
		state.track(calls, time.Now())
		state.observe(a.tools.ExecuteParallel(ctx, calls))
	}

	if script.Err != nil {
		return nil, script.Err
	}
	return state.outcome(script.Text), nil
}

// Runs returns how many times Run was called.
func (a *ScriptedAgent) Runs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runs
}

// Topics returns the topics passed to Run, in call order.
func (a *ScriptedAgent) Topics() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.topics...)
}

func (a *ScriptedAgent) next(topic string) Script {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.topics = append(a.topics, topic)
	idx := a.runs
	a.runs++

	if len(a.scripts) == 0 {
		return Script{}
	}
	if idx >= len(a.scripts) {
		idx = len(a.scripts) - 1
	}
	return a.scripts[idx]
}
