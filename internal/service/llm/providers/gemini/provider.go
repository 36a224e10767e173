package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
)

const providerName = "gemini"

// Provider implements the Provider interface on the native Gemini SDK.
type Provider struct {
	client *genai.Client
}

// NewProvider creates a Gemini API client for apiKey.
func NewProvider(ctx context.Context, apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the %s provider", providerName)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{client: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Complete sends one GenerateContent request.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	contents, err := convertContents(req.Messages)
	if err != nil {
		return nil, &domainllm.ProviderError{Kind: domainllm.FailureInvalidRequest, Provider: providerName, Err: err}
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, buildConfig(req))
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Candidates) == 0 {
		return nil, &domainllm.ProviderError{
			Kind:     domainllm.FailureServer,
			Provider: providerName,
			Err:      errors.New("no candidates in response"),
		}
	}

	return convertFromResponse(req.Model, resp), nil
}

func buildConfig(req *domainllm.CompletionRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if decls := convertTools(req.Tools); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

// convertContents maps the conversation onto Gemini contents. Consecutive tool
// results are merged into one user turn, as the API expects.
func convertContents(messages []llm.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleUser, llm.RoleSystem:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))

		case llm.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, genai.NewPartFromFunctionCall(call.Name, call.Arguments))
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))

		case llm.RoleTool:
			if msg.ToolName == "" {
				return nil, fmt.Errorf("message %d: tool message missing tool name", i)
			}
			part := genai.NewPartFromFunctionResponse(msg.ToolName, map[string]any{"result": msg.Content})
			if n := len(contents); n > 0 && isFunctionResponseTurn(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))

		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}
	return contents, nil
}

func isFunctionResponseTurn(c *genai.Content) bool {
	if c.Role != string(genai.RoleUser) || len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if p.FunctionResponse == nil {
			return false
		}
	}
	return true
}

func convertTools(defs []llm.ToolDefinition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		if def.Function == nil {
			continue
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Function.Name,
			Description: def.Function.Description,
			Parameters:  schemaFromMap(def.Function.Parameters),
		})
	}
	return decls
}

// schemaFromMap converts a JSON-schema map (the OpenAI tool format) into a genai.Schema.
func schemaFromMap(m map[string]interface{}) *genai.Schema {
	if m == nil {
		return nil
	}

	schema := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		schema.Type = genai.Type(strings.ToUpper(t))
	}
	if d, ok := m["description"].(string); ok {
		schema.Description = d
	}
	if props, ok := m["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if prop, ok := raw.(map[string]interface{}); ok {
				schema.Properties[name] = schemaFromMap(prop)
			}
		}
	}
	if items, ok := m["items"].(map[string]interface{}); ok {
		schema.Items = schemaFromMap(items)
	}
	switch req := m["required"].(type) {
	case []string:
		schema.Required = req
	case []interface{}:
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

func convertFromResponse(model string, resp *genai.GenerateContentResponse) *domainllm.CompletionResponse {
	out := &domainllm.CompletionResponse{
		Model:      model,
		StopReason: string(resp.Candidates[0].FinishReason),
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}

	for i, fc := range resp.FunctionCalls() {
		id := fc.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", fc.Name, i)
		}
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        id,
			Name:      fc.Name,
			Arguments: fc.Args,
		})
	}

	if content := resp.Candidates[0].Content; content != nil {
		for _, part := range content.Parts {
			if part.Text != "" && !part.Thought {
				out.Content += part.Text
			}
		}
	}

	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out
}
