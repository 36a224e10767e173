package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
)

const providerName = "openai"

// Provider implements the Provider interface for OpenAI-compatible chat completion
// endpoints. The default deployment points it at Gemini's OpenAI-compatible API.
type Provider struct {
	client *openai.Client
}

// NewProvider creates a new provider. baseURL may be empty for api.openai.com.
func NewProvider(apiKey, baseURL string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the %s provider", providerName)
	}

	// Rate limits are retried by the generation pipeline, not the SDK
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	client := openai.NewClient(reqOpts...)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Complete sends one chat completion request.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	params, err := buildParams(req)
	if err != nil {
		return nil, &domainllm.ProviderError{Kind: domainllm.FailureInvalidRequest, Provider: providerName, Err: err}
	}

	completion, err := p.client.Chat.Completions.New(ctx, sanitizeParams(params))
	if err != nil {
		return nil, classifyError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, &domainllm.ProviderError{
			Kind:     domainllm.FailureServer,
			Provider: providerName,
			Err:      errors.New("empty choices"),
		}
	}

	return convertFromCompletion(completion)
}

// sanitizeParams returns a copy of params without the fields Gemini's
// OpenAI-compatible endpoint rejects: store, stream_options and parallel_tool_calls.
func sanitizeParams(params openai.ChatCompletionNewParams) openai.ChatCompletionNewParams {
	params.Store = param.Opt[bool]{}
	params.ParallelToolCalls = param.Opt[bool]{}
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{}
	return params
}

// buildParams converts the provider-neutral request into SDK params
func buildParams(req *domainllm.CompletionRequest) (openai.ChatCompletionNewParams, error) {
	messages, err := convertMessages(req.System, req.Messages)
	if err != nil {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}
	return params, nil
}

func convertMessages(system string, messages []llm.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}

	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case llm.RoleUser:
			result = append(result, openai.UserMessage(msg.Content))
		case llm.RoleAssistant:
			assistant, err := convertAssistant(msg)
			if err != nil {
				return nil, fmt.Errorf("message %d: %w", i, err)
			}
			result = append(result, assistant)
		case llm.RoleTool:
			if msg.ToolCallID == "" {
				return nil, fmt.Errorf("message %d: tool message missing tool_call_id", i)
			}
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}
	return result, nil
}

func convertAssistant(msg llm.Message) (openai.ChatCompletionMessageParamUnion, error) {
	if len(msg.ToolCalls) == 0 {
		return openai.ChatCompletionMessageParamOfAssistant(msg.Content), nil
	}

	assistant := openai.ChatCompletionAssistantMessageParam{}
	if msg.Content != "" {
		assistant.Content.OfString = openai.String(msg.Content)
	}
	for _, call := range msg.ToolCalls {
		args, err := json.Marshal(call.Arguments)
		if err != nil {
			return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("tool call %s: marshal arguments: %w", call.ID, err)
		}
		assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: string(args),
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}, nil
}

func convertTools(defs []llm.ToolDefinition) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		if def.Function == nil {
			continue
		}
		fn := openai.FunctionDefinitionParam{
			Name:       def.Function.Name,
			Parameters: openai.FunctionParameters(def.Function.Parameters),
		}
		if def.Function.Description != "" {
			fn.Description = openai.String(def.Function.Description)
		}
		tools = append(tools, openai.ChatCompletionToolParam{Function: fn})
	}
	return tools
}

func convertFromCompletion(completion *openai.ChatCompletion) (*domainllm.CompletionResponse, error) {
	choice := completion.Choices[0]

	calls := make([]llm.ToolCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		args := map[string]interface{}{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, &domainllm.ProviderError{
					Kind:     domainllm.FailureServer,
					Provider: providerName,
					Err:      fmt.Errorf("tool call %s: invalid arguments: %w", tc.ID, err),
				}
			}
		}
		calls = append(calls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return &domainllm.CompletionResponse{
		Content:      choice.Message.Content,
		ToolCalls:    calls,
		Model:        completion.Model,
		StopReason:   choice.FinishReason,
		InputTokens:  int(completion.Usage.PromptTokens),
		OutputTokens: int(completion.Usage.CompletionTokens),
	}, nil
}
