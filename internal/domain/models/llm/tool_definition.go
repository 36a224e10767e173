package llm

// Tool names exposed to the blog agent
const (
	SearchToolName = "search_tool"
	ImageToolName  = "image_tool"
)

// FunctionDetails represents the function definition (OpenAI format)
type FunctionDetails struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolDefinition describes a callable tool in OpenAI function format:
//
//	{"type": "function", "function": {"name": ..., "description": ..., "parameters": {...}}}
type ToolDefinition struct {
	Type     string           `json:"type"`
	Function *FunctionDetails `json:"function"`
}

// Name returns the function name, or "" for a malformed definition
func (td ToolDefinition) Name() string {
	if td.Function == nil {
		return ""
	}
	return td.Function.Name
}

// GetBlogToolDefinitions returns the tools available to the blog agent.
func GetBlogToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		getSearchToolDefinition(),
		getImageToolDefinition(),
	}
}

func getSearchToolDefinition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: &FunctionDetails{
			Name:        SearchToolName,
			Description: "Searches the web for the latest information on a topic. Returns source titles and snippets.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The topic or question to research",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func getImageToolDefinition() ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: &FunctionDetails{
			Name:        ImageToolName,
			Description: "Generates a high-quality featured image from a descriptive prompt and saves it for the blog.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "A detailed visual description of the image to generate",
					},
				},
				"required": []string{"prompt"},
			},
		},
	}
}
