package llm

// Conversation roles understood by every provider adapter
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a provider-neutral chat message.
//
// Assistant messages may carry ToolCalls; tool messages carry the result of
// exactly one call and reference it through ToolCallID and ToolName.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	ToolName   string
}

// ToolCall is a tool-use directive returned by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}
