package events

const (
	// KindToolCallRequested identifies a remote tool invocation.
	KindToolCallRequested Kind = "tool_call.requested"
	// KindToolCallResponded identifies an acknowledgement for a validated call.
	KindToolCallResponded Kind = "tool_call.responded"
)

// ToolCallRequested carries a tool invocation arriving from the remote model.
type ToolCallRequested struct {
	Base
	CallID    string
	Name      string
	Arguments map[string]any
}

// NewToolCallRequested creates a tool call requested event.
func NewToolCallRequested(callID, name string, arguments map[string]any) ToolCallRequested {
	return ToolCallRequested{Base: NewBase(KindToolCallRequested), CallID: callID, Name: name, Arguments: arguments}
}

// ToolCallResponded carries the acknowledgement sent back for a validated
// tool call. Invalid calls produce no acknowledgement at all.
type ToolCallResponded struct {
	Base
	CallID string
	Name   string
	Result map[string]any
}

// NewToolCallResponded creates a tool call responded event.
func NewToolCallResponded(callID, name string, result map[string]any) ToolCallResponded {
	return ToolCallResponded{Base: NewBase(KindToolCallResponded), CallID: callID, Name: name, Result: result}
}
