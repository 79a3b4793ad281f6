package hook

// ToolInput identifies one tool invocation of the host.
type ToolInput struct {
	Tool      string `json:"tool"`
	SessionID string `json:"sessionID"`
	CallID    string `json:"callID"`
}

// ToolOutput is the host's mutable record of a tool result; Output may be
// extended in place.
type ToolOutput struct {
	Title    string      `json:"title"`
	Output   string      `json:"output"`
	Metadata interface{} `json:"metadata,omitempty"`
}

type BeforeOutput struct {
	Args interface{} `json:"args,omitempty"`
}

// Event is a host lifecycle notification.
type Event struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

const (
	EventSessionDeleted   = "session.deleted"
	EventSessionCompacted = "session.compacted"
)
