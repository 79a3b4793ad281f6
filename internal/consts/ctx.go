package consts

// CtxKey is the type used for context value keys across the module.
type CtxKey string

const (
	CtxKeyLogID     CtxKey = "log_id"
	CtxKeySessionID CtxKey = "session_id"
	CtxKeyToolName  CtxKey = "tool_name"
)
