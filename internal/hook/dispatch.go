package hook

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
)

// Host callback names carried in Request.Hook.
const (
	HookToolBefore = "tool.execute.before"
	HookToolAfter  = "tool.execute.after"
	HookEvent      = "event"
)

// Request is one host callback in its wire form, as read from stdin by the
// one-shot adapter.
type Request struct {
	Hook   string        `json:"hook"`
	Input  ToolInput     `json:"input"`
	Output *ToolOutput   `json:"output,omitempty"`
	Before *BeforeOutput `json:"before,omitempty"`
	Event  *Event        `json:"event,omitempty"`
}

// Response echoes whatever the host handed in, possibly extended.
type Response struct {
	Output *ToolOutput   `json:"output,omitempty"`
	Before *BeforeOutput `json:"before,omitempty"`
}

// Dispatch routes req to the matching Injector callback. Only an unknown hook
// name is an error; handler failures are already swallowed by the Injector.
func (i *Injector) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	switch req.Hook {
	case HookToolBefore:
		if req.Before == nil {
			req.Before = &BeforeOutput{}
		}
		i.BeforeToolExecute(ctx, req.Input, req.Before)
		return &Response{Before: req.Before}, nil
	case HookToolAfter:
		i.AfterToolExecute(ctx, req.Input, req.Output)
		return &Response{Output: req.Output}, nil
	case HookEvent:
		if req.Event != nil {
			i.OnEvent(ctx, *req.Event)
		}
		return &Response{}, nil
	}
	return nil, fmt.Errorf("unknown hook %q", req.Hook)
}

// DecodeRequest parses one wire request.
func DecodeRequest(raw []byte) (*Request, error) {
	var req Request
	if err := sonic.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode hook request: %w", err)
	}
	return &req, nil
}

// Echo is the response that hands the host its own data back unchanged,
// used when the request could not be handled.
func (r *Request) Echo() *Response {
	return &Response{Output: r.Output, Before: r.Before}
}
