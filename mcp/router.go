// Package mcp implements the tool invocation gateway: a router that turns
// inbound protocol messages into validated, dispatched tool executions and
// packages the outcome as a response. Transports deliver decoded payloads
// and serialize responses; the router owns everything in between.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/ElManaa/MCPServer/schema"
	"github.com/ElManaa/MCPServer/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/ElManaa/MCPServer", "mcp")

var emptyArguments = json.RawMessage(`{}`)

// Router dispatches protocol requests against a shared Registry. It is
// safe for concurrent use: all routing state lives on the request's stack,
// and the registry is read-only while requests are in flight.
type Router struct {
	registry *tools.Registry
	logger   *xlog.PackageLogger
}

// NewRouter creates a Router over the given registry.
func NewRouter(registry *tools.Registry) *Router {
	return &Router{
		registry: registry,
		logger:   logger,
	}
}

// WithLogger overrides the event sink, mainly for tests.
func (r *Router) WithLogger(l *xlog.PackageLogger) *Router {
	r.logger = l
	return r
}

// Handle routes one inbound payload to a response. Every failure is
// converted to an error response; a failed request never takes the
// process down.
func (r *Router) Handle(ctx context.Context, payload []byte) *Response {
	reqID := uuid.NewString()

	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		r.logger.ContextKV(ctx, xlog.WARNING,
			"req", reqID,
			"event", "parse_failed",
			"err", err.Error(),
		)
		return NewErrorResponse(NewError(CodeTransport, "invalid request payload"))
	}

	if req.Method == "" {
		return NewErrorResponse(NewError(CodeTransport, "missing method"))
	}

	switch req.Method {
	case MethodList:
		r.logger.ContextKV(ctx, xlog.DEBUG, "req", reqID, "method", MethodList)
		return NewResultResponse(ListResult{Tools: r.registry.Descriptors()})
	case MethodCall:
		return r.handleCall(ctx, reqID, req.Params)
	default:
		return NewErrorResponse(NewError(CodeTransport, "unknown method: %s", req.Method))
	}
}

// HandlePayload is the transport-facing entry point: it routes the payload
// and serializes the response.
func (r *Router) HandlePayload(ctx context.Context, payload []byte) []byte {
	resp := r.Handle(ctx, payload)
	js, err := json.Marshal(resp)
	if err != nil {
		r.logger.ContextKV(ctx, xlog.ERROR, "event", "encode_failed", "err", err.Error())
		return []byte(`{"error":{"code":"ExecutionError","message":"failed to encode response"}}`)
	}
	return js
}

func (r *Router) handleCall(ctx context.Context, reqID string, params *CallParams) *Response {
	if params == nil || params.Name == "" {
		return NewErrorResponse(NewError(CodeTransport, "missing tool name"))
	}

	tool, ok := r.registry.Lookup(params.Name)
	if !ok {
		return NewErrorResponse(
			NewError(CodeToolNotFound, "unknown tool: %s", params.Name).
				WithDetails(map[string]any{
					"requested": params.Name,
					"known":     r.registry.Names(),
				}))
	}

	args := params.Arguments
	if len(args) == 0 || string(args) == "null" {
		args = emptyArguments
	}

	res, err := schema.ValidateJSON(tool.Schema(), args)
	if err != nil {
		return NewErrorResponse(NewError(CodeValidation, "arguments are not valid JSON"))
	}
	if !res.Valid() {
		r.logger.ContextKV(ctx, xlog.WARNING,
			"req", reqID,
			"event", "validation_failed",
			"tool", params.Name,
			"violations", len(res.Violations),
		)
		return NewErrorResponse(
			NewError(CodeValidation, "arguments do not conform to the tool schema").
				WithDetails(res.Violations))
	}

	out, err := r.callTool(ctx, tool, args)
	if err != nil {
		// Log the full cause; surface only the message.
		r.logger.ContextKV(ctx, xlog.ERROR,
			"req", reqID,
			"event", "execution_failed",
			"tool", params.Name,
			"err", err.Error(),
		)
		return NewErrorResponse(NewError(CodeExecution, "%s", err.Error()))
	}

	if _, err := json.Marshal(out); err != nil {
		r.logger.ContextKV(ctx, xlog.ERROR,
			"req", reqID,
			"event", "encode_failed",
			"tool", params.Name,
			"err", err.Error(),
		)
		return NewErrorResponse(NewError(CodeExecution, "failed to encode tool result"))
	}

	r.logger.ContextKV(ctx, xlog.DEBUG,
		"req", reqID,
		"method", MethodCall,
		"tool", params.Name,
	)
	return NewResultResponse(out)
}

// callTool invokes the tool's execution and converts a panic into an
// error so a faulty tool cannot take the gateway down.
func (r *Router) callTool(ctx context.Context, tool tools.ITool, args json.RawMessage) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ContextKV(ctx, xlog.ERROR,
				"event", "tool_panic",
				"tool", tool.Name(),
				"recovered", rec,
			)
			out = nil
			err = errors.Errorf("internal error in tool %q", tool.Name())
		}
	}()

	return tool.Call(ctx, args)
}
