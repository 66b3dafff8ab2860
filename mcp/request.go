package mcp

import (
	"encoding/json"

	"github.com/ElManaa/MCPServer/tools"
)

// Protocol methods.
const (
	MethodList = "list"
	MethodCall = "call"
)

// Request is the typed inbound protocol message.
type Request struct {
	Method string      `json:"method"`
	Params *CallParams `json:"params,omitempty"`
}

// CallParams names the tool to invoke and carries its raw arguments.
// Arguments stay unparsed until the tool's schema is known.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response is a tagged union: exactly one of Result or Error is set.
type Response struct {
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// MarshalJSON keeps exactly one arm on the wire. A successful call whose
// result is nil is still a success and serializes as {"result":null}, so
// callers can always branch on which key is present.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Error *Error `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		Result any `json:"result"`
	}{r.Result})
}

// NewResultResponse wraps a successful outcome.
func NewResultResponse(result any) *Response {
	return &Response{Result: result}
}

// NewErrorResponse wraps a failure.
func NewErrorResponse(err *Error) *Response {
	return &Response{Error: err}
}

// ListResult is the result payload of the list method.
type ListResult struct {
	Tools []tools.Descriptor `json:"tools"`
}
