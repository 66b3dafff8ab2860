package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ElManaa/MCPServer/mcp"
	"github.com/ElManaa/MCPServer/schema"
	"github.com/ElManaa/MCPServer/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name   string
	schema *schema.Schema
	run    func(ctx context.Context, args json.RawMessage) (any, error)
}

func (t *echoTool) Name() string           { return t.name }
func (t *echoTool) Description() string    { return "Echoes its location argument back." }
func (t *echoTool) Schema() *schema.Schema { return t.schema }

func (t *echoTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	if t.run != nil {
		return t.run(ctx, args)
	}
	var req struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}
	return map[string]any{"echo": req.Location}, nil
}

func newEchoTool(name string) *echoTool {
	return &echoTool{
		name: name,
		schema: &schema.Schema{
			Type: schema.Object,
			Properties: map[string]*schema.Schema{
				"location": {Type: schema.String},
			},
			Required: []string{"location"},
		},
	}
}

func newRouter(t *testing.T, list ...tools.ITool) (*mcp.Router, *tools.Registry) {
	t.Helper()
	reg := tools.NewRegistry()
	for _, tool := range list {
		require.NoError(t, reg.Register(tool))
	}
	return mcp.NewRouter(reg), reg
}

func Test_Router_SuccessfulCall(t *testing.T) {
	router, _ := newRouter(t, newEchoTool("get-weather"))

	payload := []byte(`{"method":"call","params":{"name":"get-weather","arguments":{"location":"London"}}}`)
	resp := router.Handle(context.Background(), payload)

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)

	js, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"echo":"London"}}`, string(js))
}

func Test_Router_MissingRequiredField(t *testing.T) {
	router, _ := newRouter(t, newEchoTool("get-weather"))

	payload := []byte(`{"method":"call","params":{"name":"get-weather","arguments":{}}}`)
	resp := router.Handle(context.Background(), payload)

	require.NotNil(t, resp.Error)
	assert.Nil(t, resp.Result)
	assert.Equal(t, mcp.CodeValidation, resp.Error.Code)

	violations, ok := resp.Error.Details.([]schema.Violation)
	require.True(t, ok)
	require.Len(t, violations, 1)
	assert.Equal(t, "$.location", violations[0].Path)
}

func Test_Router_OmittedArgumentsDefaultToEmpty(t *testing.T) {
	router, _ := newRouter(t, newEchoTool("get-weather"))

	// no arguments at all: validated as {} and rejected by the schema
	payload := []byte(`{"method":"call","params":{"name":"get-weather"}}`)
	resp := router.Handle(context.Background(), payload)
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeValidation, resp.Error.Code)

	payload = []byte(`{"method":"call","params":{"name":"get-weather","arguments":null}}`)
	resp = router.Handle(context.Background(), payload)
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeValidation, resp.Error.Code)
}

func Test_Router_NilResultStaysOnSuccessArm(t *testing.T) {
	quiet := newEchoTool("side-effect")
	quiet.run = func(ctx context.Context, args json.RawMessage) (any, error) {
		return nil, nil
	}
	router, _ := newRouter(t, quiet)

	payload := []byte(`{"method":"call","params":{"name":"side-effect","arguments":{"location":"x"}}}`)
	resp := router.Handle(context.Background(), payload)
	require.Nil(t, resp.Error)

	// a nil result is still a success: the result key must be present
	js := router.HandlePayload(context.Background(), payload)
	assert.JSONEq(t, `{"result":null}`, string(js))
}

func Test_Router_CallWithNoRequiredParams(t *testing.T) {
	ping := &echoTool{
		name:   "ping",
		schema: &schema.Schema{Type: schema.Object},
		run: func(ctx context.Context, args json.RawMessage) (any, error) {
			return map[string]any{"pong": true}, nil
		},
	}
	router, _ := newRouter(t, ping)

	// a tool without required parameters is callable with bare params
	for _, payload := range []string{
		`{"method":"call","params":{"name":"ping"}}`,
		`{"method":"call","params":{"name":"ping","arguments":null}}`,
		`{"method":"call","params":{"name":"ping","arguments":{}}}`,
	} {
		js := router.HandlePayload(context.Background(), []byte(payload))
		assert.JSONEq(t, `{"result":{"pong":true}}`, string(js), "payload %q", payload)
	}
}

func Test_Router_UnknownMethod(t *testing.T) {
	router, reg := newRouter(t, newEchoTool("get-weather"))
	before := reg.Len()

	resp := router.Handle(context.Background(), []byte(`{"method":"unknown"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeTransport, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unknown method")
	assert.Equal(t, before, reg.Len())
}

func Test_Router_MalformedPayload(t *testing.T) {
	router, _ := newRouter(t)

	for _, payload := range []string{`{not json`, `[]`, `"list"`, ``} {
		resp := router.Handle(context.Background(), []byte(payload))
		require.NotNil(t, resp.Error, "payload %q", payload)
		assert.Equal(t, mcp.CodeTransport, resp.Error.Code)
	}

	resp := router.Handle(context.Background(), []byte(`{}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeTransport, resp.Error.Code)
	assert.Equal(t, "missing method", resp.Error.Message)
}

func Test_Router_MissingToolName(t *testing.T) {
	router, _ := newRouter(t, newEchoTool("get-weather"))

	for _, payload := range []string{
		`{"method":"call"}`,
		`{"method":"call","params":{}}`,
		`{"method":"call","params":{"arguments":{"location":"London"}}}`,
	} {
		resp := router.Handle(context.Background(), []byte(payload))
		require.NotNil(t, resp.Error, "payload %q", payload)
		assert.Equal(t, mcp.CodeTransport, resp.Error.Code)
		assert.Equal(t, "missing tool name", resp.Error.Message)
	}
}

func Test_Router_ToolNotFound(t *testing.T) {
	router, reg := newRouter(t, newEchoTool("get-weather"))

	payload := []byte(`{"method":"call","params":{"name":"does-not-exist"}}`)
	resp := router.Handle(context.Background(), payload)

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeToolNotFound, resp.Error.Code)
	assert.Equal(t, "unknown tool: does-not-exist", resp.Error.Message)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "does-not-exist", details["requested"])
	assert.Equal(t, []string{"get-weather"}, details["known"])

	// registry left unmodified
	assert.Equal(t, 1, reg.Len())
}

func Test_Router_List(t *testing.T) {
	router, _ := newRouter(t, newEchoTool("b-tool"), newEchoTool("a-tool"))

	resp := router.Handle(context.Background(), []byte(`{"method":"list"}`))
	require.Nil(t, resp.Error)

	list, ok := resp.Result.(mcp.ListResult)
	require.True(t, ok)
	require.Len(t, list.Tools, 2)
	assert.Equal(t, "a-tool", list.Tools[0].Name)
	assert.Equal(t, "b-tool", list.Tools[1].Name)

	// round-trip idempotence: identical descriptor sets with no
	// intervening registration
	resp2 := router.Handle(context.Background(), []byte(`{"method":"list"}`))
	assert.Equal(t, resp, resp2)
}

func Test_Router_ExecutionError(t *testing.T) {
	failing := newEchoTool("flaky")
	failing.run = func(ctx context.Context, args json.RawMessage) (any, error) {
		return nil, assert.AnError
	}
	router, _ := newRouter(t, failing)

	payload := []byte(`{"method":"call","params":{"name":"flaky","arguments":{"location":"x"}}}`)
	resp := router.Handle(context.Background(), payload)

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeExecution, resp.Error.Code)
	assert.Equal(t, assert.AnError.Error(), resp.Error.Message)
}

func Test_Router_RecoversFromPanic(t *testing.T) {
	exploding := newEchoTool("panic-tool")
	exploding.run = func(ctx context.Context, args json.RawMessage) (any, error) {
		panic("tool exploded")
	}
	router, _ := newRouter(t, exploding)

	payload := []byte(`{"method":"call","params":{"name":"panic-tool","arguments":{"location":"x"}}}`)
	resp := router.Handle(context.Background(), payload)

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeExecution, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "internal error")
	assert.NotContains(t, resp.Error.Message, "exploded")
}

func Test_Router_UnmarshalableResult(t *testing.T) {
	bad := newEchoTool("bad-result")
	bad.run = func(ctx context.Context, args json.RawMessage) (any, error) {
		return map[string]any{"fn": func() {}}, nil
	}
	router, _ := newRouter(t, bad)

	payload := []byte(`{"method":"call","params":{"name":"bad-result","arguments":{"location":"x"}}}`)
	resp := router.Handle(context.Background(), payload)

	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.CodeExecution, resp.Error.Code)
	assert.Equal(t, "failed to encode tool result", resp.Error.Message)
}

func Test_Router_HandlePayload(t *testing.T) {
	router, _ := newRouter(t, newEchoTool("get-weather"))

	js := router.HandlePayload(context.Background(), []byte(`{"method":"list"}`))

	var resp struct {
		Result struct {
			Tools []tools.Descriptor `json:"tools"`
		} `json:"result"`
		Error *mcp.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(js, &resp))
	assert.Nil(t, resp.Error)
	require.Len(t, resp.Result.Tools, 1)
	assert.Equal(t, "get-weather", resp.Result.Tools[0].Name)
}

func Test_Error_String(t *testing.T) {
	err := mcp.NewError(mcp.CodeToolNotFound, "unknown tool: %s", "x")
	assert.Equal(t, "ToolNotFoundError: unknown tool: x", err.Error())
}
