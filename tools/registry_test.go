package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ElManaa/MCPServer/schema"
	"github.com/ElManaa/MCPServer/tools"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	desc   string
	schema *schema.Schema
	run    func(ctx context.Context, args json.RawMessage) (any, error)
}

func (t *stubTool) Name() string           { return t.name }
func (t *stubTool) Description() string    { return t.desc }
func (t *stubTool) Schema() *schema.Schema { return t.schema }

func (t *stubTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	if t.run != nil {
		return t.run(ctx, args)
	}
	return nil, nil
}

func newStub(name string) *stubTool {
	return &stubTool{
		name: name,
		desc: "Stub tool " + name,
		schema: &schema.Schema{
			Type: schema.Object,
			Properties: map[string]*schema.Schema{
				"location": {Type: schema.String},
			},
			Required: []string{"location"},
		},
	}
}

func Test_Registry_Register(t *testing.T) {
	reg := tools.NewRegistry()
	require.NoError(t, reg.Register(newStub("get-weather")))
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Lookup("get-weather")
	require.True(t, ok)
	assert.Equal(t, "get-weather", got.Name())

	_, ok = reg.Lookup("does-not-exist")
	assert.False(t, ok)
}

func Test_Registry_DuplicateName(t *testing.T) {
	reg := tools.NewRegistry()
	first := newStub("get-weather")
	require.NoError(t, reg.Register(first))

	err := reg.Register(newStub("get-weather"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrDuplicateName))
	assert.Contains(t, err.Error(), `tool "get-weather"`)

	// the registry is left unchanged: still the first contract
	assert.Equal(t, 1, reg.Len())
	got, ok := reg.Lookup("get-weather")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func Test_Registry_EmptyName(t *testing.T) {
	reg := tools.NewRegistry()
	err := reg.Register(newStub(""))
	assert.True(t, errors.Is(err, tools.ErrEmptyName))
	assert.Equal(t, 0, reg.Len())
}

func Test_Registry_MalformedSchema(t *testing.T) {
	bad := newStub("bad")
	bad.schema = &schema.Schema{
		Type:     schema.Object,
		Required: []string{"undeclared"},
	}
	reg := tools.NewRegistry()
	err := reg.Register(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tool "bad" has a malformed schema`)
	assert.Equal(t, 0, reg.Len())
}

func Test_Registry_Descriptors(t *testing.T) {
	reg := tools.NewRegistry()
	names := []string{"b-tool", "a-tool", "c-tool"}
	for _, name := range names {
		require.NoError(t, reg.Register(newStub(name)))
	}

	descs := reg.Descriptors()
	require.Len(t, descs, len(names))
	// sorted by name regardless of registration order
	assert.Equal(t, "a-tool", descs[0].Name)
	assert.Equal(t, "b-tool", descs[1].Name)
	assert.Equal(t, "c-tool", descs[2].Name)
	for _, d := range descs {
		assert.NotEmpty(t, d.Description)
		require.NotNil(t, d.InputSchema)
		assert.Equal(t, schema.Object, d.InputSchema.Type)
	}

	assert.Equal(t, []string{"a-tool", "b-tool", "c-tool"}, reg.Names())
}

func Test_Describe(t *testing.T) {
	d := tools.Describe(newStub("get-weather"))
	assert.Equal(t, "get-weather", d.Name)
	assert.Equal(t, "Stub tool get-weather", d.Description)
	require.NotNil(t, d.InputSchema)

	assert.Equal(t, tools.Descriptor{}, tools.Describe(nil))
}
