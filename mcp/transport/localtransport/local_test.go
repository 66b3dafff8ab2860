package localtransport_test

import (
	"context"
	"testing"

	"github.com/ElManaa/MCPServer/mcp"
	"github.com/ElManaa/MCPServer/mcp/transport/localtransport"
	"github.com/ElManaa/MCPServer/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LocalTransport(t *testing.T) {
	reg := tools.NewRegistry()
	router := mcp.NewRouter(reg)

	tr := localtransport.New()
	tr.SetHandler(router.HandlePayload)

	ctx := context.Background()
	require.NoError(t, tr.Start(ctx))

	resp, err := tr.HandleMessage(ctx, []byte(`{"method":"list"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"tools":[]}}`, string(resp))

	closed := false
	tr.SetCloseHandler(func() { closed = true })
	require.NoError(t, tr.Close())
	assert.True(t, closed)
}

func Test_LocalTransport_NotConnected(t *testing.T) {
	tr := localtransport.New()

	_, err := tr.HandleMessage(context.Background(), []byte(`{"method":"list"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}
