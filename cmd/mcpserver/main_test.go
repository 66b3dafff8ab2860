package main

import (
	"bytes"
	"testing"

	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElManaa/MCPServer/config"
)

func TestBuildRegistry(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	registry, err := buildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"get-weather"}, registry.Names())
}

func TestBuildRegistryWithOverrides(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Weather.ForecastURL = "http://localhost:8181"
	cfg.Weather.TimeoutSec = 3

	registry, err := buildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())
}

func TestConfigCommand(t *testing.T) {
	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	err := runConfig(configCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "endpoint: /rpc")
	assert.Contains(t, buf.String(), "8080")
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, xlog.DEBUG, logLevel("debug"))
	assert.Equal(t, xlog.WARNING, logLevel("warning"))
	assert.Equal(t, xlog.ERROR, logLevel("error"))
	assert.Equal(t, xlog.INFO, logLevel("info"))
	assert.Equal(t, xlog.INFO, logLevel(""))
}
