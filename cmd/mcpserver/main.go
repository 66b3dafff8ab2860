package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ElManaa/MCPServer/cache"
	"github.com/ElManaa/MCPServer/config"
	"github.com/ElManaa/MCPServer/mcp"
	"github.com/ElManaa/MCPServer/mcp/transport/httptransport"
	"github.com/ElManaa/MCPServer/tools"
	"github.com/ElManaa/MCPServer/tools/weather"
)

var logger = xlog.NewPackageLogger("github.com/ElManaa/MCPServer", "cmd")

var (
	cfgFile    string
	listenFlag string
)

var rootCmd = &cobra.Command{
	Use:   "mcpserver",
	Short: "Tool invocation gateway exposing REST APIs as callable tools",
	RunE:  runServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the configuration file")
	rootCmd.Flags().StringVar(&listenFlag, "listen", "", "Listen address, overrides the configuration")
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.KV(xlog.ERROR, "err", err.Error())
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if listenFlag != "" {
		cfg.Listen = listenFlag
	}

	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(logLevel(cfg.LogLevel))

	registry, err := buildRegistry(cfg)
	if err != nil {
		// duplicate or malformed registrations are configuration bugs,
		// not runtime conditions
		return err
	}

	router := mcp.NewRouter(registry)
	tr := httptransport.NewHTTPTransport(cfg.Endpoint).WithAddr(cfg.Listen)
	tr.SetHandler(router.HandlePayload)

	errCh := make(chan error, 1)
	go func() {
		errCh <- tr.Start(cmd.Context())
	}()

	logger.KV(xlog.INFO,
		"event", "gateway_started",
		"listen", cfg.Listen,
		"endpoint", cfg.Endpoint,
		"tools", registry.Names(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.KV(xlog.INFO, "event", "shutdown", "signal", sig.String())
	}
	return tr.Close()
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(cfg)
}

func buildRegistry(cfg *config.Config) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	wt, err := weather.New()
	if err != nil {
		return nil, err
	}
	wt = wt.WithCache(buildCache(cfg))
	if cfg.Weather.ForecastURL != "" || cfg.Weather.GeocodeURL != "" {
		wt = wt.WithBaseURLs(cfg.Weather.ForecastURL, cfg.Weather.GeocodeURL)
	}
	if cfg.Weather.TimeoutSec > 0 {
		wt = wt.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Weather.TimeoutSec) * time.Second,
		})
	}
	if err := registry.Register(wt); err != nil {
		return nil, err
	}
	return registry, nil
}

func buildCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.RedisAddr == "" {
		return cache.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
	return cache.NewRedisCache(client, cfg.Cache.Prefix)
}

func logLevel(s string) xlog.LogLevel {
	switch s {
	case "debug":
		return xlog.DEBUG
	case "warning":
		return xlog.WARNING
	case "error":
		return xlog.ERROR
	default:
		return xlog.INFO
	}
}
