// Package httptransport serves the gateway protocol over HTTP POST.
package httptransport

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/ElManaa/MCPServer/mcp/transport"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/ElManaa/MCPServer/mcp/transport", "httptransport")

const maxBodyBytes = 1 << 20

// HTTPTransport implements a stateless HTTP transport for the gateway.
// Each POST to the endpoint carries one request payload; the response
// payload is written back on the same connection. GET /healthz answers
// liveness probes.
type HTTPTransport struct {
	server       *http.Server
	endpoint     string
	addr         string
	handler      transport.Handler
	errorHandler func(error)
	closeHandler func()
	mu           sync.RWMutex
}

var _ transport.Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates an HTTP transport serving the given endpoint path.
func NewHTTPTransport(endpoint string) *HTTPTransport {
	return &HTTPTransport{
		endpoint: endpoint,
		addr:     ":8080",
	}
}

// WithAddr sets the address to listen on.
func (t *HTTPTransport) WithAddr(addr string) *HTTPTransport {
	t.addr = addr
	return t
}

// Start implements Transport.Start. It blocks until Close.
func (t *HTTPTransport) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(t.endpoint, t.handleRequest)
	mux.HandleFunc("/healthz", t.handleHealth)

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	logger.ContextKV(ctx, xlog.INFO, "addr", t.addr, "endpoint", t.endpoint)
	err := t.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close implements Transport.Close.
func (t *HTTPTransport) Close() error {
	if t.server != nil {
		if err := t.server.Close(); err != nil {
			return err
		}
	}
	t.mu.RLock()
	closeHandler := t.closeHandler
	t.mu.RUnlock()
	if closeHandler != nil {
		closeHandler()
	}
	return nil
}

// SetHandler implements Transport.SetHandler.
func (t *HTTPTransport) SetHandler(handler transport.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

// SetErrorHandler implements Transport.SetErrorHandler.
func (t *HTTPTransport) SetErrorHandler(handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorHandler = handler
}

// SetCloseHandler implements Transport.SetCloseHandler.
func (t *HTTPTransport) SetCloseHandler(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeHandler = handler
}

// Handler exposes the HTTP handler for embedding in an existing server,
// mainly tests.
func (t *HTTPTransport) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(t.endpoint, t.handleRequest)
	mux.HandleFunc("/healthz", t.handleHealth)
	return mux
}

func (t *HTTPTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
		return
	}

	t.mu.RLock()
	handler := t.handler
	t.mu.RUnlock()

	if handler == nil {
		http.Error(w, "Transport is not connected", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		t.reportError(errors.Wrap(err, "failed to read request body"))
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	response := handler(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(response); err != nil {
		t.reportError(errors.Wrap(err, "failed to write response"))
	}
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

func (t *HTTPTransport) reportError(err error) {
	t.mu.RLock()
	errorHandler := t.errorHandler
	t.mu.RUnlock()

	if errorHandler != nil {
		errorHandler(err)
		return
	}
	logger.KV(xlog.ERROR, "err", err.Error())
}
