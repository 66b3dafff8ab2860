// Package localtransport is an in-process transport for tests and for
// embedding the gateway without a network listener.
package localtransport

import (
	"context"
	"sync"

	"github.com/ElManaa/MCPServer/mcp/transport"
	"github.com/cockroachdb/errors"
)

// Transport dispatches payloads directly to the handler on the caller's
// goroutine.
type Transport struct {
	handler      transport.Handler
	errorHandler func(error)
	closeHandler func()
	mu           sync.RWMutex
}

var _ transport.Transport = (*Transport)(nil)

func New() *Transport {
	return &Transport{}
}

// Start does nothing in the stateless local transport.
func (s *Transport) Start(ctx context.Context) error {
	return nil
}

// Close closes the connection.
func (s *Transport) Close() error {
	s.mu.RLock()
	closeHandler := s.closeHandler
	s.mu.RUnlock()
	if closeHandler != nil {
		closeHandler()
	}
	return nil
}

// SetHandler implements Transport.SetHandler.
func (s *Transport) SetHandler(handler transport.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// SetErrorHandler implements Transport.SetErrorHandler.
func (s *Transport) SetErrorHandler(handler func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = handler
}

// SetCloseHandler implements Transport.SetCloseHandler.
func (s *Transport) SetCloseHandler(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeHandler = handler
}

// HandleMessage processes an incoming payload and returns the response
// payload.
func (s *Transport) HandleMessage(ctx context.Context, body []byte) ([]byte, error) {
	s.mu.RLock()
	handler := s.handler
	s.mu.RUnlock()

	if handler == nil {
		return nil, errors.New("transport is not connected")
	}
	return handler(ctx, body), nil
}
