// Package transport defines the narrow contract between the gateway and
// its wire transports. A transport owns connection lifecycle, framing,
// and health checks; it hands each decoded request payload to a Handler
// and serializes the returned response payload back to the caller.
package transport

import "context"

// Handler processes one decoded request payload and returns the response
// payload to send back. Implemented by the gateway router.
type Handler func(ctx context.Context, payload []byte) []byte

// Transport is implemented by the wire transports.
type Transport interface {
	// Start begins accepting requests. Blocking transports return only
	// after Close.
	Start(ctx context.Context) error

	// Close stops accepting new requests and releases the transport.
	Close() error

	// SetHandler sets the callback invoked for every inbound payload.
	// Must be called before Start.
	SetHandler(handler Handler)

	// SetErrorHandler sets the callback for out-of-band errors. Errors
	// are not necessarily fatal; they report exceptional conditions.
	SetErrorHandler(handler func(error))

	// SetCloseHandler sets the callback invoked when the transport is
	// closed for any reason.
	SetCloseHandler(handler func())
}
