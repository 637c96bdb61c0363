package gateway

import (
	"net/http"

	"github.com/c360/uabridge/health"
)

// Gateway is a component that exposes discovered variables over an external
// protocol surface. The HTTP implementation lives in gateway/http.
type Gateway interface {
	// RegisterHTTPHandlers registers the gateway's routes with the central
	// HTTP mux. The prefix parameter is the URL path prefix for this gateway
	// instance (typically "/").
	RegisterHTTPHandlers(prefix string, mux *http.ServeMux)

	// Health reports the gateway's current health status
	Health() health.Status
}

// HTTPHandler is implemented by anything that can register HTTP handlers
// with the central HTTP server.
type HTTPHandler interface {
	RegisterHTTPHandlers(prefix string, mux *http.ServeMux)
}
