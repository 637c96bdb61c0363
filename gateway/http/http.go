// Package http provides the HTTP gateway implementation for uabridge.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/c360/uabridge/errors"
	"github.com/c360/uabridge/gateway"
	"github.com/c360/uabridge/health"
	"github.com/c360/uabridge/metric"
	"github.com/c360/uabridge/session"
	"github.com/c360/uabridge/typemap"
)

// Gateway implements the gateway.Gateway interface for HTTP. It owns the
// frozen variable and type indexes and the shared session; all request
// handling is lock-free on the index read path.
type Gateway struct {
	config  gateway.Config
	sess    session.Session
	vars    []string
	types   typemap.Index
	limiter *rate.Limiter
	metrics *metric.Registry

	// Lifecycle state (atomic operations)
	running atomic.Bool

	// Protects startTime and lastActivity for concurrent reads
	mu           sync.RWMutex
	startTime    time.Time
	lastActivity time.Time

	requestsTotal  atomic.Uint64
	requestsFailed atomic.Uint64
}

// New creates an HTTP gateway over the frozen indexes. Every id in vars must
// have a descriptor in types; a gap means resolution did not complete and the
// gateway refuses to start.
func New(config gateway.Config, sess session.Session, vars []string, types typemap.Index, metrics *metric.Registry) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "Gateway", "New", "config validation")
	}
	if sess == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Gateway", "New",
			"session is required")
	}
	if vars == nil {
		vars = []string{}
	}
	for _, id := range vars {
		if _, ok := types[id]; !ok {
			return nil, errors.WrapFatal(errors.ErrResolutionFailed, "Gateway", "New",
				"no type descriptor for "+id)
		}
	}

	g := &Gateway{
		config:  config,
		sess:    sess,
		vars:    vars,
		types:   types,
		metrics: metrics,
	}
	if config.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}
	return g, nil
}

// Start transitions the gateway from initializing to serving
func (g *Gateway) Start() error {
	if g.running.Load() {
		return errors.WrapFatal(fmt.Errorf("gateway already running"), "Gateway", "Start",
			"start")
	}
	g.mu.Lock()
	g.running.Store(true)
	g.startTime = time.Now()
	g.mu.Unlock()
	return nil
}

// Stop stops accepting requests
func (g *Gateway) Stop() {
	g.running.Store(false)
}

// VariableCount returns the number of variables the gateway serves
func (g *Gateway) VariableCount() int {
	return len(g.vars)
}

// RegisterHTTPHandlers registers the variable routes with the HTTP mux
func (g *Gateway) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	if !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}
	mux.HandleFunc(prefix, g.handleVariables(prefix))
}

// handleVariables dispatches list, read, and write requests. The variable id
// is everything after the prefix, taken verbatim: OPC UA node ids contain
// "=" and ";" and must not be parsed as path segments.
func (g *Gateway) handleVariables(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		g.requestsTotal.Add(1)
		g.mu.Lock()
		g.lastActivity = time.Now()
		g.mu.Unlock()

		if !g.running.Load() {
			g.writeError(w, http.StatusServiceUnavailable, "gateway is initializing")
			g.fail("lifecycle")
			return
		}

		if g.limiter != nil && !g.limiter.Allow() {
			g.writeError(w, http.StatusTooManyRequests, "request rate limit exceeded")
			g.fail("ratelimit")
			return
		}

		if g.config.EnableCORS {
			g.applyCORS(w, r)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		defer r.Body.Close()

		id := strings.TrimPrefix(r.URL.Path, prefix)
		if id == "" {
			if r.Method != http.MethodGet {
				g.writeError(w, http.StatusMethodNotAllowed,
					fmt.Sprintf("method %s not allowed", r.Method))
				g.fail("list")
				return
			}
			g.handleList(w)
			return
		}

		switch r.Method {
		case http.MethodGet:
			g.handleRead(w, r, id)
		case http.MethodPut:
			g.handleWrite(w, r, id)
		default:
			g.writeError(w, http.StatusMethodNotAllowed,
				fmt.Sprintf("method %s not allowed", r.Method))
			g.fail("dispatch")
		}
	}
}

// handleList returns the full variable index in discovery order
func (g *Gateway) handleList(w http.ResponseWriter) {
	data, err := json.Marshal(g.vars)
	if err != nil {
		g.writeError(w, http.StatusInternalServerError, "failed to encode variable index")
		g.fail("list")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	g.ok("list")
}

// handleRead reads the current value of one variable. The value is returned
// as the session produced it; no re-coercion on the way out.
func (g *Gateway) handleRead(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := g.types[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		g.fail("read")
		return
	}

	start := time.Now()
	value, err := g.sess.ReadValue(r.Context(), id)
	g.observeSession("read", time.Since(start))
	if err != nil {
		g.writeError(w, http.StatusInternalServerError, err.Error())
		g.fail("read")
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		g.writeError(w, http.StatusInternalServerError, "failed to encode value")
		g.fail("read")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	g.ok("read")
}

// handleWrite coerces the inbound body through the variable's type
// descriptor and issues a typed write. A non-good protocol status maps to
// 400 with the status description as a plain-text body.
func (g *Gateway) handleWrite(w http.ResponseWriter, r *http.Request, id string) {
	desc, ok := g.types[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		g.fail("write")
		return
	}

	// Read body with size limit + 1 to detect if the request exceeds it
	bodyReader := io.LimitReader(r.Body, g.config.MaxRequestSize+1)
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to read request body")
		g.fail("write")
		return
	}
	if int64(len(body)) > g.config.MaxRequestSize {
		g.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds maximum size of %d bytes", g.config.MaxRequestSize))
		g.fail("write")
		return
	}

	value := desc.Coerce(decodeRaw(body))

	start := time.Now()
	status, err := g.sess.Write(r.Context(), id, desc.Name, value)
	g.observeSession("write", time.Since(start))
	if err != nil {
		g.writeError(w, http.StatusInternalServerError, err.Error())
		g.fail("write")
		return
	}
	if !status.Good() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(status.Description))
		g.fail("write")
		return
	}

	w.WriteHeader(http.StatusNoContent)
	g.ok("write")
}

// decodeRaw interprets a request body as a JSON value when possible and as a
// plain string otherwise, so both `42` and `hello` are accepted bodies.
func decodeRaw(body []byte) any {
	trimmed := strings.TrimSpace(string(body))
	var raw any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return trimmed
	}
	return raw
}

// applyCORS applies CORS headers to the response
func (g *Gateway) applyCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")

	allowed := false
	for _, allowedOrigin := range g.config.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			allowed = true
			break
		}
	}

	if allowed {
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")
	}
}

// writeError writes a JSON error response
func (g *Gateway) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":  message,
		"status": statusCode,
	}
	data, _ := json.Marshal(response)
	_, _ = w.Write(data)
}

func (g *Gateway) ok(op string) {
	if g.metrics != nil {
		g.metrics.RequestsTotal.WithLabelValues(op, "success").Inc()
	}
}

func (g *Gateway) fail(op string) {
	g.requestsFailed.Add(1)
	if g.metrics != nil {
		g.metrics.RequestsTotal.WithLabelValues(op, "error").Inc()
	}
}

func (g *Gateway) observeSession(op string, d time.Duration) {
	if g.metrics != nil {
		g.metrics.SessionRoundTrip.WithLabelValues(op).Observe(d.Seconds())
	}
}

// Health returns the current health status of the gateway
func (g *Gateway) Health() health.Status {
	g.mu.RLock()
	startTime := g.startTime
	lastActivity := g.lastActivity
	g.mu.RUnlock()

	var status health.Status
	switch {
	case !g.running.Load():
		status = health.NewUnhealthy("http-gateway", "gateway not serving")
	case !g.sess.Connected():
		status = health.NewDegraded("http-gateway", "session connection unavailable")
	default:
		status = health.NewHealthy("http-gateway",
			fmt.Sprintf("serving %d variables", len(g.vars)))
	}

	return status.WithMetrics(&health.Metrics{
		Uptime:       time.Since(startTime),
		ErrorCount:   int(g.requestsFailed.Load()),
		LastActivity: lastActivity,
	})
}
