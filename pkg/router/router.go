package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"retail-insights/pkg/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Middleware wraps a handler.
type Middleware func(HandlerFunc) HandlerFunc

// Observer is told about every finished request. route is the registered
// pattern that served it, or "unmatched".
type Observer func(method, route string, status int, duration time.Duration)

type Router struct {
	routes     map[string]HandlerFunc // key = METHOD:PATH
	paths      map[string]bool        // track registered paths
	middleware []Middleware
	logger     *slog.Logger
	observer   Observer
	notFound   HandlerFunc
	notAllowed HandlerFunc
}

func New() *Router {
	return &Router{
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		notFound: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Not Found", http.StatusNotFound)
		},
		notAllowed: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		},
	}
}

// Use appends middleware. Middleware runs in the order it was added, for
// matched and unmatched requests alike.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// SetLogger sets the base logger for access logs and request loggers.
func (r *Router) SetLogger(l *slog.Logger) { r.logger = l }

func (r *Router) SetObserver(o Observer) { r.observer = o }

func (r *Router) NotFound(h HandlerFunc)         { r.notFound = h }
func (r *Router) MethodNotAllowed(h HandlerFunc) { r.notAllowed = h }

// ServeHTTP dispatches req, trying exact routes before wildcard routes.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	lrw.Header().Set(RequestIDHeader, requestID)

	base := r.logger
	if base == nil {
		base = slog.Default()
	}
	reqLogger := logger.WithRequestID(base, requestID)
	req = req.WithContext(logger.WithContext(req.Context(), reqLogger))

	route, h := r.match(req.Method, req.URL.Path)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		h = r.middleware[i](h)
	}
	h(lrw, req)

	duration := time.Since(start)
	if r.observer != nil {
		r.observer(req.Method, route, lrw.statusCode, duration)
	}

	reqLogger.Info(fmt.Sprintf("%s %s %s",
		methodColor(req.Method).Sprint(req.Method),
		req.URL.Path,
		statusColor(lrw.statusCode).Sprint(lrw.statusCode),
	),
		"method", req.Method,
		"path", req.URL.Path,
		"route", route,
		"status", lrw.statusCode,
		"duration", duration,
		"remote_addr", req.RemoteAddr,
	)
}

func (r *Router) match(method, path string) (string, HandlerFunc) {
	if h, ok := r.routes[method+":"+path]; ok {
		return path, h
	}

	// Longer patterns are more specific, so try them first
	for _, routePath := range r.wildcardPaths() {
		if matchWildcardRoute(path, routePath) {
			if h, ok := r.routes[method+":"+routePath]; ok {
				return routePath, h
			}
		}
	}

	if r.paths[path] {
		return path, r.notAllowed
	}
	return "unmatched", r.notFound
}

func (r *Router) wildcardPaths() []string {
	var out []string
	for p := range r.paths {
		if strings.Contains(p, "*") {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// A trailing wildcard matches any number of remaining segments
	if len(routeSegments) > 0 && routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments)-1 {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Handle mounts an http.Handler for method on path.
func (r *Router) Handle(method, path string, h http.Handler) {
	r.register(method, path, h.ServeHTTP)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

func (r *Router) Paths() map[string]bool {
	return r.paths
}

// --- Middleware ---

// Recover turns a panic into a 500 and logs the stack.
func Recover(next HandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(req.Context()).Error("panic while serving request",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, req)
	}
}

// CORS allows origin (or "*") to call the API from a browser and answers
// preflight requests directly.
func CORS(origin string) Middleware {
	if origin == "" {
		origin = "*"
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next(w, req)
		}
	}
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if !lrw.wroteHeader {
		lrw.statusCode = code
		lrw.wroteHeader = true
	}
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.wroteHeader = true
	return lrw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}

// --- Color helpers ---
func statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen)
	case code >= 300 && code < 400:
		return color.New(color.FgCyan)
	case code >= 400 && code < 500:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func methodColor(method string) *color.Color {
	switch method {
	case http.MethodGet:
		return color.New(color.FgGreen)
	case http.MethodPost:
		return color.New(color.FgBlue)
	case http.MethodPut, http.MethodPatch:
		return color.New(color.FgYellow)
	case http.MethodDelete:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgCyan)
	}
}
