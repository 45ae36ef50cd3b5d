package routechain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Ctx carries one request through the router and its chain.
type Ctx struct {
	Request *http.Request
	Writer  http.ResponseWriter

	params     map[string]string
	store      map[string]any
	written    bool
	statusCode int
	requestID  string
	route      string
	logger     *slog.Logger
	reqLogger  *slog.Logger
}

func newCtx(logger *slog.Logger) *Ctx {
	return &Ctx{
		params: make(map[string]string),
		store:  make(map[string]any),
		logger: logger,
	}
}

// NewCtx returns a Ctx bound to w and r outside of an App, for driving
// steps directly.
func NewCtx(w http.ResponseWriter, r *http.Request) *Ctx {
	c := newCtx(nil)
	c.Reset(w, r)
	return c
}

// Param returns a path parameter by name.
func (c *Ctx) Param(name string) string {
	return c.params[name]
}

// ParamInt returns a path parameter as int (0 if invalid).
func (c *Ctx) ParamInt(name string) int {
	v, _ := strconv.Atoi(c.params[name])
	return v
}

// Query returns a query parameter by name.
func (c *Ctx) Query(name string) string {
	if c.Request.URL == nil {
		return ""
	}
	return c.Request.URL.Query().Get(name)
}

// QueryDefault returns a query parameter or def if it is empty.
func (c *Ctx) QueryDefault(name, def string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return def
}

// Method returns the request method.
func (c *Ctx) Method() string {
	return c.Request.Method
}

// Path returns the request path.
func (c *Ctx) Path() string {
	return c.Request.URL.Path
}

// Route returns the pattern of the matched route, or "" when nothing matched.
func (c *Ctx) Route() string {
	return c.route
}

// Status writes the response status code once.
func (c *Ctx) Status(code int) *Ctx {
	if !c.written {
		c.Writer.WriteHeader(code)
		c.written = true
		c.statusCode = code
	}
	return c
}

// StatusCode returns the response status code (0 if not yet written).
func (c *Ctx) StatusCode() int {
	return c.statusCode
}

// Written reports whether the response status has been sent.
func (c *Ctx) Written() bool {
	return c.written
}

// Header sets a response header.
func (c *Ctx) Header(key, value string) *Ctx {
	c.Writer.Header().Set(key, value)
	return c
}

// Text writes a plain text response.
func (c *Ctx) Text(code int, text string) error {
	return c.Blob(code, "text/plain; charset=utf-8", []byte(text))
}

// JSON writes a JSON response.
func (c *Ctx) JSON(code int, v any) error {
	if !c.written {
		c.Header("Content-Type", "application/json; charset=utf-8")
		c.Status(code)
	}
	return json.NewEncoder(c.Writer).Encode(v)
}

// Blob writes raw bytes with the given content type.
func (c *Ctx) Blob(code int, contentType string, data []byte) error {
	if !c.written {
		c.Header("Content-Type", contentType)
		c.Status(code)
	}
	_, err := c.Writer.Write(data)
	return err
}

// Redirect sends a redirect response.
func (c *Ctx) Redirect(code int, url string) error {
	c.Header("Location", url)
	c.Status(code)
	return nil
}

// E creates a simple error body.
func E(message string) map[string]string {
	return map[string]string{"error": message}
}

// M is a shorthand for map[string]any.
type M map[string]any

// Context returns the request's context.
func (c *Ctx) Context() context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// Bind decodes the JSON request body into v.
func (c *Ctx) Bind(v any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return &BindError{Message: "empty request body"}
	}
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		return &BindError{Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// BindError represents a binding error.
type BindError struct {
	Message string
}

func (e *BindError) Error() string {
	return e.Message
}

// RequestID returns the X-Request-ID header, or a generated UUID.
func (c *Ctx) RequestID() string {
	if c.requestID == "" {
		if id := c.Request.Header.Get("X-Request-ID"); id != "" {
			c.requestID = id
		} else {
			c.requestID = uuid.NewString()
		}
	}
	return c.requestID
}

// ClientIP returns the client address, preferring proxy headers.
func (c *Ctx) ClientIP() string {
	if c.Request == nil {
		return ""
	}
	if xff := c.Request.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := c.Request.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := c.Request.RemoteAddr
	if strings.HasPrefix(addr, "[") {
		if i := strings.LastIndex(addr, "]"); i > 0 {
			return addr[1:i]
		}
	}
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}

// Bearer extracts the Bearer token from the Authorization header.
func (c *Ctx) Bearer() string {
	token, ok := strings.CutPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// Set stores a value for later steps of the same request.
func (c *Ctx) Set(key string, value any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = value
}

// Get retrieves a value stored with Set.
func (c *Ctx) Get(key string) any {
	return c.store[key]
}

// GetString retrieves a string value stored with Set.
func (c *Ctx) GetString(key string) string {
	v, _ := c.Get(key).(string)
	return v
}

// MustGet retrieves a value stored with Set and panics if it is missing.
func (c *Ctx) MustGet(key string) any {
	v, ok := c.store[key]
	if !ok {
		panic(fmt.Sprintf("routechain: key %q not set on request", key))
	}
	return v
}

// Logger returns the application logger annotated with request attributes.
func (c *Ctx) Logger() *slog.Logger {
	if c.reqLogger == nil {
		base := c.logger
		if base == nil {
			base = slog.Default()
		}
		c.reqLogger = base.With(
			slog.String("request_id", c.RequestID()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
	}
	return c.reqLogger
}

// SetParam sets a path parameter (used by the router).
func (c *Ctx) SetParam(key, value string) {
	c.params[key] = value
}

// Reset clears the context for reuse.
func (c *Ctx) Reset(w http.ResponseWriter, r *http.Request) {
	c.Writer = w
	c.Request = r
	c.written = false
	c.statusCode = 0
	c.requestID = ""
	c.route = ""
	c.reqLogger = nil
	clear(c.params)
	clear(c.store)
}
