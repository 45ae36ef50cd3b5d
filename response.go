package routechain

import (
	"encoding/json"
	"net/http"
)

// Reply is a buffered response returned from chain steps.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte

	err error
}

// Render writes the reply to the context. A nil reply renders as
// ErrNoResponse.
func (r *Reply) Render(c *Ctx) error {
	if r == nil {
		return ErrNoResponse
	}
	if r.err != nil {
		return r.err
	}
	h := c.Writer.Header()
	for k, vs := range r.Header {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.Status(status)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := c.Writer.Write(r.Body)
	return err
}

// WithHeader adds a header to the reply.
func (r *Reply) WithHeader(key, value string) *Reply {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Add(key, value)
	return r
}

// Text returns a plain text reply.
func Text(code int, body string) *Reply {
	return Blob(code, "text/plain; charset=utf-8", []byte(body))
}

// JSON returns a JSON reply. Encoding errors surface when the reply is rendered.
func JSON(code int, v any) *Reply {
	b, err := json.Marshal(v)
	if err != nil {
		return &Reply{Status: code, err: err}
	}
	return Blob(code, "application/json; charset=utf-8", append(b, '\n'))
}

// Blob returns a reply with the given content type and body.
func Blob(code int, contentType string, data []byte) *Reply {
	r := &Reply{Status: code, Body: data}
	return r.WithHeader("Content-Type", contentType)
}

// Status returns a reply with only a status code.
func Status(code int) *Reply {
	return &Reply{Status: code}
}

// NoContent returns a 204 reply.
func NoContent() *Reply {
	return Status(http.StatusNoContent)
}

// Redirect returns a redirect reply.
func Redirect(code int, url string) *Reply {
	return Status(code).WithHeader("Location", url)
}

// Error returns a JSON error reply.
func Error(code int, message string) *Reply {
	return JSON(code, E(message))
}

// ResponseFunc adapts a function to the Response interface.
type ResponseFunc func(*Ctx) error

// Render calls f(c).
func (f ResponseFunc) Render(c *Ctx) error {
	return f(c)
}

// Handled is returned by steps that already wrote the response themselves.
var Handled Response = handled{}

type handled struct{}

func (handled) Render(*Ctx) error { return nil }
