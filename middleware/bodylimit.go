package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gomarten/routechain"
)

// Size constants
const (
	KB int64 = 1024
	MB int64 = 1024 * KB
	GB int64 = 1024 * MB
)

// ErrBodyTooLarge is returned by reads past the configured body limit.
var ErrBodyTooLarge = errors.New("request body too large")

// BodyLimit returns a chain step that answers 413 when the declared body is
// larger than maxSize. Otherwise it caps the body reader and continues, so
// later steps reading a chunked body get ErrBodyTooLarge.
func BodyLimit(maxSize int64) routechain.Link {
	return func(c *routechain.Ctx) (routechain.Response, error) {
		// ContentLength is -1 for chunked bodies; the reader cap covers those.
		if c.Request.ContentLength > maxSize {
			return routechain.Error(http.StatusRequestEntityTooLarge, ErrBodyTooLarge.Error()), nil
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = &limitedReader{reader: c.Request.Body, remaining: maxSize}
		}
		return nil, nil
	}
}

type limitedReader struct {
	reader    io.ReadCloser
	remaining int64
}

func (r *limitedReader) Read(p []byte) (int, error) {
	if r.remaining < 0 {
		return 0, ErrBodyTooLarge
	}
	// Read one byte past the limit to tell "exactly at limit" from "over".
	if int64(len(p)) > r.remaining+1 {
		p = p[:r.remaining+1]
	}
	n, err := r.reader.Read(p)
	r.remaining -= int64(n)
	if r.remaining < 0 {
		return n, ErrBodyTooLarge
	}
	return n, err
}

func (r *limitedReader) Close() error {
	return r.reader.Close()
}
