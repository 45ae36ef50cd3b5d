package middleware

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gomarten/routechain"
)

// CompressConfig configures compression middleware.
type CompressConfig struct {
	Level        int
	MinSize      int
	ContentTypes []string
}

// DefaultCompressConfig returns sensible defaults.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level:   gzip.DefaultCompression,
		MinSize: 1024,
		ContentTypes: []string{
			"text/plain",
			"text/html",
			"text/css",
			"text/javascript",
			"application/json",
			"application/javascript",
			"application/xml",
		},
	}
}

// Compress returns a gzip compression middleware. Bodies shorter than
// MinSize or with a content type outside ContentTypes are sent as is.
func Compress(cfg CompressConfig) routechain.Middleware {
	if cfg.MinSize == 0 {
		cfg.MinSize = 1024
	}
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}
	if cfg.ContentTypes == nil {
		cfg.ContentTypes = DefaultCompressConfig().ContentTypes
	}
	pool := &sync.Pool{
		New: func() any {
			w, err := gzip.NewWriterLevel(io.Discard, cfg.Level)
			if err != nil {
				w = gzip.NewWriter(io.Discard)
			}
			return w
		},
	}

	return func(next routechain.Handler) routechain.Handler {
		return func(c *routechain.Ctx) error {
			if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
				return next(c)
			}

			orig := c.Writer
			gw := &gzipResponseWriter{ResponseWriter: orig, cfg: cfg, pool: pool}
			c.Writer = gw
			err := next(c)
			c.Writer = orig
			if ferr := gw.finish(); err == nil {
				err = ferr
			}
			return err
		}
	}
}

// gzipResponseWriter holds the status and the first MinSize bytes until it
// knows whether the body is worth compressing.
type gzipResponseWriter struct {
	http.ResponseWriter
	cfg     CompressConfig
	pool    *sync.Pool
	gz      *gzip.Writer
	status  int
	buf     []byte
	decided bool
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if !w.decided {
		w.buf = append(w.buf, b...)
		if len(w.buf) >= w.cfg.MinSize {
			if err := w.decide(); err != nil {
				return 0, err
			}
		}
		return len(b), nil
	}
	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gzipResponseWriter) shouldCompress(size int) bool {
	if size < w.cfg.MinSize || w.status == http.StatusNoContent || w.status == http.StatusNotModified {
		return false
	}
	h := w.Header()
	if h.Get("Content-Encoding") != "" {
		return false
	}
	ct := h.Get("Content-Type")
	for _, allowed := range w.cfg.ContentTypes {
		if ct != "" && strings.HasPrefix(ct, allowed) {
			return true
		}
	}
	return false
}

func (w *gzipResponseWriter) decide() error {
	w.decided = true
	buf := w.buf
	w.buf = nil

	if w.shouldCompress(len(buf)) {
		h := w.Header()
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length")
		w.gz = w.pool.Get().(*gzip.Writer)
		w.gz.Reset(w.ResponseWriter)
		w.ResponseWriter.WriteHeader(w.status)
		_, err := w.gz.Write(buf)
		return err
	}

	w.ResponseWriter.WriteHeader(w.status)
	if len(buf) == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(buf)
	return err
}

// finish sends whatever is still held back and closes the gzip stream.
func (w *gzipResponseWriter) finish() error {
	var err error
	if !w.decided && w.status != 0 {
		err = w.decide()
	}
	if w.gz != nil {
		err = errors.Join(err, w.gz.Close())
		w.pool.Put(w.gz)
		w.gz = nil
	}
	return err
}

func (w *gzipResponseWriter) Flush() {
	if !w.decided && w.status != 0 {
		_ = w.decide()
	}
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
