package middleware

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gomarten/routechain"
)

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Root is the root directory to serve files from (required)
	Root string
	// Index is the index file to serve for directories (default: "index.html")
	Index string
	// MaxAge sets Cache-Control max-age in seconds (default: 0 = no cache)
	MaxAge int
	// Prefix is the URL prefix to strip before looking up files (optional)
	Prefix string
	// Param takes the file name from a route parameter, such as the
	// wildcard in "/assets/*file", instead of the request path (optional)
	Param string
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig(root string) StaticConfig {
	return StaticConfig{
		Root:  root,
		Index: "index.html",
	}
}

// Static returns a chain step serving files from root.
func Static(root string) routechain.Link {
	return StaticWithConfig(DefaultStaticConfig(root))
}

// StaticWithConfig returns a chain step that answers GET and HEAD requests
// with the matching file. When there is no such file the chain continues,
// so a later step can build the not-found response.
func StaticWithConfig(cfg StaticConfig) routechain.Link {
	if cfg.Root == "" {
		panic("static: root directory is required")
	}
	if cfg.Index == "" {
		cfg.Index = "index.html"
	}
	root := filepath.Clean(cfg.Root)

	return func(c *routechain.Ctx) (routechain.Response, error) {
		if c.Method() != http.MethodGet && c.Method() != http.MethodHead {
			return nil, nil
		}

		name := c.Path()
		if cfg.Param != "" {
			name = c.Param(cfg.Param)
		} else if cfg.Prefix != "" {
			rest, ok := strings.CutPrefix(name, cfg.Prefix)
			if !ok {
				return nil, nil
			}
			name = rest
		}
		if strings.Contains(name, "..") {
			return nil, nil
		}

		file := filepath.Join(root, filepath.FromSlash(path.Clean("/"+name)))
		stat, err := os.Stat(file)
		if err != nil {
			return nil, nil
		}
		if stat.IsDir() {
			file = filepath.Join(file, cfg.Index)
			if stat, err = os.Stat(file); err != nil || stat.IsDir() {
				return nil, nil
			}
		}
		return fileReply{path: file, maxAge: cfg.MaxAge}, nil
	}
}

type fileReply struct {
	path   string
	maxAge int
}

func (f fileReply) Render(c *routechain.Ctx) error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	if f.maxAge > 0 {
		c.Header("Cache-Control", "public, max-age="+strconv.Itoa(f.maxAge))
	} else {
		c.Header("Cache-Control", "no-cache")
	}
	modTime := stat.ModTime().UTC().Truncate(time.Second)
	c.Header("Last-Modified", modTime.Format(http.TimeFormat))

	if since, err := http.ParseTime(c.Request.Header.Get("If-Modified-Since")); err == nil && !modTime.After(since) {
		c.Status(http.StatusNotModified)
		return nil
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", strconv.FormatInt(stat.Size(), 10))
	c.Status(http.StatusOK)

	if c.Method() == http.MethodHead {
		return nil
	}
	_, err = io.Copy(c.Writer, file)
	return err
}
