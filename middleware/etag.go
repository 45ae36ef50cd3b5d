package middleware

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gomarten/routechain"
)

// ETag returns a chain step that tags successful *routechain.Reply results
// of the rest of the chain with a content hash. A GET or HEAD whose
// If-None-Match already carries the tag is answered with 304.
func ETag() routechain.Wrap {
	return func(c *routechain.Ctx, next routechain.Next) (routechain.Response, error) {
		resp, err := next(c)
		if err != nil || (c.Method() != http.MethodGet && c.Method() != http.MethodHead) {
			return resp, err
		}

		reply, ok := resp.(*routechain.Reply)
		if !ok || reply == nil || len(reply.Body) == 0 || (reply.Status != 0 && (reply.Status < 200 || reply.Status >= 300)) {
			return resp, nil
		}

		sum := sha1.Sum(reply.Body)
		etag := `"` + hex.EncodeToString(sum[:8]) + `"`
		if etagMatch(c.Request.Header.Get("If-None-Match"), etag) {
			return routechain.Status(http.StatusNotModified).WithHeader("ETag", etag), nil
		}

		// Replies may be shared between requests.
		tagged := *reply
		tagged.Header = reply.Header.Clone()
		if tagged.Header == nil {
			tagged.Header = http.Header{}
		}
		tagged.Header.Set("ETag", etag)
		return &tagged, nil
	}
}

func etagMatch(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
