package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gomarten/routechain"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns a permissive CORS config.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}
}

// CORS returns a chain step that sets CORS headers. Preflight requests end
// the chain with 204; everything else continues.
func CORS(cfg CORSConfig) routechain.Link {
	hasWildcard := slices.Contains(cfg.AllowOrigins, "*")
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")

	return func(c *routechain.Ctx) (routechain.Response, error) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (hasWildcard || matchOrigin(cfg.AllowOrigins, origin)) {
			if hasWildcard && !cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Add("Vary", "Origin")
			}
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if expose != "" {
				c.Header("Access-Control-Expose-Headers", expose)
			}
		}

		if c.Request.Method != http.MethodOptions || c.Request.Header.Get("Access-Control-Request-Method") == "" {
			return nil, nil
		}

		reply := routechain.NoContent()
		if methods != "" {
			reply.WithHeader("Access-Control-Allow-Methods", methods)
		}
		if headers != "" {
			reply.WithHeader("Access-Control-Allow-Headers", headers)
		}
		if cfg.MaxAge > 0 {
			reply.WithHeader("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}
		return reply, nil
	}
}

// matchOrigin supports exact origins and "*.example.com" subdomain patterns.
func matchOrigin(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == origin {
			return true
		}
		if suffix, ok := strings.CutPrefix(o, "*."); ok {
			host := origin
			if _, rest, found := strings.Cut(origin, "://"); found {
				host = rest
			}
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
		}
	}
	return false
}
