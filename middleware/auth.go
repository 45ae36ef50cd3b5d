package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gomarten/routechain"
)

// UserKey is the Ctx key under which authentication steps store the user.
const UserKey = "user"

// BasicAuthConfig configures basic authentication.
type BasicAuthConfig struct {
	Realm    string
	Validate func(user, pass string) bool
}

// BasicAuth returns a chain step that answers 401 unless the request carries
// valid credentials. On success the user name is stored under UserKey and
// the chain continues.
func BasicAuth(cfg BasicAuthConfig) routechain.Link {
	if cfg.Realm == "" {
		cfg.Realm = "Restricted"
	}
	challenge := `Basic realm="` + cfg.Realm + `"`

	return func(c *routechain.Ctx) (routechain.Response, error) {
		payload, ok := strings.CutPrefix(c.Request.Header.Get("Authorization"), "Basic ")
		if !ok {
			return unauthorized(challenge), nil
		}

		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return unauthorized(challenge), nil
		}

		user, pass, ok := strings.Cut(string(raw), ":")
		if !ok || cfg.Validate == nil || !cfg.Validate(user, pass) {
			return unauthorized(challenge), nil
		}

		c.Set(UserKey, user)
		return nil, nil
	}
}

// BasicAuthSimple creates a basic auth step for a single user/pass.
func BasicAuthSimple(user, pass string) routechain.Link {
	return BasicAuth(BasicAuthConfig{
		Validate: func(u, p string) bool {
			return subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1 &&
				subtle.ConstantTimeCompare([]byte(p), []byte(pass)) == 1
		},
	})
}

func unauthorized(challenge string) *routechain.Reply {
	return routechain.Error(http.StatusUnauthorized, "unauthorized").
		WithHeader("WWW-Authenticate", challenge)
}

// Authorize returns a chain step that answers 403 when allow rejects the
// request and continues otherwise.
func Authorize(allow func(*routechain.Ctx) bool) routechain.Link {
	return func(c *routechain.Ctx) (routechain.Response, error) {
		if allow(c) {
			return nil, nil
		}
		return routechain.Error(http.StatusForbidden, "forbidden"), nil
	}
}

// AllowUsers authorizes requests whose UserKey value is one of users.
func AllowUsers(users ...string) routechain.Link {
	return Authorize(func(c *routechain.Ctx) bool {
		user := c.GetString(UserKey)
		for _, u := range users {
			if user != "" && subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1 {
				return true
			}
		}
		return false
	})
}
