package routechain

import (
	"fmt"
	"log/slog"
	"net/http"
)

// itemSet is the parsed form of the items passed to a chained registration.
type itemSet struct {
	steps []Step
	mw    []Middleware
	cfg   routeConfig
}

func parseItems(items []any) (itemSet, error) {
	var rt itemSet
	for i, item := range items {
		switch v := item.(type) {
		case RouteOption:
			if v == nil {
				return rt, fmt.Errorf("routechain: item %d: nil option", i)
			}
			v(&rt.cfg)
		case Middleware:
			if v == nil {
				return rt, fmt.Errorf("routechain: item %d: nil middleware", i)
			}
			rt.mw = append(rt.mw, v)
		case func(Handler) Handler:
			if v == nil {
				return rt, fmt.Errorf("routechain: item %d: nil middleware", i)
			}
			rt.mw = append(rt.mw, v)
		default:
			s, err := toStep(item)
			if err != nil {
				return rt, fmt.Errorf("item %d: %w", i, err)
			}
			rt.steps = append(rt.steps, s)
		}
	}
	if len(rt.steps) == 0 {
		return rt, ErrNoSteps
	}
	return rt, nil
}

// Add registers a chain of steps for method and path. Items are Links,
// Wraps, Handlers or other Steps, run in the order given, optionally mixed
// with Middleware wrapped around the whole chain and RouteOptions.
// Add panics on invalid items.
func (r *Router) Add(method, path string, items ...any) *Route {
	return r.add([]string{method}, path, items)
}

func (r *Router) add(methods []string, path string, items []any) *Route {
	parsed, err := parseItems(items)
	if err != nil {
		panic(fmt.Sprintf("%v (%s %s)", err, methods[0], path))
	}
	if parsed.cfg.noHead && len(methods) > 1 && methods[1] == http.MethodHead {
		methods = methods[:1]
	}

	r.warnWraps(methods[0], path, parsed.steps)
	h := Serve(Compose(parsed.steps...))

	var primary *Route
	for _, m := range methods {
		rt := r.Handle(m, path, h, parsed.mw...)
		rt.steps = len(parsed.steps)
		if primary == nil {
			primary = rt
		}
	}
	if parsed.cfg.name != "" {
		r.setName(primary, parsed.cfg.name)
	}
	return primary
}

func (r *Router) warnWraps(method, path string, steps []Step) {
	if !r.wrapWarnings {
		return
	}
	for i, s := range steps {
		if isWrap(s) {
			r.log().Warn("route step uses explicit continuation, prefer a Link",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("index", i),
			)
		}
	}
}

func (r *Router) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// GET registers a chain for GET requests and, unless WithoutHead is given,
// HEAD requests to the same path.
func (r *Router) GET(path string, items ...any) *Route {
	return r.add([]string{http.MethodGet, http.MethodHead}, path, items)
}

// HEAD registers a chain for HEAD requests.
func (r *Router) HEAD(path string, items ...any) *Route {
	return r.Add(http.MethodHead, path, items...)
}

// POST registers a chain for POST requests.
func (r *Router) POST(path string, items ...any) *Route {
	return r.Add(http.MethodPost, path, items...)
}

// PUT registers a chain for PUT requests.
func (r *Router) PUT(path string, items ...any) *Route {
	return r.Add(http.MethodPut, path, items...)
}

// PATCH registers a chain for PATCH requests.
func (r *Router) PATCH(path string, items ...any) *Route {
	return r.Add(http.MethodPatch, path, items...)
}

// DELETE registers a chain for DELETE requests.
func (r *Router) DELETE(path string, items ...any) *Route {
	return r.Add(http.MethodDelete, path, items...)
}

// OPTIONS registers a chain for OPTIONS requests.
func (r *Router) OPTIONS(path string, items ...any) *Route {
	return r.Add(http.MethodOptions, path, items...)
}

// Any registers a chain for every method without its own registration on
// the same path.
func (r *Router) Any(path string, items ...any) *Route {
	return r.Add(MethodAny, path, items...)
}
