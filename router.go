package routechain

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// MethodAny registers a route for every method that has no explicit
// registration on the same path.
const MethodAny = "*"

// node represents a node in the radix tree.
type node struct {
	path     string
	children []*node
	param    *node
	wildcard *node
	routes   map[string]*Route
}

// Route is a registered method and path pattern.
type Route struct {
	method  string
	path    string
	name    string
	steps   int
	handler Handler
	mw      []Middleware
}

// Method returns the HTTP method the route is registered for.
func (rt *Route) Method() string { return rt.method }

// Path returns the route pattern.
func (rt *Route) Path() string { return rt.path }

// Name returns the route name, if any.
func (rt *Route) Name() string { return rt.name }

// Steps returns the number of chained steps, or 0 for a plain handler.
func (rt *Route) Steps() int { return rt.steps }

// Router handles HTTP routing with a radix tree.
type Router struct {
	root             *node
	middleware       []Middleware
	notFound         Handler
	methodNotAllowed Handler
	routes           []*Route
	named            map[string]*Route
	logger           *slog.Logger
	wrapWarnings     bool
}

// NewRouter creates a new router.
func NewRouter() *Router {
	return &Router{
		root:  &node{},
		named: make(map[string]*Route),
		notFound: func(c *Ctx) error {
			return c.Text(http.StatusNotFound, "Not Found")
		},
		methodNotAllowed: func(c *Ctx) error {
			return c.Text(http.StatusMethodNotAllowed, "Method Not Allowed")
		},
		wrapWarnings: true,
	}
}

// Use adds global middleware.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// NotFound sets a custom 404 handler.
func (r *Router) NotFound(h Handler) {
	r.notFound = h
}

// MethodNotAllowed sets a custom 405 handler. The Allow header is set
// before it runs.
func (r *Router) MethodNotAllowed(h Handler) {
	r.methodNotAllowed = h
}

// Handle registers a single handler with optional route-specific middleware.
// Registering the same method and path again replaces the earlier route.
func (r *Router) Handle(method, path string, h Handler, mw ...Middleware) *Route {
	if method == "" {
		panic("routechain: empty method")
	}
	if h == nil {
		panic("routechain: nil handler for " + method + " " + path)
	}
	rt := &Route{method: method, path: path, handler: h, mw: mw}
	r.insert(rt)
	return rt
}

func (r *Router) insert(rt *Route) {
	current := r.root
	for _, part := range splitPath(rt.path) {
		current = current.findOrCreate(part)
	}
	if current.routes == nil {
		current.routes = make(map[string]*Route)
	}
	if old, ok := current.routes[rt.method]; ok {
		if old.name != "" {
			delete(r.named, old.name)
		}
		if i := slices.Index(r.routes, old); i >= 0 {
			r.routes[i] = rt
		}
	} else {
		r.routes = append(r.routes, rt)
	}
	current.routes[rt.method] = rt
}

func (r *Router) setName(rt *Route, name string) {
	if prev, ok := r.named[name]; ok && prev != rt {
		panic(fmt.Sprintf("routechain: duplicate route name %q", name))
	}
	rt.name = name
	r.named[name] = rt
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return slices.Clone(r.routes)
}

// URL builds the path of a named route. Params are name/value pairs for the
// route's :param and *wildcard segments. Values are path-escaped; a
// wildcard value keeps its slashes.
func (r *Router) URL(name string, params ...string) (string, error) {
	rt, ok := r.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	if len(params)%2 != 0 {
		return "", fmt.Errorf("%w: %q has no value", ErrOddParams, params[len(params)-1])
	}
	values := make(map[string]string, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	parts := splitPath(rt.path)
	for i, part := range parts {
		if !strings.HasPrefix(part, ":") && !strings.HasPrefix(part, "*") {
			continue
		}
		v, ok := values[part[1:]]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %q in route %q", ErrMissingParam, part[1:], name)
		}
		if part[0] == '*' {
			segs := strings.Split(v, "/")
			for j, seg := range segs {
				segs[j] = url.PathEscape(seg)
			}
			parts[i] = strings.Join(segs, "/")
		} else {
			parts[i] = url.PathEscape(v)
		}
	}
	return "/" + strings.Join(parts, "/"), nil
}

func (n *node) findOrCreate(segment string) *node {
	if strings.HasPrefix(segment, "*") {
		if n.wildcard == nil {
			n.wildcard = &node{path: segment}
		}
		return n.wildcard
	}

	if strings.HasPrefix(segment, ":") {
		if n.param == nil {
			n.param = &node{path: segment}
		}
		return n.param
	}

	for _, child := range n.children {
		if child.path == segment {
			return child
		}
	}

	child := &node{path: segment}
	n.children = append(n.children, child)
	return child
}

// lookup finds the route for method and path. When the path exists but not
// for this method, allowed lists the methods it does accept.
func (r *Router) lookup(method, path string, params map[string]string) (rt *Route, allowed []string) {
	parts := splitPath(path)
	current := r.root

	for i, part := range parts {
		found := false

		for _, child := range current.children {
			if child.path == part {
				current = child
				found = true
				break
			}
		}

		if !found && current.param != nil {
			params[current.param.path[1:]] = part
			current = current.param
			found = true
		}

		if !found && current.wildcard != nil {
			params[current.wildcard.path[1:]] = strings.Join(parts[i:], "/")
			current = current.wildcard
			break
		}

		if !found {
			return nil, nil
		}
	}

	if match, ok := current.routes[method]; ok {
		return match, nil
	}
	if match, ok := current.routes[MethodAny]; ok {
		return match, nil
	}
	for m := range current.routes {
		allowed = append(allowed, m)
	}
	slices.Sort(allowed)
	return nil, allowed
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
