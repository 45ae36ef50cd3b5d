package routechain

import (
	"fmt"
	"net/http"
	"slices"
)

// Group is a set of routes sharing a path prefix, host middleware and
// leading chain steps.
type Group struct {
	prefix string
	items  []any
	router *Router
}

// Group creates a route group. Items are Middleware applied to every route
// of the group and steps run before each route's own steps.
func (r *Router) Group(prefix string, items ...any) *Group {
	checkGroupItems(items)
	return &Group{
		prefix: prefix,
		items:  items,
		router: r,
	}
}

func checkGroupItems(items []any) {
	for i, item := range items {
		if _, ok := item.(RouteOption); ok {
			panic(fmt.Sprintf("routechain: group item %d: route options belong on routes", i))
		}
	}
}

// Use adds middleware to the group.
func (g *Group) Use(mw ...Middleware) {
	for _, m := range mw {
		g.items = append(g.items, m)
	}
}

// Before adds steps that run ahead of every route in the group.
func (g *Group) Before(steps ...any) {
	checkGroupItems(steps)
	g.items = append(g.items, steps...)
}

// Group creates a nested group.
func (g *Group) Group(prefix string, items ...any) *Group {
	checkGroupItems(items)
	return &Group{
		prefix: g.prefix + prefix,
		items:  slices.Concat(g.items, items),
		router: g.router,
	}
}

// Add registers a chain within the group.
func (g *Group) Add(method, path string, items ...any) *Route {
	return g.router.add([]string{method}, g.prefix+path, slices.Concat(g.items, items))
}

// GET registers a GET (and HEAD) chain within the group.
func (g *Group) GET(path string, items ...any) *Route {
	return g.router.add([]string{http.MethodGet, http.MethodHead}, g.prefix+path, slices.Concat(g.items, items))
}

// HEAD registers a HEAD chain within the group.
func (g *Group) HEAD(path string, items ...any) *Route {
	return g.Add(http.MethodHead, path, items...)
}

// POST registers a POST chain within the group.
func (g *Group) POST(path string, items ...any) *Route {
	return g.Add(http.MethodPost, path, items...)
}

// PUT registers a PUT chain within the group.
func (g *Group) PUT(path string, items ...any) *Route {
	return g.Add(http.MethodPut, path, items...)
}

// PATCH registers a PATCH chain within the group.
func (g *Group) PATCH(path string, items ...any) *Route {
	return g.Add(http.MethodPatch, path, items...)
}

// DELETE registers a DELETE chain within the group.
func (g *Group) DELETE(path string, items ...any) *Route {
	return g.Add(http.MethodDelete, path, items...)
}

// OPTIONS registers an OPTIONS chain within the group.
func (g *Group) OPTIONS(path string, items ...any) *Route {
	return g.Add(http.MethodOptions, path, items...)
}

// Any registers a chain for every method within the group.
func (g *Group) Any(path string, items ...any) *Route {
	return g.Add(MethodAny, path, items...)
}
