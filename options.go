package routechain

import "log/slog"

// RouteOption configures a chained route. Options are passed among the
// chain items given to Add, GET and friends.
type RouteOption func(*routeConfig)

type routeConfig struct {
	name   string
	noHead bool
}

// WithName names the route so URL can build its path.
func WithName(name string) RouteOption {
	return func(c *routeConfig) {
		c.name = name
	}
}

// WithoutHead stops GET from also registering HEAD.
func WithoutHead() RouteOption {
	return func(c *routeConfig) {
		c.noHead = true
	}
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used by the app, its router and Ctx.Logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger == nil {
			return
		}
		a.logger = logger
		a.Router.logger = logger
	}
}

// WithWrapWarnings toggles the warning logged when a route registers a Wrap
// step.
func WithWrapWarnings(enabled bool) Option {
	return func(a *App) {
		a.Router.wrapWarnings = enabled
	}
}
