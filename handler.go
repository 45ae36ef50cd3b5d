package routechain

// Handler is a function that handles an HTTP request.
type Handler func(*Ctx) error

// Middleware wraps a handler with additional behavior.
type Middleware func(Handler) Handler

// Chain composes multiple middleware into a single middleware.
func Chain(mw ...Middleware) Middleware {
	return func(final Handler) Handler {
		for i := len(mw) - 1; i >= 0; i-- {
			final = mw[i](final)
		}
		return final
	}
}

// Response is the result of a chain step. A nil Response, or a nil *Reply,
// means the step produced nothing and the chain moves on.
type Response interface {
	Render(*Ctx) error
}

// Next runs the remainder of a chain.
type Next func(*Ctx) (Response, error)

// Step is one element of a per-route chain. It receives the request and the
// remainder of the chain.
type Step interface {
	Invoke(c *Ctx, next Next) (Response, error)
}

// Link is a step that only sees the request. Returning a nil Response
// continues with the next step; anything else ends the chain.
type Link func(*Ctx) (Response, error)

// Invoke implements Step.
func (l Link) Invoke(c *Ctx, next Next) (Response, error) {
	resp, err := l(c)
	if err != nil || !empty(resp) {
		return resp, err
	}
	return next(c)
}

// Wrap is a step that receives the remainder of the chain and decides
// itself whether and when to call it. Code before and after the call runs
// around the inner steps.
type Wrap func(*Ctx, Next) (Response, error)

// Invoke implements Step.
func (w Wrap) Invoke(c *Ctx, next Next) (Response, error) {
	return w(c, next)
}

// Invoke lets a plain Handler sit in a chain. The handler ends the chain
// when it writes to the response.
func (h Handler) Invoke(c *Ctx, next Next) (Response, error) {
	if err := h(c); err != nil {
		return nil, err
	}
	if c.Written() {
		return Handled, nil
	}
	return next(c)
}
