package routechain

import "fmt"

// end terminates every composed chain with an empty result.
func end(*Ctx) (Response, error) {
	return nil, nil
}

// Compose folds steps into a single Next. Steps run in the given order and
// the first non-nil Response is the result of the whole chain. If every step
// falls through, the result is nil.
func Compose(steps ...Step) Next {
	next := Next(end)
	for i := len(steps) - 1; i >= 0; i-- {
		step, rest := steps[i], next
		next = func(c *Ctx) (Response, error) {
			return step.Invoke(c, rest)
		}
	}
	return next
}

// Sequence runs links one after another until one returns a Response.
func Sequence(links ...Link) Link {
	return func(c *Ctx) (Response, error) {
		for _, l := range links {
			resp, err := l(c)
			if err != nil || !empty(resp) {
				return resp, err
			}
		}
		return nil, nil
	}
}

// Serve adapts a composed chain to the Handler shape the router dispatches
// to. Errors are returned as is; an empty result becomes ErrNoResponse.
func Serve(next Next) Handler {
	return func(c *Ctx) error {
		resp, err := next(c)
		if err != nil {
			return err
		}
		if empty(resp) {
			return ErrNoResponse
		}
		return resp.Render(c)
	}
}

// empty reports whether resp carries no result. A nil *Reply stored in a
// Response is not == nil, so it is checked separately.
func empty(resp Response) bool {
	if resp == nil {
		return true
	}
	r, ok := resp.(*Reply)
	return ok && r == nil
}

// Steps converts chain items into Steps. Accepted items are Step
// implementations and functions with the Link, Wrap or Handler signature.
func Steps(items ...any) ([]Step, error) {
	steps := make([]Step, 0, len(items))
	for i, item := range items {
		s, err := toStep(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func toStep(item any) (Step, error) {
	switch v := item.(type) {
	case nil:
		return nil, ErrNilStep
	case Link:
		if v == nil {
			return nil, ErrNilStep
		}
		return v, nil
	case func(*Ctx) (Response, error):
		if v == nil {
			return nil, ErrNilStep
		}
		return Link(v), nil
	case Wrap:
		if v == nil {
			return nil, ErrNilStep
		}
		return v, nil
	case func(*Ctx, Next) (Response, error):
		if v == nil {
			return nil, ErrNilStep
		}
		return Wrap(v), nil
	case Handler:
		if v == nil {
			return nil, ErrNilStep
		}
		return v, nil
	case func(*Ctx) error:
		if v == nil {
			return nil, ErrNilStep
		}
		return Handler(v), nil
	case Step:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedStep, item)
}

// isWrap reports whether a step uses explicit continuation.
func isWrap(s Step) bool {
	_, ok := s.(Wrap)
	return ok
}
