package routechain

import "errors"

var (
	// ErrNoResponse is returned by a served chain when no step produced a
	// response.
	ErrNoResponse = errors.New("routechain: chain produced no response")

	// ErrNilStep is returned when a nil value is given as a chain item.
	ErrNilStep = errors.New("routechain: nil step")

	// ErrUnsupportedStep is returned for chain items of an unknown type.
	ErrUnsupportedStep = errors.New("routechain: unsupported step type")

	// ErrNoSteps is returned when a chained route has no steps.
	ErrNoSteps = errors.New("routechain: route has no steps")

	// ErrRouteNotFound is returned by URL for unknown route names.
	ErrRouteNotFound = errors.New("routechain: route not found")

	// ErrMissingParam is returned by URL when a path parameter has no value.
	ErrMissingParam = errors.New("routechain: missing path parameter")

	// ErrOddParams is returned by URL when a parameter name has no value.
	ErrOddParams = errors.New("routechain: params must be name/value pairs")
)
