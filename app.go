package routechain

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/quic-go/quic-go/http3"
)

// App is an HTTP application whose routes dispatch to handler chains.
type App struct {
	*Router
	pool    sync.Pool
	logger  *slog.Logger
	onError func(*Ctx, error)
}

// New creates a new application.
func New(opts ...Option) *App {
	app := &App{
		Router: NewRouter(),
		logger: slog.Default(),
	}
	app.onError = app.defaultError
	for _, opt := range opts {
		opt(app)
	}
	app.pool = sync.Pool{
		New: func() any {
			return newCtx(app.logger)
		},
	}
	return app
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// OnError sets a custom error handler.
func (a *App) OnError(fn func(*Ctx, error)) {
	a.onError = fn
}

func (a *App) defaultError(c *Ctx, err error) {
	if errors.Is(err, ErrNoResponse) {
		c.Logger().Warn("route chain returned no response", slog.String("route", c.Route()))
	} else {
		c.Logger().Error("request failed", slog.String("route", c.Route()), slog.Any("error", err))
	}
	if !c.Written() {
		_ = c.Text(http.StatusInternalServerError, "Internal Server Error")
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := a.pool.Get().(*Ctx)
	c.Reset(w, r)
	defer a.pool.Put(c)

	var handler Handler
	rt, allowed := a.lookup(r.Method, r.URL.Path, c.params)
	switch {
	case rt != nil:
		c.route = rt.path
		handler = rt.handler
		if len(rt.mw) > 0 {
			handler = Chain(rt.mw...)(handler)
		}
	case len(allowed) > 0:
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		handler = a.methodNotAllowed
	default:
		handler = a.notFound
	}

	if len(a.middleware) > 0 {
		handler = Chain(a.middleware...)(handler)
	}

	if err := handler(c); err != nil {
		a.onError(c, err)
	}
}

// Run starts the server on the given address.
func (a *App) Run(addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: a,
	}
	a.logger.Info("listening", slog.String("addr", addr))
	return server.ListenAndServe()
}

// RunGraceful starts the server and shuts it down on SIGINT or SIGTERM,
// waiting up to timeout for in-flight requests.
func (a *App) RunGraceful(addr string, timeout time.Duration) error {
	server := &http.Server{
		Addr:    addr,
		Handler: a,
	}

	done := make(chan error, 1)
	go func() {
		a.logger.Info("listening", slog.String("addr", addr))
		done <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-quit:
		a.logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return server.Shutdown(ctx)
	}
	return nil
}

// RunHTTP3 serves the app over HTTP/3 (QUIC) with the given TLS key pair.
func (a *App) RunHTTP3(addr, certFile, keyFile string) error {
	server := &http3.Server{
		Addr:    addr,
		Handler: a,
	}
	a.logger.Info("listening", slog.String("addr", addr), slog.String("proto", "h3"))
	return server.ListenAndServeTLS(certFile, keyFile)
}
