// Command routechain-demo serves a few chained routes: a wrap-around chain,
// a chain cut short by authentication and a chain gated by authorization.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gomarten/routechain"
	"github.com/gomarten/routechain/internal/config"
	"github.com/gomarten/routechain/internal/logging"
	"github.com/gomarten/routechain/internal/telemetry"
	"github.com/gomarten/routechain/middleware"
)

const serviceName = "routechain-demo"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Telemetry() {
		shutdown, err := telemetry.Setup(ctx, telemetry.Config{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Println(err)
			}
		}()
	}

	logger, err := logging.New(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
		Name:   serviceName,
	})
	if err != nil {
		return err
	}

	app, err := newApp(logger)
	if err != nil {
		return err
	}

	if cfg.HTTP3() {
		errCh := make(chan error, 1)
		go func() { errCh <- app.RunHTTP3(cfg.Addr, cfg.TLSCert, cfg.TLSKey) }()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: otelhttp.NewHandler(app, serviceName),
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newApp(logger *slog.Logger) (*routechain.App, error) {
	app := routechain.New(
		routechain.WithLogger(logger),
		routechain.WithWrapWarnings(false),
	)

	metrics, err := middleware.Metrics()
	if err != nil {
		return nil, err
	}
	app.Use(
		middleware.RequestID,
		middleware.Recover,
		middleware.Logger,
		middleware.Tracing(),
		metrics,
	)

	app.GET("/", decorate("foo"), decorate("bar"), showStuff, routechain.WithName("home"))
	app.GET("/unauthenticated", rejectAll, success)
	app.GET("/unauthorised", authenticate, middleware.AllowUsers("dick"), success)

	return app, nil
}

// decorate appends value to the request's "extra_stuff" list around the
// rest of the chain.
func decorate(value string) routechain.Wrap {
	return func(c *routechain.Ctx, next routechain.Next) (routechain.Response, error) {
		c.Logger().Debug("entering", slog.String("step", value))
		stuff, _ := c.Get("extra_stuff").([]string)
		c.Set("extra_stuff", append(stuff, value))
		resp, err := next(c)
		c.Logger().Debug("exiting", slog.String("step", value))
		return resp, err
	}
}

func showStuff(c *routechain.Ctx) (routechain.Response, error) {
	stuff, _ := c.Get("extra_stuff").([]string)
	return routechain.Text(http.StatusOK, "extra_stuff=["+strings.Join(stuff, ", ")+"]"), nil
}

func rejectAll(*routechain.Ctx) (routechain.Response, error) {
	return routechain.Text(http.StatusUnauthorized, "unauthenticated"), nil
}

func authenticate(c *routechain.Ctx) (routechain.Response, error) {
	c.Set(middleware.UserKey, "tom")
	return nil, nil
}

func success(*routechain.Ctx) (routechain.Response, error) {
	return routechain.Text(http.StatusOK, "Success"), nil
}
