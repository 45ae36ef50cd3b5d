package routechain_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gomarten/routechain"
)

func benchmarkServe(b *testing.B, app *routechain.App, method, path string) {
	req := httptest.NewRequest(method, path, nil)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, req)
	}
}

func BenchmarkStaticRoute(b *testing.B) {
	app := routechain.New()
	app.GET("/hello", textLink("Hello, World!"))
	benchmarkServe(b, app, "GET", "/hello")
}

func BenchmarkParamRoute(b *testing.B) {
	app := routechain.New()
	app.GET("/users/:id", func(c *routechain.Ctx) (routechain.Response, error) {
		return routechain.Text(200, c.Param("id")), nil
	})
	benchmarkServe(b, app, "GET", "/users/123")
}

func BenchmarkChainedRoute(b *testing.B) {
	app := routechain.New(routechain.WithWrapWarnings(false))
	wrap := func(c *routechain.Ctx, next routechain.Next) (routechain.Response, error) {
		return next(c)
	}
	app.GET("/chain", pass, wrap, pass, textLink("done"))
	benchmarkServe(b, app, "GET", "/chain")
}

func BenchmarkJSON(b *testing.B) {
	app := routechain.New()
	app.GET("/json", func(*routechain.Ctx) (routechain.Response, error) {
		return routechain.JSON(200, routechain.M{"message": "Hello, World!", "status": "ok"}), nil
	})
	benchmarkServe(b, app, "GET", "/json")
}

func BenchmarkRouteGroup(b *testing.B) {
	app := routechain.New()
	v1 := app.Group("/api/v1", pass)
	v1.GET("/users/:id", textLink("user"))
	benchmarkServe(b, app, "GET", "/api/v1/users/1")
}

func BenchmarkWildcardRoute(b *testing.B) {
	app := routechain.New()
	app.GET("/static/*filepath", func(c *routechain.Ctx) (routechain.Response, error) {
		return routechain.Text(200, c.Param("filepath")), nil
	})
	benchmarkServe(b, app, "GET", "/static/css/"+strings.Repeat("a", 16)+".css")
}

func BenchmarkStaticRouteParallel(b *testing.B) {
	app := routechain.New()
	app.GET("/hello", textLink("Hello, World!"))

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		req := httptest.NewRequest("GET", "/hello", nil)
		for pb.Next() {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, req)
		}
	})
}
