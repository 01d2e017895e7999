package metrics

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpOnce       sync.Once
	httpMiddleware echo.MiddlewareFunc
)

// NewHTTPMiddleware returns the request metrics middleware registered on reg.
// Series are labelled by route template (url="/api/user/:id") and by the
// status code the error handler rendered.
func NewHTTPMiddleware(reg prometheus.Registerer) (echo.MiddlewareFunc, error) {
	return echoprometheus.MiddlewareConfig{
		Namespace:                 namespace,
		Subsystem:                 "http",
		Registerer:                reg,
		DoNotUseRequestPathFor404: true,
	}.ToMiddleware()
}

// HTTPMiddleware returns the request metrics middleware bound to the default
// registry. Its collectors can only be registered once per process, so every
// router built in the process shares the same instance.
func HTTPMiddleware() echo.MiddlewareFunc {
	httpOnce.Do(func() {
		mw, err := NewHTTPMiddleware(prometheus.DefaultRegisterer)
		if err != nil {
			panic(err)
		}
		httpMiddleware = mw
	})
	return httpMiddleware
}
