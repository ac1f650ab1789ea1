package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"genesis-api/internal/service"
)

// LimiterFactory construye el limitador de una ruta a partir de su nombre.
type LimiterFactory func(name string) service.RateLimiter

// RateLimits son los limitadores por grupo de rutas. Global crea un limitador
// propio para cada ruta sin override; las cuentas no se comparten entre rutas.
type RateLimits struct {
	Global   LimiterFactory
	Register service.RateLimiter
	Login    service.RateLimiter
	Verify   service.RateLimiter
}

type route struct {
	method  string
	path    string
	access  RouteAccess
	limiter service.RateLimiter
	handler gin.HandlerFunc
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, h Handlers, guard *AccessGuard, limits RateLimits) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	setupValidator()

	r := gin.New()
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), metricsMiddleware(), gin.CustomRecovery(recoveryHandler(logger)))

	r.NoRoute(func(c *gin.Context) {
		abortWithStatus(c, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path))
	})

	r.GET("/healthz", h.Health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, rt := range routes(h, limits) {
		limiter := rt.limiter
		if limiter == nil && limits.Global != nil {
			limiter = limits.Global(rt.method + ":" + rt.path)
		}
		r.Handle(rt.method, rt.path, rateLimitMiddleware(limiter), guard.Require(rt.access), rt.handler)
	}
	return r
}

func routes(h Handlers, limits RateLimits) []route {
	return []route{
		{method: http.MethodGet, path: "/", access: public, handler: h.Health.Hello},

		{method: http.MethodPost, path: "/auth/register", access: public, limiter: limits.Register, handler: h.Auth.Register},
		{method: http.MethodPost, path: "/auth/login", access: public, limiter: limits.Login, handler: h.Auth.Login},
		{method: http.MethodPost, path: "/auth/verify-mfa", access: public, limiter: limits.Verify, handler: h.Auth.VerifyMFA},
		{method: http.MethodPost, path: "/auth/logout", access: public, handler: h.Auth.Logout},
		{method: http.MethodGet, path: "/auth/me", access: authenticated, handler: h.Auth.Me},
		{method: http.MethodGet, path: "/auth/config", access: public, handler: h.Config.Get},
		{method: http.MethodPatch, path: "/auth/config/:key", access: adminOnly, handler: h.Config.Update},

		{method: http.MethodPost, path: "/customers", access: adminOnly, handler: h.Customers.Create},
		{method: http.MethodGet, path: "/customers", access: readers, handler: h.Customers.List},
		{method: http.MethodGet, path: "/customers/:id", access: readers, handler: h.Customers.Get},
		{method: http.MethodPatch, path: "/customers/:id", access: adminOnly, handler: h.Customers.Update},
		{method: http.MethodDelete, path: "/customers/:id", access: adminOnly, handler: h.Customers.Delete},

		{method: http.MethodPost, path: "/posts", access: adminOnly, handler: h.Posts.Create},
		{method: http.MethodGet, path: "/posts", access: readers, handler: h.Posts.List},
		{method: http.MethodGet, path: "/posts/:id", access: readers, handler: h.Posts.Get},
		{method: http.MethodPatch, path: "/posts/:id", access: adminOnly, handler: h.Posts.Update},
		{method: http.MethodDelete, path: "/posts/:id", access: adminOnly, handler: h.Posts.Delete},
	}
}
