// Package server assembles the HTTP surface: public auth and catalog reads,
// token-gated groups for mutations, and admin-only user management.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	authhandler "online-shop/backend/internal/auth/handler"
	categoryhandler "online-shop/backend/internal/category/handler"
	goodhandler "online-shop/backend/internal/good/handler"
	"online-shop/backend/internal/security"
	"online-shop/backend/internal/server/middleware"
	userdomain "online-shop/backend/internal/user/domain"
	userhandler "online-shop/backend/internal/user/handler"
)

// Deps are the handlers and token codec the router is built from.
type Deps struct {
	Tokens     *security.TokenCodec
	Auth       *authhandler.AuthHandler
	Users      *userhandler.UserHandler
	Categories *categoryhandler.CategoryHandler
	Goods      *goodhandler.GoodHandler

	// TracerProvider may be nil; tracing is then a no-op.
	TracerProvider trace.TracerProvider
}

// NewRouter builds the gin engine with all routes and middleware wired.
func NewRouter(deps Deps) *gin.Engine {
	tp := deps.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Trace(tp))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	deps.Auth.Register(r)

	authorized := r.Group("/", middleware.RequireAuthorized(deps.Tokens))
	admin := authorized.Group("/", middleware.RequireRole(userdomain.RoleAdmin))

	deps.Users.Register(authorized, admin)
	deps.Categories.Register(r, admin)
	deps.Goods.Register(r, admin)

	return r
}
