package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a handler's authenticated routes on a group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// PublicRouteRegistrar mounts routes served without authentication.
type PublicRouteRegistrar interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// Router mounts handlers under a versioned API prefix. Public and
// protected routes live in sibling groups sharing the prefix; only
// the protected group carries the auth middleware, so the same path
// can be public for GET and protected for POST.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     *gin.RouterGroup
	protected  *gin.RouterGroup
}

// Option configures a Router.
type Option func(*Router)

// WithAPIVersion overrides the default /api/v1 prefix version.
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// New creates a Router on the engine. authMiddleware guards the
// protected group; pass additional middleware to stack after it.
func New(engine *gin.Engine, authMiddleware gin.HandlerFunc, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}

	prefix := "/api/" + r.apiVersion
	r.public = engine.Group(prefix)
	r.protected = engine.Group(prefix)
	if authMiddleware != nil {
		r.protected.Use(authMiddleware)
	}
	return r
}

// Public returns the unauthenticated group.
func (r *Router) Public() *gin.RouterGroup {
	return r.public
}

// Protected returns the group guarded by the auth middleware.
func (r *Router) Protected() *gin.RouterGroup {
	return r.protected
}

// Mount registers a handler. Handlers implementing
// PublicRouteRegistrar get their public routes mounted too.
func (r *Router) Mount(registrars ...RouteRegistrar) {
	for _, reg := range registrars {
		if pub, ok := reg.(PublicRouteRegistrar); ok {
			pub.RegisterPublicRoutes(r.public)
		}
		reg.RegisterRoutes(r.protected)
	}
}
