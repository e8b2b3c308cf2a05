package middleware

import "github.com/gin-gonic/gin"

// RouteOpt configures one route registration.
type RouteOpt struct {
	IsAuth bool
}

// Router pairs a gin route group with the session middleware so modules
// register routes without rebuilding the auth chain each time.
type Router struct {
	r    gin.IRoutes
	auth gin.HandlerFunc
}

func NewRouter(r gin.IRoutes, auth gin.HandlerFunc) *Router {
	return &Router{r: r, auth: auth}
}

func (rt *Router) GET(path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		rt.r.GET(path, rt.auth, handler)
	} else {
		rt.r.GET(path, handler)
	}
}

func (rt *Router) POST(path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		rt.r.POST(path, rt.auth, handler)
	} else {
		rt.r.POST(path, handler)
	}
}

func (rt *Router) PUT(path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		rt.r.PUT(path, rt.auth, handler)
	} else {
		rt.r.PUT(path, handler)
	}
}

func (rt *Router) DELETE(path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		rt.r.DELETE(path, rt.auth, handler)
	} else {
		rt.r.DELETE(path, handler)
	}
}
