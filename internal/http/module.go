// Package http defines how feature packages plug into the API server. Each
// of records, navsearch, dashboard, paymentterms and exports exposes a
// Module that the router mounts.
package http

import (
	"github.com/gin-gonic/gin"
)

type Module interface {
	// Name shows up in the startup log.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext holds the groups a module may mount on. Both sit under
// /api/v1 behind the identity middleware.
type RouterContext struct {
	Protected *gin.RouterGroup
	// Admin is Protected plus the admin role, at /api/v1/admin.
	Admin *gin.RouterGroup
}
