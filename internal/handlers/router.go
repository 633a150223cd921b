package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nithinkp/kurihub/internal/auth"
	"github.com/nithinkp/kurihub/internal/identity"
	"github.com/nithinkp/kurihub/internal/metrics"
	"github.com/nithinkp/kurihub/internal/middleware"
	"github.com/nithinkp/kurihub/internal/scheme"
	"github.com/nithinkp/kurihub/internal/spinner"
	"github.com/nithinkp/kurihub/internal/storage"
)

// Deps bundles everything the router needs.
type Deps struct {
	Store         storage.Store
	Engine        *scheme.Engine
	Identity      *identity.Service
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Hub           *spinner.Hub
}

// NewRouter builds the full gin engine: middleware chain, ops endpoints,
// and the /api/v1 surface.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "kurihub-api"})
	})
	router.GET("/metrics", metrics.Handler())

	authHandler := NewAuthHandler(deps.Authenticator, deps.JWT)
	userHandler := NewUserHandler(deps.Store, deps.Identity)
	schemeHandler := NewSchemeHandler(deps.Engine, deps.Identity)
	spinnerHandler := NewSpinnerHandler(deps.Hub)

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// Live spin channel. The stream is open so wheel viewers can
		// watch without a session; publishing requires one.
		api.GET("/spinner/stream/:id", spinnerHandler.Stream)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(deps.JWT, deps.Store))
		{
			authed.GET("/users", userHandler.List)
			authed.POST("/users", userHandler.Create)
			authed.PUT("/users/:id", userHandler.Update)
			authed.DELETE("/users/:id", userHandler.Delete)

			authed.GET("/kuris", schemeHandler.List)
			authed.GET("/kuris/:id", schemeHandler.Get)
			authed.POST("/kuris", schemeHandler.Create)
			authed.PUT("/kuris/:id", schemeHandler.Update)
			authed.DELETE("/kuris/:id", schemeHandler.Delete)

			authed.POST("/kuris/:id/winner", schemeHandler.AssignWinner)
			authed.POST("/kuris/:id/nominate-winner", schemeHandler.Nominate)
			authed.POST("/kuris/:id/approve-nomination", schemeHandler.DecideNomination)

			authed.POST("/kuris/:id/payments", schemeHandler.SetPayment)
			authed.GET("/kuris/:id/collection", schemeHandler.Collection)
			authed.GET("/kuris/:id/payments/me", schemeHandler.MyPayment)

			authed.POST("/spinner/spin/:id", spinnerHandler.Spin)
		}
	}

	return router
}
