package handlers

import (
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"power_node/internal/logger"
	"power_node/internal/metrics"
	"power_node/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	metrics  *metrics.Registry
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. A nil metrics
// registry leaves /metrics unregistered.
func NewHandler(services *service.Service, m *metrics.Registry, log *logger.Logger) *Handler {
	return &Handler{services: services, metrics: m, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// UI snapshot stream for one node: /ws?node=<id>
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requesterMiddleware)
	{
		h.registerNodeRoutes(api)
		h.registerLogRoutes(api)
		api.POST("/users/me/access", h.grantAccess)
	}
}

func (h *Handler) registerNodeRoutes(api *gin.RouterGroup) {
	nodes := api.Group("/nodes")
	{
		nodes.POST("", h.createNode)
		nodes.GET("", h.listNodes)
		nodes.DELETE("/:id", h.deleteNode)
		nodes.GET("/:id/state", h.getNodeState)
		nodes.POST("/:id/breaker", h.toggleBreaker)
		nodes.POST("/:id/tool", h.useTool)
		nodes.DELETE("/:id/tool", h.cancelTool)
		nodes.POST("/:id/compromise", h.compromise)
		nodes.POST("/:id/disturb", h.disturb)
		nodes.GET("/:id/examine", h.examine)
		// Body example: {"load":1500,"feed":0}
		nodes.PUT("/:id/load", h.setLoad)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
