package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Store, cfg.Version)
	books := NewBooksController(cfg.Catalog)
	publishers := NewPublishersController(cfg.Catalog)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	bookRoutes := router.Group("/api/books")
	bookRoutes.POST("", books.CreateBook)
	bookRoutes.GET("", books.ListBooks)
	bookRoutes.GET("/search", books.SearchBooks)
	bookRoutes.PUT("/:id", books.UpdateBook)
	bookRoutes.DELETE("/:id", books.DeleteBook)

	// Publishers API endpoints
	publisherRoutes := router.Group("/api/publishers")
	publisherRoutes.POST("", publishers.CreatePublisher)
	publisherRoutes.GET("", publishers.ListPublishers)

	return router
}
