package http

import (
	"github.com/mrlokans/bookshelf/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog *services.CatalogService
	Store   Pinger

	// Application info
	Version string
}
