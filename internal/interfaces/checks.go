package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/mongostore"
	"github.com/mrlokans/bookshelf/internal/database/sqlstore"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Store implementations
var _ database.Store = (*mongostore.Store)(nil)
var _ database.Store = (*sqlstore.Store)(nil)

// CatalogStore implementations
var _ services.CatalogStore = (*mongostore.Store)(nil)
var _ services.CatalogStore = (*sqlstore.Store)(nil)

// Pinger implementations (health checks)
var _ http.Pinger = (*mongostore.Store)(nil)
var _ http.Pinger = (*sqlstore.Store)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

// Reconciler implementations
var _ scheduler.Reconciler = (*services.CatalogService)(nil)
