package services

import "github.com/mrlokans/bookshelf/internal/database"

// CatalogStore is everything the catalog service needs from a backend.
// Both mongostore.Store and sqlstore.Store satisfy it.
type CatalogStore interface {
	database.BookStore
	database.PublisherStore
}

// BookUpdate carries the only fields an update may change.
// A nil Price or Tags clears the stored value, as a full overwrite would.
type BookUpdate struct {
	Price *float64
	Tags  []string
}

// ReconcileResult summarizes a back-reference rebuild.
type ReconcileResult struct {
	PublishersChecked int
	PublishersUpdated int
}
