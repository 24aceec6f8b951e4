// Package database defines the storage contract for books and publishers.
//
// # Backends
//
//	database/
//	├── database.go      # Store interfaces and sentinel errors
//	├── mongostore/      # MongoDB document store (production default)
//	└── sqlstore/        # GORM + SQLite store (embedded, local development, tests)
//
// Both backends honour the same contract:
//
//   - Book.BeforeSave runs on every insert and replace, so names are
//     stripped of non-ASCII characters no matter which path saved them.
//   - Publisher.PublishedBooks is stored as-is and only changed through
//     AppendPublishedBook and ReplacePublishedBooks. Nothing cascades on delete.
//   - The booksPublished reverse relation is computed at read time by
//     ListPublishersWithBooks and is always consistent with the books collection.
//
// Driver errors are translated into ErrNotFound, ErrInvalidID and
// ErrDuplicateKey; everything else is wrapped with context.
//
// # Usage
//
//	store, err := sqlstore.New("./bookshelf.db")
//	if err != nil { ... }
//	defer store.Close(ctx)
//
//	svc := services.NewCatalogService(store)
package database
