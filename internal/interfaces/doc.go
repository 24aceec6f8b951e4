// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - database.BookStore: Book persistence (internal/database/database.go)
//   - database.PublisherStore: Publisher persistence and the publishedBooks
//     back-reference (internal/database/database.go)
//   - database.Store: Both of the above plus Ping and Close; implemented by
//     mongostore.Store and sqlstore.Store
//   - services.CatalogStore: The subset the catalog service depends on
//     (internal/services/interfaces.go)
//
// ## Operational Interfaces
//
//   - http.Pinger: Store liveness for /health (internal/http/health.go)
//   - scheduler.Reconciler: Back-reference repair run by the cron scheduler
//     (internal/scheduler/reconcile.go)
//
// # Adding a New Store Backend
//
//  1. Create sub-package: internal/database/<backend>/
//
//  2. Implement database.Store. Stores must call Book.BeforeSave on every
//     insert and replace, return database.ErrNotFound for unknown ids,
//     database.ErrDuplicateKey for unique violations, and (nil, nil) from
//     DeleteBook when nothing matched.
//
//  3. Add a driver case to entrypoint.OpenStore.
//
//  4. Add compile-time check:
//
//     var _ database.Store = (*Store)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
