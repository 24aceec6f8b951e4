package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/sqlstore"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestService(t *testing.T) (*CatalogService, *sqlstore.Store, func()) {
	t.Helper()
	dbPath := "./test_catalog_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	os.Remove(dbPath)

	store, err := sqlstore.New(dbPath, sqlstore.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	cleanup := func() {
		store.Close(context.Background())
		os.Remove(dbPath)
	}
	return NewCatalogService(store), store, cleanup
}

func price(v float64) *float64 { return &v }

func findPublisher(t *testing.T, svc *CatalogService, id string) entities.PublisherWithBooks {
	t.Helper()
	publishers, err := svc.ListPublishers(context.Background())
	require.NoError(t, err)
	for _, p := range publishers {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("publisher %s not found", id)
	return entities.PublisherWithBooks{}
}

func TestCatalogService_CreateBook(t *testing.T) {
	t.Run("appends id to existing publisher", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()
		ctx := context.Background()

		pub := &entities.Publisher{Name: "Gollancz"}
		require.NoError(t, svc.CreatePublisher(ctx, pub))

		book := &entities.Book{Name: "Hyperion", Author: "Simmons", Publisher: pub.ID}
		require.NoError(t, svc.CreateBook(ctx, book))

		got := findPublisher(t, svc, pub.ID)
		assert.Equal(t, []string{book.ID}, got.PublishedBooks)
		assert.Equal(t, []string{book.ID}, got.LiveBookIDs())
	})

	t.Run("unknown publisher is skipped", func(t *testing.T) {
		svc, store, cleanup := setupTestService(t)
		defer cleanup()
		ctx := context.Background()

		book := &entities.Book{Name: "Lonely", Author: "Nobody", Publisher: uuid.NewString()}
		require.NoError(t, svc.CreateBook(ctx, book))

		stored, err := store.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, book.Publisher, stored.Publisher)
	})

	t.Run("defaults date to now", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		book := &entities.Book{Name: "Dated", Author: "Clock"}
		require.NoError(t, svc.CreateBook(context.Background(), book))
		assert.True(t, fixed.Equal(book.Date))
	})

	t.Run("keeps explicit date", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()

		explicit := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
		book := &entities.Book{Name: "Old", Author: "Timer", Date: explicit}
		require.NoError(t, svc.CreateBook(context.Background(), book))
		assert.True(t, explicit.Equal(book.Date))
	})

	t.Run("strips non-ascii name", func(t *testing.T) {
		svc, store, cleanup := setupTestService(t)
		defer cleanup()
		ctx := context.Background()

		book := &entities.Book{Name: "Café", Author: "Barista"}
		require.NoError(t, svc.CreateBook(ctx, book))

		stored, err := store.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Caf", stored.Name)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		svc, _, cleanup := setupTestService(t)
		defer cleanup()
		ctx := context.Background()

		require.NoError(t, svc.CreateBook(ctx, &entities.Book{Name: "Twice", Author: "Once"}))
		err := svc.CreateBook(ctx, &entities.Book{Name: "Twice", Author: "Again"})
		assert.True(t, errors.Is(err, database.ErrDuplicateKey))
	})
}

func TestCatalogService_UpdateBook(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	pub := &entities.Publisher{Name: "Ace"}
	require.NoError(t, svc.CreatePublisher(ctx, pub))

	book := &entities.Book{Name: "Dhalgren", Author: "Delany", Publisher: pub.ID, Price: price(30), Tags: []string{"new-wave"}}
	require.NoError(t, svc.CreateBook(ctx, book))

	updated, err := svc.UpdateBook(ctx, book.ID, BookUpdate{Price: price(12.5), Tags: []string{"classic", "sf"}})
	require.NoError(t, err)

	assert.Equal(t, "Dhalgren", updated.Name)
	assert.Equal(t, "Delany", updated.Author)
	assert.Equal(t, pub.ID, updated.Publisher)
	assert.Equal(t, 12.5, *updated.Price)
	assert.Equal(t, []string{"classic", "sf"}, updated.Tags)
	assert.True(t, book.Date.Equal(updated.Date))

	t.Run("missing fields clear the stored values", func(t *testing.T) {
		updated, err := svc.UpdateBook(ctx, book.ID, BookUpdate{})
		require.NoError(t, err)
		assert.Nil(t, updated.Price)
		assert.Equal(t, []string{}, updated.Tags)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, uuid.NewString(), BookUpdate{Price: price(1)})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestCatalogService_DeleteBook_LeavesStaleBackReference(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	pub := &entities.Publisher{Name: "Baen"}
	require.NoError(t, svc.CreatePublisher(ctx, pub))
	book := &entities.Book{Name: "Honor", Author: "Weber", Publisher: pub.ID}
	require.NoError(t, svc.CreateBook(ctx, book))

	deleted, err := svc.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	got := findPublisher(t, svc, pub.ID)
	assert.Equal(t, []string{book.ID}, got.PublishedBooks)
	assert.Empty(t, got.BooksPublished)

	deleted, err = svc.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestCatalogService_RebuildBackReferences(t *testing.T) {
	svc, store, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	consistent := &entities.Publisher{Name: "Consistent"}
	drifted := &entities.Publisher{Name: "Drifted"}
	require.NoError(t, svc.CreatePublisher(ctx, consistent))
	require.NoError(t, svc.CreatePublisher(ctx, drifted))

	require.NoError(t, svc.CreateBook(ctx, &entities.Book{Name: "Fine", Author: "F", Publisher: consistent.ID}))

	kept := &entities.Book{Name: "Kept", Author: "K", Publisher: drifted.ID}
	require.NoError(t, svc.CreateBook(ctx, kept))
	gone := &entities.Book{Name: "Gone", Author: "G", Publisher: drifted.ID}
	require.NoError(t, svc.CreateBook(ctx, gone))
	_, err := svc.DeleteBook(ctx, gone.ID)
	require.NoError(t, err)

	// Bypass the service so the back-reference is never written.
	sneaky := &entities.Book{Name: "Sneaky", Author: "S", Publisher: drifted.ID}
	require.NoError(t, store.CreateBook(ctx, sneaky))

	result, err := svc.RebuildBackReferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileResult{PublishersChecked: 2, PublishersUpdated: 1}, result)

	got := findPublisher(t, svc, drifted.ID)
	assert.ElementsMatch(t, []string{kept.ID, sneaky.ID}, got.PublishedBooks)

	result, err = svc.RebuildBackReferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.PublishersUpdated)
}

func TestCatalogService_ListCheapBooks(t *testing.T) {
	svc, _, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, svc.CreateBook(ctx, &entities.Book{Name: "At Limit", Author: "A", Price: price(25)}))
	require.NoError(t, svc.CreateBook(ctx, &entities.Book{Name: "Under", Author: "B", Price: price(24.99)}))

	books, err := svc.ListCheapBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Under", books[0].Name)
}

func TestSameIDs(t *testing.T) {
	assert.True(t, sameIDs(nil, []string{}))
	assert.True(t, sameIDs([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, sameIDs([]string{"a", "a"}, []string{"a", "b"}))
	assert.False(t, sameIDs([]string{"a"}, []string{"a", "b"}))
}
