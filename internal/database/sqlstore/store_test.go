package sqlstore

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	dbPath := "./test_sqlstore_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	os.Remove(dbPath)

	store, err := New(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)

	cleanup := func() {
		store.Close(context.Background())
		os.Remove(dbPath)
	}
	return store, cleanup
}

func price(v float64) *float64 { return &v }

func year(v int) *int { return &v }

func TestStore_CreateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("assigns id and sanitizes name", func(t *testing.T) {
		book := &entities.Book{Name: "Café", Author: "Anon", Date: time.Now()}
		require.NoError(t, store.CreateBook(ctx, book))

		assert.NotEmpty(t, book.ID)
		assert.Equal(t, "Caf", book.Name)
		assert.Equal(t, []string{}, book.Tags)

		stored, err := store.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Caf", stored.Name)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		require.NoError(t, store.CreateBook(ctx, &entities.Book{Name: "Dune", Author: "Herbert"}))
		err := store.CreateBook(ctx, &entities.Book{Name: "Dune", Author: "Someone Else"})
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
	})

	t.Run("duplicate author is rejected", func(t *testing.T) {
		require.NoError(t, store.CreateBook(ctx, &entities.Book{Name: "Emma", Author: "Austen"}))
		err := store.CreateBook(ctx, &entities.Book{Name: "Persuasion", Author: "Austen"})
		assert.ErrorIs(t, err, database.ErrDuplicateKey)
	})

	t.Run("malformed publisher id is rejected", func(t *testing.T) {
		err := store.CreateBook(ctx, &entities.Book{Name: "Odd", Author: "Ref", Publisher: "not-an-id"})
		assert.ErrorIs(t, err, database.ErrInvalidID)
	})

	t.Run("unknown publisher id is accepted", func(t *testing.T) {
		book := &entities.Book{Name: "Orphan", Author: "Nobody", Publisher: uuid.NewString()}
		require.NoError(t, store.CreateBook(ctx, book))
		assert.NotEmpty(t, book.Publisher)
	})
}

func TestStore_GetBookByID_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetBookByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = store.GetBookByID(ctx, "garbage")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestStore_ListBooksCheaperThan(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	fixtures := []*entities.Book{
		{Name: "Exactly", Author: "A1", Price: price(25), Tags: []string{"edge"}},
		{Name: "Almost", Author: "A2", Price: price(24.99), Tags: []string{"edge", "cheap"}},
		{Name: "Cheap", Author: "A3", Price: price(3.5)},
		{Name: "Pricey", Author: "A4", Price: price(80)},
		{Name: "Unpriced", Author: "A5"},
	}
	for _, b := range fixtures {
		require.NoError(t, store.CreateBook(ctx, b))
	}

	books, err := store.ListBooksCheaperThan(ctx, entities.CheapBookPriceLimit)
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "Cheap", books[0].Name)
	assert.Equal(t, 3.5, *books[0].Price)
	assert.Equal(t, []string{}, books[0].Tags)
	assert.Equal(t, "Almost", books[1].Name)
	assert.Equal(t, []string{"edge", "cheap"}, books[1].Tags)
}

func TestStore_FindBooksByNameAndAuthor(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateBook(ctx, &entities.Book{Name: "Solaris", Author: "Lem", Price: price(12)}))
	require.NoError(t, store.CreateBook(ctx, &entities.Book{Name: "Fiasco", Author: "Lem Jr", Price: price(9)}))

	books, err := store.FindBooksByNameAndAuthor(ctx, "Solaris", "Lem")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Solaris", books[0].Name)

	books, err = store.FindBooksByNameAndAuthor(ctx, "Solaris", "Lem Jr")
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func TestStore_SaveBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	publisherID := uuid.NewString()
	book := &entities.Book{
		Name:          "Neuromancer",
		Author:        "Gibson",
		PublishedYear: year(1984),
		Price:         price(10),
		Tags:          []string{"cyberpunk"},
		Publisher:     publisherID,
	}
	require.NoError(t, store.CreateBook(ctx, book))

	book.Price = price(7.5)
	book.Tags = []string{"classic"}
	book.Name = "Neuromancer ™"
	require.NoError(t, store.SaveBook(ctx, book))

	stored, err := store.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Neuromancer ", stored.Name)
	assert.Equal(t, 7.5, *stored.Price)
	assert.Equal(t, []string{"classic"}, stored.Tags)
	assert.Equal(t, publisherID, stored.Publisher)
	assert.Equal(t, 1984, *stored.PublishedYear)

	t.Run("missing book", func(t *testing.T) {
		err := store.SaveBook(ctx, &entities.Book{ID: uuid.NewString(), Name: "Ghost", Author: "Nobody"})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestStore_DeleteBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	book := &entities.Book{Name: "Ubik", Author: "Dick"}
	require.NoError(t, store.CreateBook(ctx, book))

	deleted, err := store.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "Ubik", deleted.Name)

	_, err = store.GetBookByID(ctx, book.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	deleted, err = store.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	deleted, err = store.DeleteBook(ctx, "not-an-id")
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestStore_Publishers(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	pub := &entities.Publisher{Name: "Orbit", Location: "London"}
	require.NoError(t, store.CreatePublisher(ctx, pub))
	assert.NotEmpty(t, pub.ID)
	assert.Equal(t, []string{}, pub.PublishedBooks)

	err := store.CreatePublisher(ctx, &entities.Publisher{Name: "Orbit"})
	assert.ErrorIs(t, err, database.ErrDuplicateKey)

	err = store.CreatePublisher(ctx, &entities.Publisher{Name: "Bad Refs", PublishedBooks: []string{"nope"}})
	assert.ErrorIs(t, err, database.ErrInvalidID)

	linked := &entities.Book{Name: "Leviathan Wakes", Author: "Corey", Publisher: pub.ID, PublishedYear: year(2011)}
	require.NoError(t, store.CreateBook(ctx, linked))
	require.NoError(t, store.AppendPublishedBook(ctx, pub.ID, linked.ID))

	// Live relation includes a book whose id never made it into publishedBooks.
	unlinked := &entities.Book{Name: "Caliban's War", Author: "Corey II", Publisher: pub.ID}
	require.NoError(t, store.CreateBook(ctx, unlinked))

	require.NoError(t, store.CreateBook(ctx, &entities.Book{Name: "Standalone", Author: "Solo"}))

	list, err := store.ListPublishersWithBooks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.Equal(t, "Orbit", list[0].Name)
	assert.Equal(t, []string{linked.ID}, list[0].PublishedBooks)
	assert.ElementsMatch(t, []string{linked.ID, unlinked.ID}, list[0].LiveBookIDs())
	for _, b := range list[0].BooksPublished {
		if b.ID == linked.ID {
			assert.Equal(t, "Leviathan Wakes", b.Name)
			assert.Equal(t, "Corey", b.Author)
			assert.Equal(t, 2011, *b.PublishedYear)
		}
	}

	t.Run("append to unknown publisher", func(t *testing.T) {
		err := store.AppendPublishedBook(ctx, uuid.NewString(), linked.ID)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})

	t.Run("replace published books", func(t *testing.T) {
		require.NoError(t, store.ReplacePublishedBooks(ctx, pub.ID, []string{unlinked.ID, linked.ID}))

		list, err := store.ListPublishersWithBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{unlinked.ID, linked.ID}, list[0].PublishedBooks)
	})
}

func TestStore_ListPublishersWithBooks_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	list, err := store.ListPublishersWithBooks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestStore_Ping(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NoError(t, store.Ping(context.Background()))
}
