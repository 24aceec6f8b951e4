package database

import (
	"context"
	"errors"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when a reference is not a well-formed id for the backend.
	ErrInvalidID = errors.New("invalid id")
	// ErrDuplicateKey is returned when a unique field (book name/author, publisher name) collides.
	ErrDuplicateKey = errors.New("duplicate key")
)

// BookStore persists books. Implementations call Book.BeforeSave on every write.
type BookStore interface {
	CreateBook(ctx context.Context, book *entities.Book) error
	// SaveBook replaces the stored book with the same id. ErrNotFound if it is gone.
	SaveBook(ctx context.Context, book *entities.Book) error
	GetBookByID(ctx context.Context, id string) (*entities.Book, error)
	FindBooksByNameAndAuthor(ctx context.Context, name, author string) ([]entities.Book, error)
	// ListBooksCheaperThan returns books with price strictly below limit, cheapest first.
	ListBooksCheaperThan(ctx context.Context, limit float64) ([]entities.BookSummary, error)
	// DeleteBook returns the deleted book, or nil without error when nothing matched.
	DeleteBook(ctx context.Context, id string) (*entities.Book, error)
}

// PublisherStore persists publishers and their stored back-reference list.
type PublisherStore interface {
	CreatePublisher(ctx context.Context, publisher *entities.Publisher) error
	// AppendPublishedBook pushes bookID onto the publisher's publishedBooks.
	// ErrNotFound if the publisher does not exist.
	AppendPublishedBook(ctx context.Context, publisherID, bookID string) error
	// ReplacePublishedBooks overwrites the publisher's publishedBooks.
	ReplacePublishedBooks(ctx context.Context, publisherID string, bookIDs []string) error
	// ListPublishersWithBooks returns all publishers with the live reverse relation attached.
	ListPublishersWithBooks(ctx context.Context) ([]entities.PublisherWithBooks, error)
}

// Store is a complete backend: both collections plus connection lifecycle.
type Store interface {
	BookStore
	PublisherStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
