package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CatalogService holds the little logic that sits between the HTTP
// controllers and the store: default values, the publisher back-reference
// on book creation, and the reconciliation of that back-reference.
type CatalogService struct {
	store CatalogStore
	now   func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store: store,
		now:   time.Now,
	}
}

// CreateBook persists the book and then appends its id to the owning
// publisher's publishedBooks. The two writes are independent: an unknown
// publisher is skipped silently, and any other append failure is logged
// without failing the request because the book already exists.
func (s *CatalogService) CreateBook(ctx context.Context, book *entities.Book) error {
	if book.Date.IsZero() {
		book.Date = s.now().UTC()
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return err
	}

	if book.Publisher == "" {
		return nil
	}

	err := s.store.AppendPublishedBook(ctx, book.Publisher, book.ID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		log.Printf("Failed to add book %s to publisher %s: %v", book.ID, book.Publisher, err)
	}
	return nil
}

// FindBooks returns books matching both name and author exactly, cheapest first.
func (s *CatalogService) FindBooks(ctx context.Context, name, author string) ([]entities.Book, error) {
	return s.store.FindBooksByNameAndAuthor(ctx, name, author)
}

// ListCheapBooks returns books priced strictly under CheapBookPriceLimit.
func (s *CatalogService) ListCheapBooks(ctx context.Context) ([]entities.BookSummary, error) {
	return s.store.ListBooksCheaperThan(ctx, entities.CheapBookPriceLimit)
}

// UpdateBook overwrites price and tags of an existing book and saves it
// through the regular save path. Every other field is left as stored.
func (s *CatalogService) UpdateBook(ctx context.Context, id string, update BookUpdate) (*entities.Book, error) {
	book, err := s.store.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.Price = update.Price
	book.Tags = update.Tags

	if err := s.store.SaveBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes the book. The former publisher's publishedBooks keeps
// the stale id until the next reconciliation.
func (s *CatalogService) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	return s.store.DeleteBook(ctx, id)
}

func (s *CatalogService) CreatePublisher(ctx context.Context, publisher *entities.Publisher) error {
	if publisher.PublishedBooks == nil {
		publisher.PublishedBooks = []string{}
	}
	return s.store.CreatePublisher(ctx, publisher)
}

func (s *CatalogService) ListPublishers(ctx context.Context) ([]entities.PublisherWithBooks, error) {
	return s.store.ListPublishersWithBooks(ctx)
}

// RebuildBackReferences rewrites every publisher's publishedBooks that does
// not hold exactly the ids of the books currently referencing it.
func (s *CatalogService) RebuildBackReferences(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	publishers, err := s.store.ListPublishersWithBooks(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list publishers: %w", err)
	}

	for _, p := range publishers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.PublishersChecked++

		live := p.LiveBookIDs()
		if sameIDs(p.PublishedBooks, live) {
			continue
		}

		if err := s.store.ReplacePublishedBooks(ctx, p.ID, live); err != nil {
			return result, fmt.Errorf("failed to rebuild publisher %s: %w", p.ID, err)
		}
		log.Printf("Rebuilt publishedBooks for publisher %s (%q): %d stored, %d live",
			p.ID, p.Name, len(p.PublishedBooks), len(live))
		result.PublishersUpdated++
	}

	return result, nil
}

// sameIDs compares two id lists as multisets.
func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
