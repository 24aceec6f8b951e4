// Package sqlstore implements database.Store on top of GORM and SQLite.
//
// It is the embedded backend: no server to run, one file on disk. Tags and
// publishedBooks are kept as JSON columns so the row shape mirrors the
// documents stored by the Mongo backend.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Store handles all book and publisher operations against SQLite.
type Store struct {
	db *gorm.DB
}

// Option tweaks the GORM configuration used by New.
type Option func(*gorm.Config)

// WithLogLevel overrides the GORM logger level (default logger.Warn).
func WithLogLevel(level logger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = logger.Default.LogMode(level)
	}
}

// New opens (or creates) the SQLite database at path and migrates the schema.
func New(path string, opts ...Option) (*Store, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&bookRecord{}, &publisherRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("SQLite store initialized at %s", path)

	return &Store{db: db}, nil
}

// NewFromDB wraps an already opened and migrated GORM handle.
func NewFromDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateBook inserts the book, assigning an id when none is set.
func (s *Store) CreateBook(ctx context.Context, book *entities.Book) error {
	if book.Publisher != "" && !validID(book.Publisher) {
		return fmt.Errorf("publisher %q: %w", book.Publisher, database.ErrInvalidID)
	}
	if book.ID == "" {
		book.ID = uuid.NewString()
	}

	rec := newBookRecord(book)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translateError("create book", err)
	}
	*book = *rec.toEntity()
	return nil
}

// SaveBook replaces every field of an existing book.
func (s *Store) SaveBook(ctx context.Context, book *entities.Book) error {
	if !validID(book.ID) {
		return database.ErrNotFound
	}
	if book.Publisher != "" && !validID(book.Publisher) {
		return fmt.Errorf("publisher %q: %w", book.Publisher, database.ErrInvalidID)
	}

	rec := newBookRecord(book)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing bookRecord
		if err := tx.Select("id", "created_at").First(&existing, "id = ?", book.ID).Error; err != nil {
			return err
		}
		rec.CreatedAt = existing.CreatedAt
		return tx.Save(rec).Error
	})
	if err != nil {
		return translateError("save book", err)
	}
	*book = *rec.toEntity()
	return nil
}

func (s *Store) GetBookByID(ctx context.Context, id string) (*entities.Book, error) {
	if !validID(id) {
		return nil, database.ErrNotFound
	}
	var rec bookRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateError("get book", err)
	}
	return rec.toEntity(), nil
}

func (s *Store) FindBooksByNameAndAuthor(ctx context.Context, name, author string) ([]entities.Book, error) {
	var recs []bookRecord
	err := s.db.WithContext(ctx).
		Where("name = ? AND author = ?", name, author).
		Order("price ASC").
		Find(&recs).Error
	if err != nil {
		return nil, translateError("find books", err)
	}

	books := make([]entities.Book, 0, len(recs))
	for i := range recs {
		books = append(books, *recs[i].toEntity())
	}
	return books, nil
}

func (s *Store) ListBooksCheaperThan(ctx context.Context, limit float64) ([]entities.BookSummary, error) {
	var recs []bookRecord
	err := s.db.WithContext(ctx).
		Select("id", "name", "tags", "price").
		Where("price < ?", limit).
		Order("price ASC").
		Find(&recs).Error
	if err != nil {
		return nil, translateError("list books", err)
	}

	summaries := make([]entities.BookSummary, 0, len(recs))
	for _, rec := range recs {
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		summaries = append(summaries, entities.BookSummary{
			ID:    rec.ID,
			Name:  rec.Name,
			Tags:  tags,
			Price: rec.Price,
		})
	}
	return summaries, nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	if !validID(id) {
		return nil, nil
	}

	var rec bookRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&bookRecord{}, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError("delete book", err)
	}
	return rec.toEntity(), nil
}

func (s *Store) CreatePublisher(ctx context.Context, publisher *entities.Publisher) error {
	for _, bookID := range publisher.PublishedBooks {
		if !validID(bookID) {
			return fmt.Errorf("published book %q: %w", bookID, database.ErrInvalidID)
		}
	}
	if publisher.ID == "" {
		publisher.ID = uuid.NewString()
	}

	rec := &publisherRecord{
		ID:             publisher.ID,
		Name:           publisher.Name,
		Location:       publisher.Location,
		PublishedBooks: publisher.PublishedBooks,
	}
	if rec.PublishedBooks == nil {
		rec.PublishedBooks = []string{}
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translateError("create publisher", err)
	}
	*publisher = rec.toEntity()
	return nil
}

func (s *Store) AppendPublishedBook(ctx context.Context, publisherID, bookID string) error {
	if !validID(publisherID) {
		return database.ErrNotFound
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec publisherRecord
		if err := tx.First(&rec, "id = ?", publisherID).Error; err != nil {
			return err
		}
		rec.PublishedBooks = append(rec.PublishedBooks, bookID)
		return tx.Save(&rec).Error
	})
	if err != nil {
		return translateError("append published book", err)
	}
	return nil
}

func (s *Store) ReplacePublishedBooks(ctx context.Context, publisherID string, bookIDs []string) error {
	if !validID(publisherID) {
		return database.ErrNotFound
	}
	if bookIDs == nil {
		bookIDs = []string{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec publisherRecord
		if err := tx.First(&rec, "id = ?", publisherID).Error; err != nil {
			return err
		}
		rec.PublishedBooks = bookIDs
		return tx.Save(&rec).Error
	})
	if err != nil {
		return translateError("replace published books", err)
	}
	return nil
}

// ListPublishersWithBooks loads all publishers, then the books that reference
// any of them in a single query, and attaches each book to its owner.
func (s *Store) ListPublishersWithBooks(ctx context.Context) ([]entities.PublisherWithBooks, error) {
	db := s.db.WithContext(ctx)

	var pubs []publisherRecord
	if err := db.Order("created_at ASC").Find(&pubs).Error; err != nil {
		return nil, translateError("list publishers", err)
	}

	result := make([]entities.PublisherWithBooks, 0, len(pubs))
	if len(pubs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(pubs))
	for _, p := range pubs {
		ids = append(ids, p.ID)
	}

	var books []bookRecord
	err := db.Select("id", "name", "author", "published_year", "publisher_id").
		Where("publisher_id IN ?", ids).
		Order("created_at ASC").
		Find(&books).Error
	if err != nil {
		return nil, translateError("list published books", err)
	}

	byPublisher := make(map[string][]entities.PublishedBook, len(pubs))
	for _, b := range books {
		if b.PublisherID == nil {
			continue
		}
		byPublisher[*b.PublisherID] = append(byPublisher[*b.PublisherID], entities.PublishedBook{
			ID:            b.ID,
			Name:          b.Name,
			Author:        b.Author,
			PublishedYear: b.PublishedYear,
		})
	}

	for i := range pubs {
		live := byPublisher[pubs[i].ID]
		if live == nil {
			live = []entities.PublishedBook{}
		}
		result = append(result, entities.PublisherWithBooks{
			Publisher:      pubs[i].toEntity(),
			BooksPublished: live,
		})
	}
	return result, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func translateError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return database.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, database.ErrDuplicateKey)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
