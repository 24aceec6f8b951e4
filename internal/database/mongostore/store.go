// Package mongostore implements database.Store on MongoDB.
//
// Books and publishers live in the "books" and "publishers" collections with
// ObjectID identities. The booksPublished reverse relation is computed with a
// $lookup on books.publisher, so it never depends on the stored
// publishedBooks array.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// DefaultDatabaseName is used when neither the config nor the URL names a database.
const DefaultDatabaseName = "bookshelf"

type Store struct {
	client     *mongo.Client
	books      *mongo.Collection
	publishers *mongo.Collection
}

// Connect dials MongoDB, verifies the connection and ensures indexes.
// dbName may be empty, in which case the database from the URL path is used.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration) (*Store, error) {
	name, err := ResolveDatabaseName(uri, dbName)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	store := New(client, client.Database(name))
	if err := store.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("Mongo store connected, database %q", name)
	return store, nil
}

// New builds a store over an existing client and database handle.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:     client,
		books:      db.Collection(booksCollection),
		publishers: db.Collection(publishersCollection),
	}
}

// ResolveDatabaseName picks the explicit name, then the one in the URL, then the default.
func ResolveDatabaseName(uri, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongo url: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return DefaultDatabaseName, nil
}

// EnsureIndexes creates the unique and lookup indexes. Safe to call repeatedly.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.books.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "author", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "publisher", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create book indexes: %w", err)
	}

	_, err = s.publishers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create publisher indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateBook(ctx context.Context, book *entities.Book) error {
	book.BeforeSave()

	doc, err := newBookDocument(book)
	if err != nil {
		return fmt.Errorf("publisher %q: %w", book.Publisher, database.ErrInvalidID)
	}
	doc.ID = primitive.NewObjectID()

	if _, err := s.books.InsertOne(ctx, doc); err != nil {
		return translateError("insert book", err)
	}
	*book = *doc.toEntity()
	return nil
}

func (s *Store) SaveBook(ctx context.Context, book *entities.Book) error {
	oid, err := primitive.ObjectIDFromHex(book.ID)
	if err != nil {
		return database.ErrNotFound
	}

	book.BeforeSave()
	doc, err := newBookDocument(book)
	if err != nil {
		return fmt.Errorf("publisher %q: %w", book.Publisher, database.ErrInvalidID)
	}
	doc.ID = oid

	result, err := s.books.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return translateError("replace book", err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	*book = *doc.toEntity()
	return nil
}

func (s *Store) GetBookByID(ctx context.Context, id string) (*entities.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, database.ErrNotFound
	}

	var doc bookDocument
	if err := s.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError("find book", err)
	}
	return doc.toEntity(), nil
}

func (s *Store) FindBooksByNameAndAuthor(ctx context.Context, name, author string) ([]entities.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := s.books.Find(ctx, bson.M{"name": name, "author": author}, opts)
	if err != nil {
		return nil, translateError("find books", err)
	}
	defer cursor.Close(ctx)

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	books := make([]entities.Book, 0, len(docs))
	for i := range docs {
		books = append(books, *docs[i].toEntity())
	}
	return books, nil
}

func (s *Store) ListBooksCheaperThan(ctx context.Context, limit float64) ([]entities.BookSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "price", Value: 1}}).
		SetProjection(bson.M{"name": 1, "tags": 1, "price": 1})

	cursor, err := s.books.Find(ctx, bson.M{"price": bson.M{"$lt": limit}}, opts)
	if err != nil {
		return nil, translateError("list books", err)
	}
	defer cursor.Close(ctx)

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}

	summaries := make([]entities.BookSummary, 0, len(docs))
	for _, doc := range docs {
		tags := doc.Tags
		if tags == nil {
			tags = []string{}
		}
		summaries = append(summaries, entities.BookSummary{
			ID:    doc.ID.Hex(),
			Name:  doc.Name,
			Tags:  tags,
			Price: doc.Price,
		})
	}
	return summaries, nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) (*entities.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc bookDocument
	err = s.books.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError("delete book", err)
	}
	return doc.toEntity(), nil
}

func (s *Store) CreatePublisher(ctx context.Context, publisher *entities.Publisher) error {
	books, err := objectIDs(publisher.PublishedBooks)
	if err != nil {
		return fmt.Errorf("published books: %w", database.ErrInvalidID)
	}

	doc := &publisherDocument{
		ID:             primitive.NewObjectID(),
		Name:           publisher.Name,
		Location:       publisher.Location,
		PublishedBooks: books,
	}
	if _, err := s.publishers.InsertOne(ctx, doc); err != nil {
		return translateError("insert publisher", err)
	}
	*publisher = doc.toEntity()
	return nil
}

// AppendPublishedBook issues a single $push, so concurrent appends do not lose entries.
func (s *Store) AppendPublishedBook(ctx context.Context, publisherID, bookID string) error {
	pid, err := primitive.ObjectIDFromHex(publisherID)
	if err != nil {
		return database.ErrNotFound
	}
	bid, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return fmt.Errorf("book %q: %w", bookID, database.ErrInvalidID)
	}

	result, err := s.publishers.UpdateOne(ctx,
		bson.M{"_id": pid},
		bson.M{"$push": bson.M{"publishedBooks": bid}},
	)
	if err != nil {
		return translateError("append published book", err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *Store) ReplacePublishedBooks(ctx context.Context, publisherID string, bookIDs []string) error {
	pid, err := primitive.ObjectIDFromHex(publisherID)
	if err != nil {
		return database.ErrNotFound
	}
	books, err := objectIDs(bookIDs)
	if err != nil {
		return fmt.Errorf("published books: %w", database.ErrInvalidID)
	}

	result, err := s.publishers.UpdateOne(ctx,
		bson.M{"_id": pid},
		bson.M{"$set": bson.M{"publishedBooks": books}},
	)
	if err != nil {
		return translateError("replace published books", err)
	}
	if result.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *Store) ListPublishersWithBooks(ctx context.Context) ([]entities.PublisherWithBooks, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: s.books.Name()},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "publisher"},
			{Key: "as", Value: "booksPublished"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "location", Value: 1},
			{Key: "publishedBooks", Value: 1},
			{Key: "booksPublished._id", Value: 1},
			{Key: "booksPublished.name", Value: 1},
			{Key: "booksPublished.author", Value: 1},
			{Key: "booksPublished.publishedYear", Value: 1},
		}}},
	}

	cursor, err := s.publishers.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, translateError("list publishers", err)
	}
	defer cursor.Close(ctx)

	var docs []publisherWithBooksDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode publishers: %w", err)
	}

	result := make([]entities.PublisherWithBooks, 0, len(docs))
	for _, doc := range docs {
		live := make([]entities.PublishedBook, 0, len(doc.BooksPublished))
		for _, b := range doc.BooksPublished {
			live = append(live, entities.PublishedBook{
				ID:            b.ID.Hex(),
				Name:          b.Name,
				Author:        b.Author,
				PublishedYear: b.PublishedYear,
			})
		}
		result = append(result, entities.PublisherWithBooks{
			Publisher:      doc.Publisher.toEntity(),
			BooksPublished: live,
		})
	}
	return result, nil
}

func translateError(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return database.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, database.ErrDuplicateKey)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
