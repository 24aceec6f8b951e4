package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	booksCollection      = "books"
	publishersCollection = "publishers"
)

type bookDocument struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Name          string              `bson:"name"`
	Author        string              `bson:"author"`
	PublishedYear *int                `bson:"publishedYear,omitempty"`
	Tags          []string            `bson:"tags"`
	Date          time.Time           `bson:"date"`
	OnSale        *bool               `bson:"onSale,omitempty"`
	Price         *float64            `bson:"price,omitempty"`
	Publisher     *primitive.ObjectID `bson:"publisher,omitempty"`
}

type publisherDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	Name           string               `bson:"name"`
	Location       string               `bson:"location,omitempty"`
	PublishedBooks []primitive.ObjectID `bson:"publishedBooks"`
}

type publisherWithBooksDocument struct {
	Publisher      publisherDocument `bson:",inline"`
	BooksPublished []bookDocument    `bson:"booksPublished"`
}

func newBookDocument(b *entities.Book) (*bookDocument, error) {
	doc := &bookDocument{
		Name:          b.Name,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Tags:          b.Tags,
		Date:          b.Date,
		OnSale:        b.OnSale,
		Price:         b.Price,
	}
	if b.Publisher != "" {
		oid, err := primitive.ObjectIDFromHex(b.Publisher)
		if err != nil {
			return nil, err
		}
		doc.Publisher = &oid
	}
	return doc, nil
}

func (d *bookDocument) toEntity() *entities.Book {
	b := &entities.Book{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Author:        d.Author,
		PublishedYear: d.PublishedYear,
		Tags:          d.Tags,
		Date:          d.Date,
		OnSale:        d.OnSale,
		Price:         d.Price,
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if d.Publisher != nil {
		b.Publisher = d.Publisher.Hex()
	}
	return b
}

func (d *publisherDocument) toEntity() entities.Publisher {
	return entities.Publisher{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Location:       d.Location,
		PublishedBooks: hexIDs(d.PublishedBooks),
	}
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}
