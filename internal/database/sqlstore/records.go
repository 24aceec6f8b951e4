package sqlstore

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

type bookRecord struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Name          string    `gorm:"uniqueIndex;size:512;not null"`
	Author        string    `gorm:"uniqueIndex;size:256;not null"`
	PublishedYear *int
	Tags          []string  `gorm:"serializer:json;type:text"`
	Date          time.Time
	OnSale        *bool
	Price         *float64  `gorm:"index"`
	PublisherID   *string   `gorm:"index;size:36"`
	CreatedAt     time.Time `gorm:"index"`
}

func (bookRecord) TableName() string {
	return "books"
}

// BeforeSave strips non-ASCII characters from the name on every insert and update.
func (r *bookRecord) BeforeSave(tx *gorm.DB) error {
	r.Name = entities.StripNonASCII(r.Name)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return nil
}

type publisherRecord struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Name           string    `gorm:"uniqueIndex;size:256;not null"`
	Location       string    `gorm:"size:256"`
	PublishedBooks []string  `gorm:"serializer:json;type:text"`
	CreatedAt      time.Time `gorm:"index"`
}

func (publisherRecord) TableName() string {
	return "publishers"
}

func newBookRecord(b *entities.Book) *bookRecord {
	rec := &bookRecord{
		ID:            b.ID,
		Name:          b.Name,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Tags:          b.Tags,
		Date:          b.Date,
		OnSale:        b.OnSale,
		Price:         b.Price,
	}
	if b.Publisher != "" {
		publisher := b.Publisher
		rec.PublisherID = &publisher
	}
	return rec
}

func (r *bookRecord) toEntity() *entities.Book {
	b := &entities.Book{
		ID:            r.ID,
		Name:          r.Name,
		Author:        r.Author,
		PublishedYear: r.PublishedYear,
		Tags:          r.Tags,
		Date:          r.Date,
		OnSale:        r.OnSale,
		Price:         r.Price,
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if r.PublisherID != nil {
		b.Publisher = *r.PublisherID
	}
	return b
}

func (r *publisherRecord) toEntity() entities.Publisher {
	books := r.PublishedBooks
	if books == nil {
		books = []string{}
	}
	return entities.Publisher{
		ID:             r.ID,
		Name:           r.Name,
		Location:       r.Location,
		PublishedBooks: books,
	}
}
