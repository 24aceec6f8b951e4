package entities

import "time"

// CheapBookPriceLimit is the exclusive upper bound on price for the default book listing.
const CheapBookPriceLimit = 25.0

// Book is a catalog entry. Publisher holds the id of the owning publisher, if any.
type Book struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Author        string    `json:"author"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	Tags          []string  `json:"tags"`
	Date          time.Time `json:"date"`
	OnSale        *bool     `json:"onSale,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
}

// BeforeSave normalizes the book right before it is persisted.
// Both stores call it on every insert and replace.
func (b *Book) BeforeSave() {
	b.Name = StripNonASCII(b.Name)
	if b.Tags == nil {
		b.Tags = []string{}
	}
}

// BookSummary is the projection returned by the price-filtered listing.
type BookSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Price *float64 `json:"price,omitempty"`
}

// PublishedBook is the projection of a book embedded in a publisher listing.
type PublishedBook struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Author        string `json:"author"`
	PublishedYear *int   `json:"publishedYear,omitempty"`
}
