package entities

// Publisher owns books. PublishedBooks is the stored back-reference list and is
// only appended to when a book is created; it can drift from the live data.
type Publisher struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Location       string   `json:"location,omitempty"`
	PublishedBooks []string `json:"publishedBooks"`
}

// PublisherWithBooks is a publisher together with the books that currently
// reference it, computed at read time.
type PublisherWithBooks struct {
	Publisher
	BooksPublished []PublishedBook `json:"booksPublished"`
}

// LiveBookIDs returns the ids of the computed reverse relation in order.
func (p PublisherWithBooks) LiveBookIDs() []string {
	ids := make([]string, 0, len(p.BooksPublished))
	for _, b := range p.BooksPublished {
		ids = append(ids, b.ID)
	}
	return ids
}
