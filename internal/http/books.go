package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

type createBookRequest struct {
	Name          string     `json:"name" binding:"required"`
	Author        string     `json:"author" binding:"required"`
	PublishedYear *int       `json:"publishedYear"`
	Tags          []string   `json:"tags"`
	Date          *time.Time `json:"date"`
	OnSale        *bool      `json:"onSale"`
	Price         *float64   `json:"price"`
	Publisher     string     `json:"publisher"`
}

func (r createBookRequest) toEntity() *entities.Book {
	book := &entities.Book{
		Name:          r.Name,
		Author:        r.Author,
		PublishedYear: r.PublishedYear,
		Tags:          r.Tags,
		OnSale:        r.OnSale,
		Price:         r.Price,
		Publisher:     r.Publisher,
	}
	if r.Date != nil {
		book.Date = *r.Date
	}
	return book
}

type updateBookRequest struct {
	Price *float64 `json:"price"`
	Tags  []string `json:"tags"`
}

type BooksController struct {
	catalog *services.CatalogService
}

func NewBooksController(catalog *services.CatalogService) *BooksController {
	return &BooksController{catalog: catalog}
}

// CreateBook stores a book and links it to its publisher.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if !bindJSONBody(c, &req) {
		return
	}

	book := req.toEntity()
	if err := bc.catalog.CreateBook(c.Request.Context(), book); err != nil {
		respondStoreError(c, err, "book", "create book")
		return
	}

	c.JSON(http.StatusCreated, book)
}

// ListBooks returns books cheaper than the listing limit, cheapest first.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.catalog.ListCheapBooks(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// SearchBooks finds books by exact name and author.
// GET /api/books/search?name=...&author=...
func (bc *BooksController) SearchBooks(c *gin.Context) {
	name := c.Query("name")
	author := c.Query("author")

	if name == "" || author == "" {
		respondBadRequest(c, "name and author query parameters are required")
		return
	}

	books, err := bc.catalog.FindBooks(c.Request.Context(), name, author)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// UpdateBook overwrites price and tags.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if !bindJSONBody(c, &req) {
		return
	}

	book, err := bc.catalog.UpdateBook(c.Request.Context(), c.Param("id"), services.BookUpdate{
		Price: req.Price,
		Tags:  req.Tags,
	})
	if err != nil {
		respondStoreError(c, err, "book", "update book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book. Responds with null when nothing matched.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	book, err := bc.catalog.DeleteBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	// A nil book encodes as null.
	c.JSON(http.StatusOK, book)
}
