package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

type createPublisherRequest struct {
	Name           string   `json:"name" binding:"required"`
	Location       string   `json:"location"`
	PublishedBooks []string `json:"publishedBooks"`
}

type PublishersController struct {
	catalog *services.CatalogService
}

func NewPublishersController(catalog *services.CatalogService) *PublishersController {
	return &PublishersController{catalog: catalog}
}

// CreatePublisher stores a publisher as given.
// POST /api/publishers
func (pc *PublishersController) CreatePublisher(c *gin.Context) {
	var req createPublisherRequest
	if !bindJSONBody(c, &req) {
		return
	}

	publisher := &entities.Publisher{
		Name:           req.Name,
		Location:       req.Location,
		PublishedBooks: req.PublishedBooks,
	}
	if err := pc.catalog.CreatePublisher(c.Request.Context(), publisher); err != nil {
		respondStoreError(c, err, "publisher", "create publisher")
		return
	}

	c.JSON(http.StatusCreated, publisher)
}

// ListPublishers returns every publisher with its live booksPublished relation.
// GET /api/publishers
func (pc *PublishersController) ListPublishers(c *gin.Context) {
	publishers, err := pc.catalog.ListPublishers(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list publishers")
		return
	}
	c.JSON(http.StatusOK, publishers)
}
