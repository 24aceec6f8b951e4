package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s) request_id=%s: %v", context, GetRequestID(c), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondStoreError maps a store error onto the matching status code.
func respondStoreError(c *gin.Context, err error, resource, context string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, database.ErrInvalidID):
		respondBadRequest(c, "invalid reference: "+err.Error())
	case errors.Is(err, database.ErrDuplicateKey):
		c.JSON(http.StatusConflict, ErrorResponse{Error: resource + " already exists"})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Request Binding ---

// bindJSONBody decodes the JSON body into dst. A missing or empty body and a
// body that fails `binding` validation both produce a 400 and return false.
func bindJSONBody(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondBadRequest(c, "request body is missing or empty")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondBadRequest(c, "request body is missing or empty")
			return false
		}
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
