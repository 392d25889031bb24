package handler

import (
	"strconv"

	"github.com/ferrigb/sistema-nota/internal/presentation/http/middleware"
	"github.com/ferrigb/sistema-nota/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// parseID parses a UUID path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	return parseUUID(c.Param(name))
}

func parseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	return id, err == nil
}

// paginationFromQuery returns nil when the client did not ask for a page
func paginationFromQuery(c *gin.Context) *pagination.PaginationParams {
	if c.Query("page") == "" && c.Query("per_page") == "" {
		return nil
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(pagination.DefaultPerPage)))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}
