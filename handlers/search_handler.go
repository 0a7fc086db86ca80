package handlers

import (
	"errors"
	"net/http"

	"devflow/services"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

func (h *SearchHandler) GlobalSearch(c *gin.Context) {
	var req services.GlobalSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.searchService.GlobalSearch(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSearchType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
