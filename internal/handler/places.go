package handler

import (
	"context"
	"net/http"
	"strconv"

	"district-analytics-api/internal/external"

	"github.com/gin-gonic/gin"
)

// PlacesHandler proxies place-keyword searches to the external provider so
// the registration UI can look up a store before signup.
type PlacesHandler struct {
	client PlacesSearcher
}

// PlacesSearcher is the external place-search collaborator.
type PlacesSearcher interface {
	SearchKeyword(ctx context.Context, query string, lat, lon *float64, radiusM *int) ([]external.Place, error)
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(client PlacesSearcher) *PlacesHandler {
	return &PlacesHandler{client: client}
}

// Search handles GET /places/search requests
func (h *PlacesHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'query'"})
		return
	}

	var lat, lon *float64
	var radius *int

	if latStr, lonStr := c.Query("latitude"), c.Query("longitude"); latStr != "" && lonStr != "" {
		latVal, errLat := strconv.ParseFloat(latStr, 64)
		lonVal, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinate format"})
			return
		}
		lat, lon = &latVal, &lonVal
	}

	if radiusStr := c.Query("radius"); radiusStr != "" {
		radiusVal, err := strconv.Atoi(radiusStr)
		if err != nil || radiusVal <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
		radius = &radiusVal
	}

	places, err := h.client.SearchKeyword(c.Request.Context(), query, lat, lon, radius)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "place search unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": places})
}
