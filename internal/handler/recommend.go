package handler

import (
	"context"
	"net/http"
	"strconv"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/middleware"
	"district-analytics-api/internal/models"
	"district-analytics-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RecommendHandler handles industry recommendation requests
type RecommendHandler struct {
	service RecommendService
	stores  StoreReader
}

// Service interface for dependency injection
type RecommendService interface {
	Recommend(ctx context.Context, targetIndustry string, topN int) (*service.RecommendationResult, error)
}

// StoreReader resolves the caller's own store for the authenticated variant.
type StoreReader interface {
	GetStoreByUserID(ctx context.Context, userID int64) (*models.Store, error)
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(svc RecommendService, stores StoreReader) *RecommendHandler {
	return &RecommendHandler{service: svc, stores: stores}
}

const (
	defaultTopN = 3
	maxTopN     = 10
)

// parseTopN enforces the 1-10 bound at the boundary; the engine itself does
// not validate it.
func parseTopN(c *gin.Context) (int, bool) {
	topN := defaultTopN
	if topNStr := c.Query("top_n"); topNStr != "" {
		parsed, err := strconv.Atoi(topNStr)
		if err != nil || parsed < 1 || parsed > maxTopN {
			respondError(c, apperr.Validation("top_n must be between 1 and 10"))
			return 0, false
		}
		topN = parsed
	}
	return topN, true
}

// ForMe handles GET /recommendations/industries requests. It resolves the
// caller's own store's industry and recommends partners for it.
func (h *RecommendHandler) ForMe(c *gin.Context) {
	topN, ok := parseTopN(c)
	if !ok {
		return
	}

	store, err := h.stores.GetStoreByUserID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if store == nil {
		respondError(c, apperr.NotFound("no store registered"))
		return
	}
	if store.IndustryName == nil {
		respondError(c, apperr.NotFound("store has no industry"))
		return
	}

	result, err := h.service.Recommend(c.Request.Context(), *store.IndustryName, topN)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ByIndustry handles GET /recommendations/by-industry requests. No
// authentication; recommends partners for any industry name.
func (h *RecommendHandler) ByIndustry(c *gin.Context) {
	industryName := c.Query("industry_name")
	if industryName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'industry_name'"})
		return
	}

	topN, ok := parseTopN(c)
	if !ok {
		return
	}

	result, err := h.service.Recommend(c.Request.Context(), industryName, topN)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
