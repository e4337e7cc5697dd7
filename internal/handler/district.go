package handler

import (
	"context"
	"net/http"
	"strconv"

	"district-analytics-api/internal/service"

	"github.com/gin-gonic/gin"
)

// DistrictHandler handles district analysis requests
type DistrictHandler struct {
	service DistrictService
}

// Service interface for dependency injection
type DistrictService interface {
	FindWithinRadius(ctx context.Context, lat, lon, radiusMeters float64) (*service.NearbyResult, error)
	AnalyzeCluster(ctx context.Context, clusterType string) (*service.ClusterAnalysis, error)
}

// NewDistrictHandler creates a new district handler
func NewDistrictHandler(svc DistrictService) *DistrictHandler {
	return &DistrictHandler{service: svc}
}

const defaultRadiusMeters = 2000

// Nearby handles GET /analysis/districts/nearby requests
func (h *DistrictHandler) Nearby(c *gin.Context) {
	latStr := c.Query("latitude")
	lonStr := c.Query("longitude")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'latitude' and 'longitude'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	radius := float64(defaultRadiusMeters)
	if radiusStr := c.Query("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
	}

	result, err := h.service.FindWithinRadius(c.Request.Context(), lat, lon, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Cluster handles GET /analysis/clusters/:clusterType requests
func (h *DistrictHandler) Cluster(c *gin.Context) {
	analysis, err := h.service.AnalyzeCluster(c.Request.Context(), c.Param("clusterType"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
