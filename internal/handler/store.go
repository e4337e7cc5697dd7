package handler

import (
	"context"
	"net/http"
	"strconv"

	"district-analytics-api/internal/middleware"
	"district-analytics-api/internal/models"
	"district-analytics-api/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreHandler handles the caller's own store projections and updates
type StoreHandler struct {
	service StoreService
}

// Service interface for dependency injection
type StoreService interface {
	MyDistrict(ctx context.Context, userID int64) (*service.MyDistrictOut, error)
	MyIndustry(ctx context.Context, userID int64) (*service.MyIndustryOut, error)
	Update(ctx context.Context, userID, storeID int64, patch service.StoreUpdate) (*models.Store, error)
	MyDistrictAnalysis(ctx context.Context, userID int64) (*service.DistrictAnalysis, error)
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(svc StoreService) *StoreHandler {
	return &StoreHandler{service: svc}
}

// MyDistrict handles GET /stores/me/district requests
func (h *StoreHandler) MyDistrict(c *gin.Context) {
	out, err := h.service.MyDistrict(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// MyIndustry handles GET /stores/me/industry requests
func (h *StoreHandler) MyIndustry(c *gin.Context) {
	out, err := h.service.MyIndustry(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PATCH /stores/:id requests
func (h *StoreHandler) Update(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	var patch service.StoreUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := h.service.Update(c.Request.Context(), middleware.UserID(c), storeID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

// MyDistrictAnalysis handles GET /analysis/my-district requests
func (h *StoreHandler) MyDistrictAnalysis(c *gin.Context) {
	analysis, err := h.service.MyDistrictAnalysis(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
