package handler

import (
	"context"
	"net/http"

	"district-analytics-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	service AuthService
}

// Service interface for dependency injection
type AuthService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*service.SignupResult, error)
	Login(ctx context.Context, loginID, password string) (*service.LoginResult, error)
	CheckUsername(ctx context.Context, loginID string) (bool, error)
	VerifyBusiness(businessNumber string) (*service.BusinessInfo, error)
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Signup handles POST /auth/signup requests
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

type loginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login requests
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckUsername handles GET /auth/check-username requests
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	loginID := c.Query("login_id")
	if loginID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'login_id'"})
		return
	}

	available, err := h.service.CheckUsername(c.Request.Context(), loginID)
	if err != nil {
		respondError(c, err)
		return
	}

	var message *string
	if !available {
		taken := "login id already taken"
		message = &taken
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "message": message})
}

type verifyBusinessRequest struct {
	BusinessNumber string `json:"businessNumber" binding:"required"`
}

// VerifyBusiness handles POST /auth/verify-business requests
func (h *AuthHandler) VerifyBusiness(c *gin.Context) {
	var req verifyBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.service.VerifyBusiness(req.BusinessNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"verified":     true,
		"businessInfo": info,
	})
}
