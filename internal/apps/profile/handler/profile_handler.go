package handler

import (
	"errors"
	"net/http"

	"codekick-backend/internal/apps/profile/models"
	"codekick-backend/internal/apps/profile/service"
	"codekick-backend/internal/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileHandler handles HTTP requests for the caller's profile
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler creates a new instance of ProfileHandler
func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	owner := middleware.OwnerID(c)
	if owner == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), owner)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrProfileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	owner := middleware.OwnerID(c)
	if owner == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), owner, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrEmptyName) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
