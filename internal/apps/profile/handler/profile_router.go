package handler

import "github.com/gin-gonic/gin"

// RegisterProfileRoutes registers the caller's profile routes
func RegisterProfileRoutes(router *gin.RouterGroup, handler *ProfileHandler) {
	profile := router.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PUT("", handler.UpdateProfile)
	}
}
