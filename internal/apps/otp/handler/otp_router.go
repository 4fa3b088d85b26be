package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterOTPRoutes registers all OTP routes. The group must already require authentication.
func RegisterOTPRoutes(router *gin.RouterGroup, phoneOTPHandler *PhoneOTPHandler) {
	otp := router.Group("/otp")
	{
		phone := otp.Group("/phone")
		{
			phone.POST("", phoneOTPHandler.IssueOTP)
			phone.POST("/verify", phoneOTPHandler.VerifyOTP)
		}
	}
}
