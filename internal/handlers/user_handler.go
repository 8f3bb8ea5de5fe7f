package handlers

import (
	"net/http"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UpdateFCMTokenInput struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// GetUserProfile returns the logged in user.
func GetUserProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.APIResponse(c, http.StatusUnauthorized, false, "unauthorized", nil)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "user not found", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "profile", gin.H{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"phone":     user.Phone,
		"role_id":   user.RoleID,
	})
}

// UpdateFCMToken registers the device that receives the notification digest.
func UpdateFCMToken(c *gin.Context) {
	var input UpdateFCMTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid input", err.Error())
		return
	}

	userID := c.GetUint64("userID")
	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Update("fcm_token", input.FCMToken).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save token", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "token saved", nil)
}

func GetUsers(c *gin.Context) {
	role, ok := queryID(c, "role_id")
	if !ok {
		return
	}

	var users []models.User
	query := config.DB.Order("full_name asc")
	if role != 0 {
		query = query.Where("role_id = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to load users", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "users", users)
}
