package handlers

import (
	"context"
	"net/http"
	"os"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register creates a staff account. Only admins reach it.
func Register(c *gin.Context) {
	var input models.RegisterInput

	// 1. Validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid input", err.Error())
		return
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to process password", nil)
		return
	}

	// 3. Save
	user := models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		RoleID:       input.RoleID,
		Phone:        input.Phone,
		IsActive:     true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "email already registered", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "user registered", user)
}

func Login(c *gin.Context) {
	var input models.LoginInput

	// 1. Validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid input", nil)
		return
	}

	// 2. Find user by email
	var user models.User
	if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.APIResponse(c, http.StatusUnauthorized, false, "wrong email or password", nil)
		return
	}

	// 3. Check password
	if !utils.CheckPassword(input.Password, user.PasswordHash) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "wrong email or password", nil)
		return
	}
	if !user.IsActive {
		utils.APIResponse(c, http.StatusForbidden, false, "account disabled", nil)
		return
	}

	// device token for the notification digest
	rememberDevice(user, input.FCMToken, func(token string) error {
		return config.DB.Model(&user).Update("fcm_token", token).Error
	})

	// 4. Issue JWT
	token, err := utils.GenerateToken(user.ID, user.RoleID)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to generate token", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"role_id":   user.RoleID,
			"email":     user.Email,
		},
	})
}

// rememberDevice saves a changed device token. A failed save is logged and
// does not fail the login.
func rememberDevice(user models.User, token string, save func(string) error) {
	if token == "" || token == user.FCMToken {
		return
	}
	if err := save(token); err != nil {
		config.LogError(config.GetLogger(), "handlers", "Login", "update fcm token", user.ID, err)
	}
}

// EnsureAdmin creates the first admin from ADMIN_EMAIL and ADMIN_PASSWORD
// when the users table is empty.
func EnsureAdmin(ctx context.Context, db *gorm.DB) error {
	email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		RoleID:       models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	config.GetLogger().WithField("email", email).Info("initial admin created")
	return nil
}
