package authController

import (
	"log"
	"time"

	"propfund/database"
	"propfund/middleware"
	"propfund/models"
	"propfund/security"
	authValidator "propfund/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Signup registers a new user. The wallet is created in the same database
// transaction so no user ever exists without one.
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := security.HashPassword(reqData.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Mobile:   reqData.Mobile,
		Password: hashedPassword,
		Status:   models.UserStatusInactive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		wallet := models.Wallet{
			UserID: newUser.ID,
			Status: models.WalletStatusActive,
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		return SeedPermissions(tx, newUser.Role, newUser.ID)
	})
	if err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Clean Response
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// SeedPermissions seeds default permissions for a given role and user ID
func SeedPermissions(db *gorm.DB, role string, userID uint) error {
	var permissionRecords []models.Permission
	for _, p := range defaultPermissions(role) {
		permissionRecords = append(permissionRecords, models.Permission{
			UserID:     userID,
			Role:       role,
			Permission: p,
		})
	}
	return db.Create(&permissionRecords).Error
}

func defaultPermissions(role string) []string {
	permissions := []string{
		"login",
		"deposit",
		"withdraw",
		"view-profile",
		"transaction-list",
	}
	if role == "ADMIN" || role == "SUPER-ADMIN" {
		permissions = append(permissions, "approve-transactions", "view-reports")
	}
	return permissions
}

// Login authenticates a user. Failed attempts feed the suspicious-activity
// detector, which locks the account automatically past the threshold.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	securityService := security.NewService(db)

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.IsLocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account is locked. Contact support.", nil)
	}

	// Stale failure counters reset after the tracking window
	if user.LastFailedLogin != nil && time.Since(*user.LastFailedLogin) > 15*time.Minute {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		db.Save(&user)
	}

	if !security.VerifyPassword(user.Password, reqData.Password) {
		user.FailedLoginAttempts++
		now := time.Now()
		user.LastFailedLogin = &now
		if err := db.Save(&user).Error; err != nil {
			log.Printf("Error recording failed login: %v", err)
		}

		if _, err := securityService.RecordFailedLogin(user.ID, c.IP(), c.Get("User-Agent")); err != nil {
			log.Printf("Error running suspicious-activity detection: %v", err)
		}

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Reset counters after a successful login
	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.LastLogin = now
	user.LastActivityAt = &now
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating login state: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// ChangePassword updates the caller's password after verifying the current one
func ChangePassword(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedChangePassword").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	if !security.VerifyPassword(user.Password, reqData.CurrentPassword) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := security.HashPassword(reqData.NewPassword)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = hashedPassword
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully!", nil)
}
