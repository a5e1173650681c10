package adminController

import (
	"time"

	"propfund/database"
	"propfund/middleware"
	"propfund/models"

	"github.com/gofiber/fiber/v2"
)

// VerifyKYC marks a pending submission as verified (Admin only)
func VerifyKYC(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	kycId, err := c.ParamsInt("id")
	if err != nil || kycId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid KYC id!", nil)
	}

	now := time.Now()
	res := database.Database.Db.Model(&models.UserKYC{}).
		Where("id = ? AND is_deleted = false", kycId).
		Updates(map[string]interface{}{
			"is_verified": true,
			"verified_at": now,
		})
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify KYC!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "KYC submission not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "KYC verified!", nil)
}
