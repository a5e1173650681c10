package adminController

import (
	"time"

	"propfund/database"
	"propfund/middleware"
	"propfund/models"
	"propfund/reports"
	"propfund/security"

	"github.com/gofiber/fiber/v2"
)

func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userId := c.Locals("userId").(uint)

	var admin models.User
	err := database.Database.Db.
		Where("id = ? AND is_deleted = false AND role IN ?", userId, []string{"ADMIN", "SUPER-ADMIN"}).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetComplianceReport generates a report for the requested period
// (defaults to the last 24 hours).
func GetComplianceReport(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if v := c.Query("from"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			from = parsed
		}
	}
	if v := c.Query("to"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			to = parsed
		}
	}

	reporter := reports.NewReporter(database.Database.Db)
	report, err := reporter.Generate(from, to)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate report!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Compliance report generated!", report)
}

// ListSecurityEvents pages through the audit trail (Admin only)
func ListSecurityEvents(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	eventType := c.Query("type")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.SecurityEvent{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var total int64
	query.Count(&total)

	var events []models.SecurityEvent
	if err := query.
		Order("occurred_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch events!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Security events fetched!", fiber.Map{
		"events": events,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// UnlockUser clears an account lock (Admin only)
func UnlockUser(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	targetId, err := c.ParamsInt("id")
	if err != nil || targetId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	securityService := security.NewService(database.Database.Db)
	if err := securityService.UnlockAccount(uint(targetId)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unlock account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account unlocked!", nil)
}

// LockUser locks an account with a reason (Admin only)
func LockUser(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	targetId, err := c.ParamsInt("id")
	if err != nil || targetId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Reason == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reason is required!", nil)
	}

	securityService := security.NewService(database.Database.Db)
	if err := securityService.LockAccount(uint(targetId), reqData.Reason); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to lock account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account locked!", nil)
}
