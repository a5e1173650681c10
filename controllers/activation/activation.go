package activationController

import (
	"propfund/activation"
	"propfund/database"
	"propfund/middleware"
	"propfund/models"

	"github.com/gofiber/fiber/v2"
)

// EvaluateActivation runs the activation gate for the caller. Eligible
// users (and the team they lead) are flipped to active exactly once;
// calling this on an already-active account is a harmless no-op.
func EvaluateActivation(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	gate := activation.NewGate(database.Database.Db)
	result, err := gate.Evaluate(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate activation!", nil)
	}

	if !result.Eligible {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Account is not eligible for activation yet.", result)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account is active!", result)
}

// GetActivationStatus reports the caller's eligibility snapshot without
// applying any transition.
func GetActivationStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var kyc models.UserKYC
	kycVerified := db.Where("user_id = ? AND is_verified = true AND is_deleted = false", userId).
		First(&kyc).Error == nil

	snapshot := fiber.Map{
		"status":               user.Status,
		"registrationFeePaid":  user.RegistrationFeePaid,
		"registrationApproved": user.RegistrationApproved,
		"kycVerified":          kycVerified,
		"leadsTeam":            user.LeadsTeam,
	}

	if user.LeadsTeam {
		var team models.Team
		if err := db.Where("leader_id = ? AND is_deleted = false", userId).First(&team).Error; err == nil {
			snapshot["team"] = fiber.Map{
				"name":        team.Name,
				"memberCount": team.MemberCount,
				"status":      team.Status,
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activation status fetched!", snapshot)
}
