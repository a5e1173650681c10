package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"propfund/config"
	"propfund/models"
	"propfund/security"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Gateway is the security pipeline every inbound request passes before it
// reaches the ledger or activation layers. Checks run in a fixed order and
// the first failure short-circuits; the audit entry is appended before the
// rate-limit and integrity checks so those rejections still leave a trail.
type Gateway struct {
	db             *gorm.DB
	log            *logrus.Logger
	loginLimiter   *RateLimiter
	defaultLimiter *RateLimiter
}

func NewGateway(db *gorm.DB) *Gateway {
	cfg := config.AppConfig
	return &Gateway{
		db:             db,
		log:            logrus.StandardLogger(),
		loginLimiter:   NewRateLimiter(cfg.LoginRateLimit, time.Duration(cfg.LoginRateWindowMin)*time.Minute),
		defaultLimiter: NewRateLimiter(cfg.DefaultRateLimit, time.Duration(cfg.DefaultRateWindowMin)*time.Minute),
	}
}

// Close releases the limiter cleanup goroutines.
func (g *Gateway) Close() {
	g.loginLimiter.Close()
	g.defaultLimiter.Close()
}

// sessionAllowlist are paths exempt from the freshness check: a stale
// session must still be able to log in again.
var sessionAllowlist = map[string]bool{
	"/auth/login":  true,
	"/auth/signup": true,
	"/health":      true,
}

func isStateChanging(method string) bool {
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	}
	return false
}

// classify assigns at most one audit category per request; first match
// wins. Precedence: login, registration, investment, team, admin, api.
// An admin investment request therefore logs only as ADMIN_ACCESS, kept
// for compatibility with the existing audit consumers.
func classify(method, path string) models.SecurityEventType {
	switch {
	case path == "/auth/login":
		return models.EventLoginAttempt
	case path == "/auth/signup":
		return models.EventRegistrationAttempt
	case path == "/wallet/deposit" || path == "/wallet/withdraw":
		return models.EventInvestmentRequest
	case strings.HasPrefix(path, "/team"):
		return models.EventTeamRequest
	case strings.HasPrefix(path, "/admin") || strings.Contains(path, "/admin/"):
		return models.EventAdminAccess
	}
	return models.EventAPIAccess
}

// Handler returns the Fiber middleware running the pipeline.
func (g *Gateway) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg := config.AppConfig
		path := c.Path()
		method := c.Method()

		// 1. Maintenance short-circuit
		settings := models.CurrentSettings(g.db)
		if settings.MaintenanceMode {
			return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Platform is under maintenance!", nil)
		}

		// 2. Feature-flag short-circuits
		if path == "/auth/signup" && !settings.RegistrationEnabled {
			return JsonResponse(c, fiber.StatusForbidden, false, "Registration is currently disabled!", nil)
		}
		if (path == "/wallet/deposit" || path == "/wallet/withdraw") && !settings.InvestmentEnabled {
			return JsonResponse(c, fiber.StatusForbidden, false, "Investments are currently disabled!", nil)
		}
		if strings.HasPrefix(path, "/team") && method == fiber.MethodPost && !settings.TeamCreationEnabled {
			return JsonResponse(c, fiber.StatusForbidden, false, "Team creation is currently disabled!", nil)
		}

		// 3. Session freshness
		var userID uint
		if token := BearerToken(c); token != "" {
			if id, err := ParseJWT(token); err == nil {
				userID = id
				if !sessionAllowlist[path] {
					if expired := g.refreshSession(id); expired {
						return JsonResponse(c, fiber.StatusUnauthorized, false, "Session expired, please log in again!", nil)
					}
				}
			}
		}

		// 4. Audit log: always appended for the matched category, even if
		// a later check rejects the request.
		g.audit(c, classify(method, path), userID)

		// 5. Rate limiting
		sensitive := path == "/auth/login" || path == "/auth/signup" || path == "/auth/password-reset"
		if isStateChanging(method) || sensitive {
			limiter := g.defaultLimiter
			if path == "/auth/login" {
				limiter = g.loginLimiter
			}
			key := c.IP() + "|" + path
			if !limiter.Allow(key) {
				return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests, please try again later!", nil)
			}
		}

		// 6. Request integrity
		if reason := g.integrityViolation(c, cfg); reason != "" {
			g.audit(c, models.EventIntegrityViolation, userID)
			g.log.WithFields(logrus.Fields{"ip": c.IP(), "path": path, "reason": reason}).
				Warn("request integrity violation")
			return JsonResponse(c, fiber.StatusBadRequest, false, "Request rejected!", nil)
		}

		return c.Next()
	}
}

// refreshSession enforces the idle timeout and refreshes the activity
// timestamp as a side effect of every authenticated request. Returns true
// when the session is stale and the user has been logged out.
func (g *Gateway) refreshSession(userID uint) bool {
	var user models.User
	if err := g.db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return false
	}

	// A nil timestamp means no live session: the user either never logged
	// in or was already forced out. Either way the token alone is not
	// enough; a fresh login is required.
	timeout := time.Duration(config.AppConfig.SessionTimeoutMinutes) * time.Minute
	if user.LastActivityAt == nil || time.Since(*user.LastActivityAt) > timeout {
		g.db.Model(&user).Update("last_activity_at", nil)
		return true
	}

	now := time.Now()
	g.db.Model(&user).Update("last_activity_at", now)
	return false
}

func (g *Gateway) audit(c *fiber.Ctx, eventType models.SecurityEventType, userID uint) {
	event := models.SecurityEvent{
		EventType:  eventType,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
		Path:       c.Path(),
		Method:     c.Method(),
		UserID:     userID,
		OccurredAt: time.Now(),
	}
	if err := g.db.Create(&event).Error; err != nil {
		g.log.WithError(err).Error("failed to append audit event")
	}
}

// integrityViolation runs the payload checks and returns a non-empty reason
// on failure.
func (g *Gateway) integrityViolation(c *fiber.Ctx, cfg *config.Config) string {
	ua := c.Get("User-Agent")
	if len(ua) < cfg.MinUserAgentLength {
		return "missing or implausible user agent"
	}

	if int64(c.Request().Header.ContentLength()) > cfg.MaxRequestBodyBytes {
		return "declared content length exceeds limit"
	}

	body := c.Body()
	if len(body) > 0 && strings.Contains(c.Get("Content-Type"), "application/json") {
		var payload interface{}
		if err := json.Unmarshal(body, &payload); err == nil {
			if security.ContainsInjection(payload) {
				return "script injection pattern in payload"
			}
		}
	}
	return ""
}
