package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType classifies audit-log entries. A request is assigned at
// most one category; precedence lives in the gateway.
type SecurityEventType string

const (
	EventLoginAttempt        SecurityEventType = "LOGIN_ATTEMPT"
	EventLoginFailed         SecurityEventType = "LOGIN_FAILED"
	EventRegistrationAttempt SecurityEventType = "REGISTRATION_ATTEMPT"
	EventInvestmentRequest   SecurityEventType = "INVESTMENT_REQUEST"
	EventTeamRequest         SecurityEventType = "TEAM_REQUEST"
	EventAdminAccess         SecurityEventType = "ADMIN_ACCESS"
	EventAPIAccess           SecurityEventType = "API_ACCESS"
	EventIntegrityViolation  SecurityEventType = "INTEGRITY_VIOLATION"
	EventAccountLocked       SecurityEventType = "ACCOUNT_LOCKED"
)

// SecurityEvent is an append-only audit record. Rows are never mutated or
// deleted here; retention is an external concern.
type SecurityEvent struct {
	gorm.Model
	EventType  SecurityEventType `gorm:"type:varchar(50);not null;index" json:"eventType"`
	IPAddress  string            `gorm:"type:varchar(45);index" json:"ipAddress"`
	UserAgent  string            `gorm:"type:varchar(255)" json:"userAgent"`
	Path       string            `gorm:"type:varchar(255)" json:"path"`
	Method     string            `gorm:"type:varchar(10)" json:"method"`
	UserID     uint              `gorm:"default:0;index" json:"userId"` // 0 = anonymous
	Metadata   datatypes.JSON    `json:"metadata"`
	OccurredAt time.Time         `gorm:"not null;index" json:"occurredAt"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}
