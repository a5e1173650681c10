package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ComplianceReport is a periodic aggregate over ledger and audit data
type ComplianceReport struct {
	gorm.Model
	PeriodStart time.Time `gorm:"not null;index" json:"periodStart"`
	PeriodEnd   time.Time `gorm:"not null" json:"periodEnd"`

	DepositCount    int64   `json:"depositCount"`
	DepositGross    float64 `json:"depositGross"`
	DepositFees     float64 `json:"depositFees"`
	WithdrawalCount int64   `json:"withdrawalCount"`
	WithdrawalGross float64 `json:"withdrawalGross"`

	PendingCount  int64   `json:"pendingCount"`
	PendingAmount float64 `json:"pendingAmount"`
	RejectedCount int64   `json:"rejectedCount"`

	LockedAccounts int64          `json:"lockedAccounts"`
	EventCounts    datatypes.JSON `json:"eventCounts"` // security-event counts by type

	GeneratedAt time.Time `gorm:"not null" json:"generatedAt"`
}

func (ComplianceReport) TableName() string {
	return "compliance_reports"
}
