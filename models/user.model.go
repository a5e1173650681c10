package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus defines the activation state of a user
type UserStatus string

const (
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusActive   UserStatus = "ACTIVE"
)

type User struct {
	gorm.Model
	Name     string `gorm:"default:''"`
	Email    string `gorm:"unique;not null"`
	Mobile   string `gorm:"default:''"`
	Role     string `gorm:"default:'USER'"` // USER, ADMIN, SUPER-ADMIN
	Password string `gorm:"not null"`

	Status               UserStatus `gorm:"type:varchar(20);default:'INACTIVE'"`
	RegistrationFeePaid  float64    `gorm:"default:0"` // amount paid toward the activation fee
	RegistrationApproved bool       `gorm:"default:false"`
	KycID                uint       `gorm:"default:0"` // latest KYC submission, 0 when none
	TeamID               uint       `gorm:"default:0;index"` // 0 when not on a team
	LeadsTeam            bool       `gorm:"default:false"`

	FailedLoginAttempts int        `gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"last_failed_login"`
	IsLocked            bool       `gorm:"default:false"`
	LockedReason        string     `gorm:"default:''"`
	LockedUntil         *time.Time `json:"locked_until"`

	LastLogin      time.Time  `gorm:"default:NULL"`
	LastActivityAt *time.Time `json:"last_activity_at"` // refreshed by the gateway on every request
	IsDeleted      bool       `gorm:"default:false"`
}
