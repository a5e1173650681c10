package models

import (
	"time"

	"gorm.io/gorm"
)

// UserKYC holds the verification state machine only. Document storage is an
// external collaborator's concern.
type UserKYC struct {
	gorm.Model
	UserID         uint       `gorm:"not null;index"`
	Country        string     `gorm:"default:''"`
	DocumentType   string     `gorm:"default:''"` // PAN, AADHAR, PASSPORT
	DocumentNumber string     `gorm:"default:''"` // stored encrypted
	IsVerified     bool       `gorm:"default:false"`
	VerifiedAt     *time.Time `json:"verifiedAt"`
	IsDeleted      bool       `gorm:"default:false"`
}
