package models

import (
	"time"

	"gorm.io/gorm"
)

// BankDetails model: withdrawal destinations
type BankDetails struct {
	gorm.Model
	BankName    string     `gorm:"default:''"`
	AccountNo   string     `gorm:"default:''"` // stored encrypted
	HolderName  string     `gorm:"default:''"`
	IFSCCode    string     `gorm:"default:''"`
	BranchName  string     `gorm:"default:''"`
	AccountType string     `gorm:"type:text;default:'savings'"`
	UserID      uint       `gorm:"foreignKey:UserID"`
	IsVerified  bool       `gorm:"default:false" json:"isVerified"`
	VerifiedAt  *time.Time `json:"verifiedAt"`
	IsDeleted   bool       `gorm:"default:false"`
}
