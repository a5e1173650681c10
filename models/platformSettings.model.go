package models

import (
	"gorm.io/gorm"
)

// PlatformSettings holds the global operational flags. The gateway reads
// one snapshot per request instead of consulting ambient globals.
type PlatformSettings struct {
	gorm.Model
	MaintenanceMode     bool `gorm:"default:false"`
	RegistrationEnabled bool `gorm:"default:true"`
	InvestmentEnabled   bool `gorm:"default:true"`
	TeamCreationEnabled bool `gorm:"default:true"`
	IsDeleted           bool `gorm:"default:false"`
}

// CurrentSettings returns the latest settings row, or permissive defaults
// when none has been seeded yet.
func CurrentSettings(db *gorm.DB) PlatformSettings {
	var s PlatformSettings
	if err := db.Where("is_deleted = false").Order("id DESC").First(&s).Error; err != nil {
		return PlatformSettings{
			RegistrationEnabled: true,
			InvestmentEnabled:   true,
			TeamCreationEnabled: true,
		}
	}
	return s
}
