package models

import (
	"gorm.io/gorm"
)

// TeamStatus defines the activation state of a team
type TeamStatus string

const (
	TeamStatusInactive TeamStatus = "INACTIVE"
	TeamStatusActive   TeamStatus = "ACTIVE"
)

type Team struct {
	gorm.Model
	Name        string     `gorm:"not null" json:"name"`
	LeaderID    uint       `gorm:"not null;index" json:"leaderId"`
	MemberCount int        `gorm:"default:0" json:"memberCount"`
	Status      TeamStatus `gorm:"type:varchar(20);default:'INACTIVE'" json:"status"`
	IsDeleted   bool       `gorm:"default:false" json:"isDeleted"`
}

func (Team) TableName() string {
	return "teams"
}
