package models

import (
	"math"

	"gorm.io/gorm"
)

// FeeType defines how a payment method charges its fee
type FeeType string

const (
	FeeTypePercentage FeeType = "PERCENTAGE"
	FeeTypeFixed      FeeType = "FIXED"
)

// PaymentMethod is immutable catalog data, read-only to the ledger
type PaymentMethod struct {
	gorm.Model
	Code      string  `gorm:"unique;not null" json:"code"`
	Name      string  `gorm:"default:''" json:"name"`
	FeeType   FeeType `gorm:"type:varchar(20);not null" json:"feeType"`
	FeeValue  float64 `gorm:"not null;default:0" json:"feeValue"`
	MinAmount float64 `gorm:"not null;default:0" json:"minAmount"`
	IsActive  bool    `gorm:"default:true" json:"isActive"`
	IsDeleted bool    `gorm:"default:false" json:"isDeleted"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// CalculateFee computes the fee for a gross amount. Percentage fees round
// half-up to two decimal places; fixed fees never exceed the amount itself.
func (m *PaymentMethod) CalculateFee(amount float64) float64 {
	switch m.FeeType {
	case FeeTypePercentage:
		return math.Round(amount*m.FeeValue) / 100
	case FeeTypeFixed:
		if m.FeeValue > amount {
			return amount
		}
		return m.FeeValue
	}
	return 0
}
