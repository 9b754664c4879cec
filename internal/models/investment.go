package models

import "github.com/shopspring/decimal"

// Investment records an investor's commitment to an athlete. Settlement happens
// outside this system.
type Investment struct {
	Base
	InvestorID string          `gorm:"type:uuid;not null;index" json:"investor_id"`
	AthleteID  string          `gorm:"type:uuid;not null;index" json:"athlete_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Note       string          `json:"note,omitempty"`

	// Relationships
	Investor User `gorm:"foreignKey:InvestorID" json:"investor,omitempty"`
}
