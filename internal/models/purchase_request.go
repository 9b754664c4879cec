package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus is the review state of a purchase request.
type PurchaseStatus string

const (
	PurchaseStatusPending     PurchaseStatus = "pending"
	PurchaseStatusUnderReview PurchaseStatus = "under_review"
	PurchaseStatusApproved    PurchaseStatus = "approved"
	PurchaseStatusRejected    PurchaseStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusUnderReview, PurchaseStatusApproved, PurchaseStatusRejected:
		return true
	}
	return false
}

// Urgency is how soon the athlete needs a purchase.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// PurchaseRequest asks an admin to release funds for a discretionary purchase.
type PurchaseRequest struct {
	Base
	AthleteID     string          `gorm:"type:uuid;not null;index" json:"athlete_id"`
	Category      string          `gorm:"not null" json:"category"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Vendor        string          `json:"vendor"`
	Justification string          `gorm:"type:text" json:"justification"`
	Urgency       Urgency         `gorm:"not null;default:'medium'" json:"urgency"`
	Status        PurchaseStatus  `gorm:"not null;default:'pending';index" json:"status"`
	ReviewedOn    *time.Time      `json:"reviewed_on,omitempty"`
	AdminNote     string          `gorm:"type:text" json:"admin_note,omitempty"`
	ApprovedBy    *string         `gorm:"type:uuid" json:"approved_by,omitempty"`
}
