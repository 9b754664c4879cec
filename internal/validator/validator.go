// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sportfund/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("sport", validateSport)
	_ = v.RegisterValidation("purchase_status", validatePurchaseStatus)
	_ = v.RegisterValidation("priority", validatePriority)
	_ = v.RegisterValidation("urgency", validateUrgency)
}

func validateSport(fl validator.FieldLevel) bool {
	_, ok := models.ParseSport(fl.Field().String())
	return ok
}

func validatePurchaseStatus(fl validator.FieldLevel) bool {
	return models.PurchaseStatus(fl.Field().String()).Valid()
}

func validatePriority(fl validator.FieldLevel) bool {
	switch models.GoalPriority(fl.Field().String()) {
	case models.GoalPriorityLow, models.GoalPriorityMedium, models.GoalPriorityHigh:
		return true
	}
	return false
}

func validateUrgency(fl validator.FieldLevel) bool {
	switch models.Urgency(fl.Field().String()) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
		return true
	}
	return false
}
