package models

import "gorm.io/datatypes"

// AuditLog is one privileged action: a purchase review, a goal deletion or a
// recorded investment. Changes holds the action's payload as JSON.
type AuditLog struct {
	Base
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string         `gorm:"not null;index" json:"action"`
	ResourceType string         `gorm:"not null;index:idx_audit_logs_resource" json:"resource_type"`
	ResourceID   *string        `gorm:"type:uuid;index:idx_audit_logs_resource" json:"resource_id,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
}
