package models

import "time"

// GoalPriority ranks a career goal.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// CareerGoal is a long-term objective an athlete tracks through milestones.
// Progress is derived from milestones and never stored.
type CareerGoal struct {
	Base
	AthleteID   string       `gorm:"type:uuid;not null;index" json:"athlete_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `json:"category"`
	Priority    GoalPriority `gorm:"not null;default:'medium'" json:"priority"`
	TargetDate  *time.Time   `json:"target_date,omitempty"`

	// Relationships
	Milestones []Milestone `gorm:"foreignKey:GoalID" json:"milestones"`
}

// Milestone is a step towards a career goal.
type Milestone struct {
	Base
	GoalID      string     `gorm:"type:uuid;not null;index" json:"goal_id"`
	Title       string     `gorm:"not null" json:"title"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	InProgress  bool       `gorm:"not null;default:false" json:"in_progress"`
}
