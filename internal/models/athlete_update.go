package models

// AthleteUpdate is an entry in an athlete's public activity feed: stats
// changes, goal edits, purchase reviews and new investments.
type AthleteUpdate struct {
	AppendOnly
	AthleteID   string `gorm:"type:uuid;not null;index" json:"athlete_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
}
