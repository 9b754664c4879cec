package models

import "github.com/shopspring/decimal"

// Athlete is the investable profile of a user competing in a primary sport.
type Athlete struct {
	Base
	UserID             string          `gorm:"type:uuid;not null;index" json:"user_id"`
	PrimarySport       string          `gorm:"not null;index" json:"primary_sport"`
	Position           string          `json:"position,omitempty"`
	Bio                string          `gorm:"type:text" json:"bio,omitempty"`
	YearsOfExperience  int             `gorm:"not null;default:0" json:"years_of_experience"`
	TotalFunding       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"total_funding"`
	MinInvestment      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"min_investment"`
	InvestmentDuration int             `gorm:"not null;default:0" json:"investment_duration"` // months

	// Current season-stats snapshot per sport
	FootballStatsID      *string `gorm:"type:uuid" json:"football_stats_id,omitempty"`
	BasketballStatsID    *string `gorm:"type:uuid" json:"basketball_stats_id,omitempty"`
	BaseballStatsID      *string `gorm:"type:uuid" json:"baseball_stats_id,omitempty"`
	SoccerStatsID        *string `gorm:"type:uuid" json:"soccer_stats_id,omitempty"`
	TennisStatsID        *string `gorm:"type:uuid" json:"tennis_stats_id,omitempty"`
	GolfStatsID          *string `gorm:"type:uuid" json:"golf_stats_id,omitempty"`
	SwimmingStatsID      *string `gorm:"type:uuid" json:"swimming_stats_id,omitempty"`
	TrackAndFieldStatsID *string `gorm:"type:uuid" json:"track_and_field_stats_id,omitempty"`

	// Populated at query time from investments
	TotalInvestors       int64   `gorm:"-" json:"total_investors"`
	TotalInvestedAmount  float64 `gorm:"-" json:"total_invested_amount"`
	InvestmentPercentage string  `gorm:"-" json:"investment_percentage,omitempty"`

	// Relationships
	User              User              `gorm:"foreignKey:UserID" json:"user"`
	FundingGoal       *FundingGoal      `gorm:"foreignKey:AthleteID" json:"funding_goal,omitempty"`
	SocialMedia       *SocialMedia      `gorm:"foreignKey:AthleteID" json:"social_media,omitempty"`
	Coach             *Coach            `gorm:"foreignKey:AthleteID" json:"coach,omitempty"`
	CareerGoals       []CareerGoal      `gorm:"foreignKey:AthleteID" json:"career_goals,omitempty"`
	InvestmentPitches []InvestmentPitch `gorm:"foreignKey:AthleteID" json:"investment_pitches,omitempty"`
	RecentUpdates     []AthleteUpdate   `gorm:"foreignKey:AthleteID" json:"recent_updates,omitempty"`

	FootballStats      *FootballStats      `gorm:"foreignKey:FootballStatsID" json:"football_stats,omitempty"`
	BasketballStats    *BasketballStats    `gorm:"foreignKey:BasketballStatsID" json:"basketball_stats,omitempty"`
	BaseballStats      *BaseballStats      `gorm:"foreignKey:BaseballStatsID" json:"baseball_stats,omitempty"`
	SoccerStats        *SoccerStats        `gorm:"foreignKey:SoccerStatsID" json:"soccer_stats,omitempty"`
	TennisStats        *TennisStats        `gorm:"foreignKey:TennisStatsID" json:"tennis_stats,omitempty"`
	GolfStats          *GolfStats          `gorm:"foreignKey:GolfStatsID" json:"golf_stats,omitempty"`
	SwimmingStats      *SwimmingStats      `gorm:"foreignKey:SwimmingStatsID" json:"swimming_stats,omitempty"`
	TrackAndFieldStats *TrackAndFieldStats `gorm:"foreignKey:TrackAndFieldStatsID" json:"track_and_field_stats,omitempty"`
}

// CurrentStatsID returns the backpointer for the given sport.
func (a *Athlete) CurrentStatsID(sport Sport) *string {
	switch sport {
	case SportFootball:
		return a.FootballStatsID
	case SportBasketball:
		return a.BasketballStatsID
	case SportBaseball:
		return a.BaseballStatsID
	case SportSoccer:
		return a.SoccerStatsID
	case SportTennis:
		return a.TennisStatsID
	case SportGolf:
		return a.GolfStatsID
	case SportSwimming:
		return a.SwimmingStatsID
	case SportTrackAndField:
		return a.TrackAndFieldStatsID
	}
	return nil
}

// FundingGoal describes what the athlete is raising money for.
type FundingGoal struct {
	Base
	AthleteID    string          `gorm:"type:uuid;not null;uniqueIndex" json:"athlete_id"`
	Title        string          `gorm:"not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	TargetAmount decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"target_amount"`
}

// SocialMedia holds an athlete's public handles and audience size.
type SocialMedia struct {
	Base
	AthleteID     string `gorm:"type:uuid;not null;uniqueIndex" json:"athlete_id"`
	Instagram     string `json:"instagram,omitempty"`
	Twitter       string `json:"twitter,omitempty"`
	TikTok        string `json:"tiktok,omitempty"`
	YouTube       string `json:"youtube,omitempty"`
	FollowerCount int64  `gorm:"not null;default:0" json:"follower_count"`
}

// TableName keeps the table name singular; "social_media" is already plural.
func (SocialMedia) TableName() string { return "social_media" }

// Coach is the athlete's current coach or trainer.
type Coach struct {
	Base
	AthleteID string `gorm:"type:uuid;not null;uniqueIndex" json:"athlete_id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Team      string `json:"team,omitempty"`
}

// InvestmentPitch is a short pitch shown to prospective investors.
type InvestmentPitch struct {
	Base
	AthleteID string `gorm:"type:uuid;not null;index" json:"athlete_id"`
	Title     string `gorm:"not null" json:"title"`
	Summary   string `gorm:"type:text" json:"summary"`
	VideoURL  string `json:"video_url,omitempty"`
}
