package models

import "time"

// StatsSnapshot is implemented by every per-sport season-stats record.
type StatsSnapshot interface {
	GetID() string
	GetAthleteID() string
	GetCreatedAt() time.Time
	// ResetIdentity clears the primary key and timestamp and assigns the owner,
	// so a copy of an existing snapshot can be inserted as a new row.
	ResetIdentity(athleteID string)
}

// StatsSnapshotBase holds the columns shared by all season-stats tables.
// Snapshots are immutable history.
type StatsSnapshotBase struct {
	AppendOnly
	AthleteID string `gorm:"type:uuid;not null;index" json:"athlete_id"`
}

func (b *StatsSnapshotBase) GetID() string           { return b.ID }
func (b *StatsSnapshotBase) GetAthleteID() string    { return b.AthleteID }
func (b *StatsSnapshotBase) GetCreatedAt() time.Time { return b.CreatedAt }

func (b *StatsSnapshotBase) ResetIdentity(athleteID string) {
	b.ID = ""
	b.AthleteID = athleteID
	b.CreatedAt = time.Time{}
}

// FootballStats is an American football season snapshot.
type FootballStats struct {
	StatsSnapshotBase
	GamesPlayed    int `gorm:"not null;default:0" json:"games_played"`
	PassingYards   int `gorm:"not null;default:0" json:"passing_yards"`
	RushingYards   int `gorm:"not null;default:0" json:"rushing_yards"`
	ReceivingYards int `gorm:"not null;default:0" json:"receiving_yards"`
	Touchdowns     int `gorm:"not null;default:0" json:"touchdowns"`
	Tackles        int `gorm:"not null;default:0" json:"tackles"`
	Interceptions  int `gorm:"not null;default:0" json:"interceptions"`
	Sacks          int `gorm:"not null;default:0" json:"sacks"`
}

func (FootballStats) TableName() string { return "football_stats" }

// BasketballStats is a basketball season snapshot.
type BasketballStats struct {
	StatsSnapshotBase
	GamesPlayed          int     `gorm:"not null;default:0" json:"games_played"`
	Points               int     `gorm:"not null;default:0" json:"points"`
	Assists              int     `gorm:"not null;default:0" json:"assists"`
	Rebounds             int     `gorm:"not null;default:0" json:"rebounds"`
	Steals               int     `gorm:"not null;default:0" json:"steals"`
	Blocks               int     `gorm:"not null;default:0" json:"blocks"`
	FieldGoalPercentage  float64 `gorm:"not null;default:0" json:"field_goal_percentage"`
	ThreePointPercentage float64 `gorm:"not null;default:0" json:"three_point_percentage"`
}

func (BasketballStats) TableName() string { return "basketball_stats" }

// BaseballStats is a baseball season snapshot.
type BaseballStats struct {
	StatsSnapshotBase
	GamesPlayed       int     `gorm:"not null;default:0" json:"games_played"`
	BattingAverage    float64 `gorm:"not null;default:0" json:"batting_average"`
	HomeRuns          int     `gorm:"not null;default:0" json:"home_runs"`
	RunsBattedIn      int     `gorm:"not null;default:0" json:"runs_batted_in"`
	StolenBases       int     `gorm:"not null;default:0" json:"stolen_bases"`
	OnBasePercentage  float64 `gorm:"not null;default:0" json:"on_base_percentage"`
	EarnedRunAverage  float64 `gorm:"column:era;not null;default:0" json:"era"`
	StrikeoutsPitched int     `gorm:"not null;default:0" json:"strikeouts_pitched"`
}

func (BaseballStats) TableName() string { return "baseball_stats" }

// SoccerStats is a soccer season snapshot.
type SoccerStats struct {
	StatsSnapshotBase
	MatchesPlayed int     `gorm:"not null;default:0" json:"matches_played"`
	Goals         int     `gorm:"not null;default:0" json:"goals"`
	Assists       int     `gorm:"not null;default:0" json:"assists"`
	ShotsOnTarget int     `gorm:"not null;default:0" json:"shots_on_target"`
	PassAccuracy  float64 `gorm:"not null;default:0" json:"pass_accuracy"`
	CleanSheets   int     `gorm:"not null;default:0" json:"clean_sheets"`
	YellowCards   int     `gorm:"not null;default:0" json:"yellow_cards"`
	RedCards      int     `gorm:"not null;default:0" json:"red_cards"`
}

func (SoccerStats) TableName() string { return "soccer_stats" }

// TennisStats is a tennis season snapshot.
type TennisStats struct {
	StatsSnapshotBase
	MatchesPlayed        int     `gorm:"not null;default:0" json:"matches_played"`
	Wins                 int     `gorm:"not null;default:0" json:"wins"`
	Losses               int     `gorm:"not null;default:0" json:"losses"`
	Aces                 int     `gorm:"not null;default:0" json:"aces"`
	DoubleFaults         int     `gorm:"not null;default:0" json:"double_faults"`
	FirstServePercentage float64 `gorm:"not null;default:0" json:"first_serve_percentage"`
	Ranking              int     `gorm:"not null;default:0" json:"ranking"`
	Titles               int     `gorm:"not null;default:0" json:"titles"`
}

func (TennisStats) TableName() string { return "tennis_stats" }

// GolfStats is a golf season snapshot.
type GolfStats struct {
	StatsSnapshotBase
	RoundsPlayed          int     `gorm:"not null;default:0" json:"rounds_played"`
	ScoringAverage        float64 `gorm:"not null;default:0" json:"scoring_average"`
	DrivingDistance       float64 `gorm:"not null;default:0" json:"driving_distance"`
	FairwaysHitPercentage float64 `gorm:"not null;default:0" json:"fairways_hit_percentage"`
	GreensInRegulation    float64 `gorm:"not null;default:0" json:"greens_in_regulation"`
	PuttsPerRound         float64 `gorm:"not null;default:0" json:"putts_per_round"`
	Wins                  int     `gorm:"not null;default:0" json:"wins"`
	TopTenFinishes        int     `gorm:"not null;default:0" json:"top_ten_finishes"`
}

func (GolfStats) TableName() string { return "golf_stats" }

// SwimmingStats is a swimming season snapshot. Times are in seconds.
type SwimmingStats struct {
	StatsSnapshotBase
	EventsCompeted       int     `gorm:"not null;default:0" json:"events_competed"`
	BestFreestyleTime    float64 `gorm:"not null;default:0" json:"best_freestyle_time"`
	BestButterflyTime    float64 `gorm:"not null;default:0" json:"best_butterfly_time"`
	BestBackstrokeTime   float64 `gorm:"not null;default:0" json:"best_backstroke_time"`
	BestBreaststrokeTime float64 `gorm:"not null;default:0" json:"best_breaststroke_time"`
	Medals               int     `gorm:"not null;default:0" json:"medals"`
	PersonalBests        int     `gorm:"not null;default:0" json:"personal_bests"`
	NationalRanking      int     `gorm:"not null;default:0" json:"national_ranking"`
}

func (SwimmingStats) TableName() string { return "swimming_stats" }

// TrackAndFieldStats is a track-and-field season snapshot. Times are in
// seconds, distances in metres.
type TrackAndFieldStats struct {
	StatsSnapshotBase
	EventsCompeted int     `gorm:"not null;default:0" json:"events_competed"`
	Best100mTime   float64 `gorm:"column:best_100m_time;not null;default:0" json:"best_100m_time"`
	Best200mTime   float64 `gorm:"column:best_200m_time;not null;default:0" json:"best_200m_time"`
	Best400mTime   float64 `gorm:"column:best_400m_time;not null;default:0" json:"best_400m_time"`
	LongJumpBest   float64 `gorm:"not null;default:0" json:"long_jump_best"`
	HighJumpBest   float64 `gorm:"not null;default:0" json:"high_jump_best"`
	Medals         int     `gorm:"not null;default:0" json:"medals"`
	PersonalBests  int     `gorm:"not null;default:0" json:"personal_bests"`
}

func (TrackAndFieldStats) TableName() string { return "track_and_field_stats" }
