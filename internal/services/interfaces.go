package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"sportfund/internal/models"
	"sportfund/internal/pagination"
	"sportfund/internal/stats"
)

// SportRegistry resolves sport names to snapshot storage.
type SportRegistry interface {
	Resolve(sportName string) (stats.Accessor, error)
	Lookup(sportName string) (stats.Descriptor, bool)
	Descriptors() []stats.Descriptor
}

// AthleteFeedServicer is the athlete activity feed. Append never fails the
// caller; write errors are logged.
type AthleteFeedServicer interface {
	Append(ctx context.Context, athleteID, title, description string)
	ListUpdates(ctx context.Context, athleteID string, page pagination.PageRequest) (*pagination.PageResponse[models.AthleteUpdate], error)
}

// UpsertOutcome reports what a season-stats upsert did.
type UpsertOutcome string

const (
	UpsertCreated   UpsertOutcome = "created"
	UpsertUpdated   UpsertOutcome = "updated"
	UpsertUnchanged UpsertOutcome = "unchanged"
)

// UpsertResult is the snapshot an upsert settled on and how it got there.
type UpsertResult struct {
	Sport    models.Sport         `json:"sport"`
	Outcome  UpsertOutcome        `json:"outcome"`
	Snapshot models.StatsSnapshot `json:"snapshot"`
	Changes  []stats.FieldChange  `json:"changes,omitempty"`
}

// SeasonStatsServicer defines the contract for season-stats snapshots.
type SeasonStatsServicer interface {
	Upsert(ctx context.Context, athleteID, sportName string, fields stats.Fields) (*UpsertResult, error)
	UpdateBackpointer(ctx context.Context, athleteID string, snapshot models.StatsSnapshot) (*models.Athlete, error)
	SubmitStats(ctx context.Context, athleteID, sportName string, fields stats.Fields) (*UpsertResult, error)
	GetCurrentStats(ctx context.Context, athleteID, sportName string) (models.StatsSnapshot, error)
	GetStatsHistory(ctx context.Context, athleteID, sportName string, page pagination.PageRequest) (*pagination.PageResponse[models.StatsSnapshot], error)
	ListSports() []stats.Descriptor
}

// DiscoveryFilter holds optional discovery parameters.
type DiscoveryFilter struct {
	Name      string
	Sport     string
	SortBy    string
	AthleteID string
}

// DiscoveryServicer defines the contract for athlete discovery.
type DiscoveryServicer interface {
	Discover(ctx context.Context, filter DiscoveryFilter) ([]models.Athlete, error)
	GetAthleteProfile(ctx context.Context, athleteID string) (*models.Athlete, error)
}

// GoalProgress is a career goal with its derived progress.
type GoalProgress struct {
	models.CareerGoal
	Progress    int  `json:"progress"`
	IsCompleted bool `json:"is_completed"`
	InProgress  bool `json:"in_progress"`
}

// GoalOverview summarises an athlete's career goals.
type GoalOverview struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	InProgress  int `json:"inProgress"`
	AvgProgress int `json:"avg_progress"`
}

// GoalInput carries the writable fields of a career goal. Nil fields are
// left untouched on update.
type GoalInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *models.GoalPriority
	TargetDate  *time.Time
}

// MilestoneInput carries the writable fields of a milestone.
type MilestoneInput struct {
	Title       *string
	DueDate     *time.Time
	IsCompleted *bool
	InProgress  *bool
}

// CareerGoalServicer defines the contract for career goals and milestones.
type CareerGoalServicer interface {
	GetGoals(ctx context.Context, athleteID string) ([]GoalProgress, error)
	GetOverview(ctx context.Context, athleteID string) (*GoalOverview, error)
	CreateGoal(ctx context.Context, athleteID string, input GoalInput) (*models.CareerGoal, error)
	UpdateGoal(ctx context.Context, athleteID, goalID string, input GoalInput) (*models.CareerGoal, error)
	DeleteGoal(ctx context.Context, athleteID, goalID string) (bool, error)
	AddMilestone(ctx context.Context, athleteID, goalID string, input MilestoneInput) (*models.Milestone, error)
	UpdateMilestone(ctx context.Context, athleteID, goalID, milestoneID string, input MilestoneInput) (*models.Milestone, error)
}

// PurchaseOverview sums an athlete's purchase requests by state.
type PurchaseOverview struct {
	TotalRequestedAmount     decimal.Decimal `json:"totalRequestedAmount"`
	TotalApprovedAmount      decimal.Decimal `json:"totalApprovedAmount"`
	TotalPendingReviewAmount decimal.Decimal `json:"totalPendingReviewAmount"`
}

// BulkUpdateResult reports which requests a bulk status change touched.
type BulkUpdateResult struct {
	Updated  int                      `json:"updated"`
	Requests []models.PurchaseRequest `json:"requests"`
}

// PurchaseRequestInput carries a new purchase request.
type PurchaseRequestInput struct {
	Category      string
	Amount        decimal.Decimal
	Vendor        string
	Justification string
	Urgency       models.Urgency
}

// PurchaseRequestServicer defines the contract for purchase requests.
type PurchaseRequestServicer interface {
	CreateRequest(ctx context.Context, athleteID string, input PurchaseRequestInput) (*models.PurchaseRequest, error)
	ListRequests(ctx context.Context, athleteID string, status *models.PurchaseStatus, page pagination.PageRequest) (*pagination.PageResponse[models.PurchaseRequest], error)
	GetOverview(ctx context.Context, athleteID string) (*PurchaseOverview, error)
	UpdateStatus(ctx context.Context, requestID string, status models.PurchaseStatus, note, actorID string) (*models.PurchaseRequest, error)
	BulkUpdateStatus(ctx context.Context, requestIDs []string, status models.PurchaseStatus, note, actorID string) (*BulkUpdateResult, error)
	CountPending(ctx context.Context, athleteID *string) (int64, error)
}

// InvestmentServicer defines the contract for recording investments.
type InvestmentServicer interface {
	RecordInvestment(ctx context.Context, investorID, athleteID string, amount decimal.Decimal, note string) (*models.Investment, error)
	GetAthleteInvestments(ctx context.Context, athleteID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
}

// AuditEntry describes one privileged action.
type AuditEntry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      map[string]any
}

// AuditFilter narrows the audit log listing. Empty fields match everything.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
}

// AuditServicer records privileged actions and lists them for admins.
// Record never fails the caller.
type AuditServicer interface {
	Record(ctx context.Context, entry AuditEntry)
	List(ctx context.Context, filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
