package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/models"
	"sportfund/internal/services"
)

// CareerGoalHandler handles career goal and milestone requests.
type CareerGoalHandler struct {
	goalService  services.CareerGoalServicer
	auditService services.AuditServicer
}

// NewCareerGoalHandler creates a new CareerGoalHandler.
func NewCareerGoalHandler(goalService services.CareerGoalServicer, auditService services.AuditServicer) *CareerGoalHandler {
	return &CareerGoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Title       string              `json:"title" binding:"required,min=1,max=200"`
	Description string              `json:"description" binding:"max=2000"`
	Category    string              `json:"category" binding:"max=100"`
	Priority    models.GoalPriority `json:"priority" binding:"omitempty,priority"`
	TargetDate  *time.Time          `json:"target_date"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
// Omitted fields are left unchanged.
type UpdateGoalRequest struct {
	Title       *string              `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string              `json:"description" binding:"omitempty,max=2000"`
	Category    *string              `json:"category" binding:"omitempty,max=100"`
	Priority    *models.GoalPriority `json:"priority" binding:"omitempty,priority"`
	TargetDate  *time.Time           `json:"target_date"`
}

// MilestoneRequest represents the request payload for creating or updating a
// milestone. Omitted fields are left unchanged on update.
type MilestoneRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	DueDate     *time.Time `json:"due_date"`
	IsCompleted *bool      `json:"is_completed"`
	InProgress  *bool      `json:"in_progress"`
}

func (r MilestoneRequest) input() services.MilestoneInput {
	return services.MilestoneInput{
		Title:       r.Title,
		DueDate:     r.DueDate,
		IsCompleted: r.IsCompleted,
		InProgress:  r.InProgress,
	}
}

// GetGoals handles listing an athlete's goals with progress.
// @Summary     List career goals
// @Description Get an athlete's career goals with milestone-derived progress
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Athlete ID"
// @Success     200 {object} map[string][]services.GoalProgress "Goals"
// @Failure     400 {object} ErrorResponse "Invalid athlete ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals [get]
func (h *CareerGoalHandler) GetGoals(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetGoals(c.Request.Context(), athleteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetOverview handles the goal summary for an athlete.
// @Summary     Career goal overview
// @Description Get counts and average progress of an athlete's career goals
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Athlete ID"
// @Success     200 {object} services.GoalOverview "Overview"
// @Failure     400 {object} ErrorResponse "Invalid athlete ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals/overview [get]
func (h *CareerGoalHandler) GetOverview(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.goalService.GetOverview(c.Request.Context(), athleteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// CreateGoal handles creating a career goal.
// @Summary     Create career goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Athlete ID"
// @Param       request body CreateGoalRequest true "Goal"
// @Success     201 {object} models.CareerGoal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Athlete not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals [post]
func (h *CareerGoalHandler) CreateGoal(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.GoalInput{
		Title:       &req.Title,
		Description: &req.Description,
		Category:    &req.Category,
		TargetDate:  req.TargetDate,
	}
	if req.Priority != "" {
		input.Priority = &req.Priority
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), athleteID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// UpdateGoal handles editing a career goal.
// @Summary     Update career goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Athlete ID"
// @Param       goalId  path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Changed fields"
// @Success     200 {object} models.CareerGoal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals/{goalId} [put]
func (h *CareerGoalHandler) UpdateGoal(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), athleteID, goalID, services.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles removing a career goal.
// @Summary     Delete career goal
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Athlete ID"
// @Param       goalId path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals/{goalId} [delete]
func (h *CareerGoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.goalService.DeleteGoal(c.Request.Context(), athleteID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrCareerGoalNotFound)
		return
	}

	h.auditService.Record(c.Request.Context(), services.AuditEntry{
		UserID:       userID,
		Action:       services.AuditActionDeleteCareerGoal,
		ResourceType: services.AuditResourceCareerGoal,
		ResourceID:   goalID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]any{"athlete_id": athleteID},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// AddMilestone handles adding a milestone to a goal.
// @Summary     Add milestone
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Athlete ID"
// @Param       goalId  path string           true "Goal ID"
// @Param       request body MilestoneRequest true "Milestone"
// @Success     201 {object} models.Milestone "Milestone created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals/{goalId}/milestones [post]
func (h *CareerGoalHandler) AddMilestone(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.Title == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Milestone title is required"))
		return
	}

	milestone, err := h.goalService.AddMilestone(c.Request.Context(), athleteID, goalID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"milestone": milestone})
}

// UpdateMilestone handles editing a milestone.
// @Summary     Update milestone
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id          path string           true "Athlete ID"
// @Param       goalId      path string           true "Goal ID"
// @Param       milestoneId path string           true "Milestone ID"
// @Param       request     body MilestoneRequest true "Changed fields"
// @Success     200 {object} models.Milestone "Updated milestone"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal or milestone not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /athletes/{id}/goals/{goalId}/milestones/{milestoneId} [put]
func (h *CareerGoalHandler) UpdateMilestone(c *gin.Context) {
	athleteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	goalID, err := parsePathID(c, "goalId")
	if err != nil {
		respondWithError(c, err)
		return
	}
	milestoneID, err := parsePathID(c, "milestoneId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	milestone, err := h.goalService.UpdateMilestone(c.Request.Context(), athleteID, goalID, milestoneID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestone": milestone})
}
