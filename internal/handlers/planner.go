package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ekalavya-cmd/studbud-backend/internal/dates"
	"github.com/ekalavya-cmd/studbud-backend/internal/planner"
	"github.com/ekalavya-cmd/studbud-backend/internal/services"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

// PlannerHandler exposes the individual task/hours/theme transitions. Each
// route applies exactly one planner operation and returns the updated
// document, so clients that prefer granular calls over full-document saves
// never have to reimplement the rules locally.
type PlannerHandler struct {
	userData services.UserDataService
}

func NewPlannerHandler(userData services.UserDataService) *PlannerHandler {
	return &PlannerHandler{userData: userData}
}

type addTaskRequest struct {
	Title    string  `json:"title" binding:"required"`
	DueDate  string  `json:"dueDate" binding:"required"`
	Priority string  `json:"priority" binding:"required"`
	Subject  string  `json:"subject"`
	Hours    float64 `json:"hours"`
}

func (h *PlannerHandler) AddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	due, err := dates.Parse(req.DueDate)
	if err != nil {
		respondError(c, "Invalid due date", fmt.Errorf("%w: %v", planner.ErrInvalidInput, err))
		return
	}
	profile, task, err := h.userData.AddTask(c.Request.Context(), c.Param("userId"),
		req.Title, due, types.Priority(req.Priority), req.Subject, req.Hours)
	if err != nil {
		respondError(c, "Failed to add task", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task, "profile": profile})
}

func (h *PlannerHandler) DeleteTask(c *gin.Context) {
	taskID, err := parseTaskID(c)
	if err != nil {
		respondError(c, "Invalid task id", err)
		return
	}
	profile, outcome, err := h.userData.DeleteTask(c.Request.Context(), c.Param("userId"), taskID)
	if err != nil {
		respondError(c, "Failed to delete task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "pointsDelta": outcome.PointsDelta})
}

func (h *PlannerHandler) ToggleTask(c *gin.Context) {
	taskID, err := parseTaskID(c)
	if err != nil {
		respondError(c, "Invalid task id", err)
		return
	}
	profile, outcome, err := h.userData.ToggleTask(c.Request.Context(), c.Param("userId"), taskID)
	if err != nil {
		respondError(c, "Failed to toggle task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":     profile,
		"pointsDelta": outcome.PointsDelta,
		"awards":      outcome.Awards,
	})
}

type studyHoursRequest struct {
	Hours float64 `json:"hours"`
	Date  string  `json:"date"`
}

func (h *PlannerHandler) LogStudyHours(c *gin.Context) {
	var req studyHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	profile, outcome, err := h.userData.LogStudyHours(c.Request.Context(), c.Param("userId"), req.Hours)
	if err != nil {
		respondError(c, "Failed to log study hours", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":     profile,
		"pointsDelta": outcome.PointsDelta,
		"awards":      outcome.Awards,
	})
}

func (h *PlannerHandler) DeductStudyHours(c *gin.Context) {
	var req studyHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	day, err := dates.Parse(req.Date)
	if err != nil {
		respondError(c, "Invalid date", fmt.Errorf("%w: %v", planner.ErrInvalidInput, err))
		return
	}
	profile, err := h.userData.DeductStudyHours(c.Request.Context(), c.Param("userId"), req.Hours, day)
	if err != nil {
		respondError(c, "Failed to deduct study hours", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *PlannerHandler) RedeemTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	profile, err := h.userData.RedeemTheme(c.Request.Context(), c.Param("userId"), req.Theme)
	if err != nil {
		respondError(c, "Failed to redeem theme", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *PlannerHandler) SetCurrentTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	profile, err := h.userData.SetCurrentTheme(c.Request.Context(), c.Param("userId"), req.Theme)
	if err != nil {
		respondError(c, "Failed to set theme", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func parseTaskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: task id must be an integer", planner.ErrInvalidInput)
	}
	return id, nil
}
