package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekalavya-cmd/studbud-backend/internal/services"
	"github.com/ekalavya-cmd/studbud-backend/internal/suggest"
	"github.com/ekalavya-cmd/studbud-backend/internal/types"
)

// DefaultUserID keys cached suggestions for requests that carry no user.
// The single-user deployments never sent one.
const DefaultUserID = "demouser"

type SuggestionHandler struct {
	suggestions services.SuggestionService
}

func NewSuggestionHandler(suggestions services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

type suggestionRequest struct {
	UserID       string            `json:"userId"`
	Tasks        *[]types.Task     `json:"tasks"`
	StudyHabits  *types.StudyStats `json:"studyHabits"`
	CustomPrompt string            `json:"customPrompt"`
}

// Suggest resolves one suggestion request. tasks and studyHabits are
// required but may be empty; their dates are canonicalized before any
// cache-key or mode decision is made.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	if req.Tasks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tasks must be an array"})
		return
	}
	if req.StudyHabits == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studyHabits must be an object"})
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	tasks := *req.Tasks
	habits := *req.StudyHabits
	types.NormalizeTasks(tasks)
	habits.Normalize()

	text, err := h.suggestions.Suggest(c.Request.Context(), userID, suggest.Request{
		Tasks:        tasks,
		StudyHabits:  habits,
		CustomPrompt: req.CustomPrompt,
	})
	if err != nil {
		respondError(c, "Failed to generate suggestion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": text})
}
