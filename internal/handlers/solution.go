package handlers

import (
	"net/http"

	"crowdfix/internal/logger"
	"crowdfix/internal/middlewares"
	"crowdfix/internal/models"
	"crowdfix/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SolutionHandler struct {
	problemRepo  repositories.ProblemRepository
	solutionRepo repositories.SolutionRepository
}

func NewSolutionHandler(problemRepo repositories.ProblemRepository, solutionRepo repositories.SolutionRepository) *SolutionHandler {
	return &SolutionHandler{
		problemRepo:  problemRepo,
		solutionRepo: solutionRepo,
	}
}

type createSolutionRequest struct {
	Description string `json:"description"`
	// Username is accepted for compatibility; the author is the token's user.
	Username string        `json:"username"`
	Status   models.Status `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *SolutionHandler) GetSolutionsByProblem(c *gin.Context) {
	problemID, ok := parseID(c, "problemId")
	if !ok {
		return
	}

	solutions, err := h.solutionRepo.GetSolutionsByProblem(c.Request.Context(), problemID)
	if err != nil {
		respondError(c, err, "Failed to retrieve solutions")
		return
	}

	out := make([]solutionResponse, 0, len(solutions))
	for i := range solutions {
		out = append(out, newSolutionResponse(&solutions[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SolutionHandler) CreateSolution(c *gin.Context) {
	problemID, ok := parseID(c, "problemId")
	if !ok {
		return
	}
	var req createSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	draft := models.SolutionDraft{Description: req.Description}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.problemRepo.GetProblemByID(ctx, problemID); err != nil {
		respondError(c, err, "Failed to retrieve problem details")
		return
	}

	userID, username, _ := middlewares.CurrentUser(c)
	if req.Username != "" && req.Username != username {
		logger.Log.Warn("Solution username differs from token",
			zap.String("body_username", req.Username),
			zap.String("token_username", username))
	}

	id, err := h.solutionRepo.CreateSolution(ctx, problemID, userID, draft.Description)
	if err != nil {
		respondError(c, err, "Failed to create solution")
		return
	}
	h.respondSolution(c, http.StatusCreated, id)
}

func (h *SolutionHandler) UpdateDescription(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var draft models.SolutionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.solutionRepo.GetSolutionByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve solution")
		return
	}
	if !requireOwner(c, existing.UserID) {
		return
	}

	if err := h.solutionRepo.UpdateDescription(ctx, id, draft.Description); err != nil {
		respondError(c, err, "Failed to update solution")
		return
	}
	h.respondSolution(c, http.StatusOK, id)
}

// UpdateStatus is open to any signed-in user.
func (h *SolutionHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.solutionRepo.GetSolutionByID(ctx, id); err != nil {
		respondError(c, err, "Failed to retrieve solution")
		return
	}
	if err := h.solutionRepo.UpdateStatus(ctx, id, status); err != nil {
		respondError(c, err, "Failed to update solution status")
		return
	}

	userID, _, _ := middlewares.CurrentUser(c)
	logger.Log.Info("Solution status updated",
		zap.Int64("solution_id", id),
		zap.String("status", string(status)),
		zap.Int64("user_id", userID))

	h.respondSolution(c, http.StatusOK, id)
}

func (h *SolutionHandler) DeleteSolution(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.solutionRepo.GetSolutionByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve solution")
		return
	}
	if !requireOwner(c, existing.UserID) {
		return
	}

	if err := h.solutionRepo.DeleteSolution(ctx, id); err != nil {
		respondError(c, err, "Failed to delete solution")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SolutionHandler) respondSolution(c *gin.Context, status int, id int64) {
	solution, err := h.solutionRepo.GetSolutionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve solution")
		return
	}
	c.JSON(status, newSolutionResponse(solution))
}

func (h *SolutionHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	solutionGroup := router.Group("/solutions", auth)
	{
		solutionGroup.GET("/problem/:problemId", h.GetSolutionsByProblem)
		solutionGroup.POST("/problem/:problemId", h.CreateSolution)
		solutionGroup.PUT("/:id/description", h.UpdateDescription)
		solutionGroup.PUT("/:id/status", h.UpdateStatus)
		solutionGroup.DELETE("/:id", h.DeleteSolution)
	}
}
