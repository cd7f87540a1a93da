package handlers

import (
	"context"
	"net/http"
	"time"

	"crowdfix/internal/logger"
	"crowdfix/internal/middlewares"
	"crowdfix/internal/models"
	"crowdfix/internal/repositories"
	"crowdfix/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	problemListCacheKey = "problems:list"
	problemListCacheTTL = time.Minute
)

type ProblemHandler struct {
	problemRepo repositories.ProblemRepository
	cache       services.Cache
}

// NewProblemHandler creates a new problem handler. The listing is served
// from cache until the next write.
func NewProblemHandler(problemRepo repositories.ProblemRepository, cache services.Cache) *ProblemHandler {
	return &ProblemHandler{
		problemRepo: problemRepo,
		cache:       cache,
	}
}

func (h *ProblemHandler) GetProblems(c *gin.Context) {
	out, err := services.Remember(c.Request.Context(), h.cache, problemListCacheKey, problemListCacheTTL,
		func(ctx context.Context) ([]problemResponse, error) {
			problems, err := h.problemRepo.GetProblems(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]problemResponse, 0, len(problems))
			for i := range problems {
				out = append(out, newProblemResponse(&problems[i]))
			}
			return out, nil
		})
	if err != nil {
		respondError(c, err, "Failed to retrieve problems")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProblemHandler) GetProblemByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	problem, err := h.problemRepo.GetProblemByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve problem details")
		return
	}

	c.JSON(http.StatusOK, newProblemResponse(problem))
}

func (h *ProblemHandler) CreateProblem(c *gin.Context) {
	var draft models.ProblemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID, _, _ := middlewares.CurrentUser(c)
	id, err := h.problemRepo.CreateProblem(ctx, userID, draft)
	if err != nil {
		respondError(c, err, "Failed to create problem")
		return
	}
	h.invalidate(ctx)

	h.respondProblem(c, http.StatusCreated, id)
}

func (h *ProblemHandler) UpdateProblem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var draft models.ProblemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.problemRepo.GetProblemByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve problem details")
		return
	}
	if !requireOwner(c, existing.UserID) {
		return
	}

	if err := h.problemRepo.UpdateProblem(ctx, id, draft); err != nil {
		respondError(c, err, "Failed to update problem")
		return
	}
	h.invalidate(ctx)

	h.respondProblem(c, http.StatusOK, id)
}

func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.problemRepo.GetProblemByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve problem details")
		return
	}
	if !requireOwner(c, existing.UserID) {
		return
	}

	if err := h.problemRepo.DeleteProblem(ctx, id); err != nil {
		respondError(c, err, "Failed to delete problem")
		return
	}
	h.invalidate(ctx)

	c.Status(http.StatusNoContent)
}

func (h *ProblemHandler) respondProblem(c *gin.Context, status int, id int64) {
	problem, err := h.problemRepo.GetProblemByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve problem details")
		return
	}
	c.JSON(status, newProblemResponse(problem))
}

func (h *ProblemHandler) invalidate(ctx context.Context) {
	if err := h.cache.Delete(ctx, problemListCacheKey); err != nil {
		logger.Log.Warn("Failed to invalidate problem list cache", zap.Error(err))
	}
}

// RegisterRoutes registers the problem handler routes
func (h *ProblemHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	problemGroup := router.Group("/problems", auth)
	{
		problemGroup.GET("", h.GetProblems)
		problemGroup.GET("/:id", h.GetProblemByID)
		problemGroup.POST("", h.CreateProblem)
		problemGroup.PUT("/:id", h.UpdateProblem)
		problemGroup.DELETE("/:id", h.DeleteProblem)
	}
}
