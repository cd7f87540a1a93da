package handlers

import (
	"net/http"
	"strings"

	"crowdfix/internal/logger"
	"crowdfix/internal/middlewares"
	"crowdfix/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VoteHandler struct {
	solutionRepo repositories.SolutionRepository
	voteRepo     repositories.VoteRepository
}

func NewVoteHandler(solutionRepo repositories.SolutionRepository, voteRepo repositories.VoteRepository) *VoteHandler {
	return &VoteHandler{
		solutionRepo: solutionRepo,
		voteRepo:     voteRepo,
	}
}

// Vote toggles the caller's vote. The response carries no body; clients
// re-read the solution for the new counts.
func (h *VoteHandler) Vote(c *gin.Context) {
	solutionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	voteType := strings.ToUpper(c.Query("voteType"))
	if voteType != "UPVOTE" && voteType != "DOWNVOTE" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteType must be UPVOTE or DOWNVOTE"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.solutionRepo.GetSolutionByID(ctx, solutionID); err != nil {
		respondError(c, err, "Failed to retrieve solution")
		return
	}

	userID, _, _ := middlewares.CurrentUser(c)
	outcome, err := h.voteRepo.ToggleVote(ctx, userID, solutionID, voteType)
	if err != nil {
		respondError(c, err, "Failed to record vote")
		return
	}

	logger.Log.Debug("Vote toggled",
		zap.Int64("solution_id", solutionID),
		zap.Int64("user_id", userID),
		zap.String("vote_type", voteType),
		zap.String("outcome", string(outcome)))

	c.Status(http.StatusOK)
}

func (h *VoteHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	router.POST("/votes/solution/:id", auth, h.Vote)
}
