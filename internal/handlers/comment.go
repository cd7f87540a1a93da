package handlers

import (
	"net/http"

	"crowdfix/internal/middlewares"
	"crowdfix/internal/models"
	"crowdfix/internal/repositories"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	solutionRepo repositories.SolutionRepository
	commentRepo  repositories.CommentRepository
}

func NewCommentHandler(solutionRepo repositories.SolutionRepository, commentRepo repositories.CommentRepository) *CommentHandler {
	return &CommentHandler{
		solutionRepo: solutionRepo,
		commentRepo:  commentRepo,
	}
}

func (h *CommentHandler) GetCommentsBySolution(c *gin.Context) {
	solutionID, ok := parseID(c, "solutionId")
	if !ok {
		return
	}

	comments, err := h.commentRepo.GetCommentsBySolution(c.Request.Context(), solutionID)
	if err != nil {
		respondError(c, err, "Failed to retrieve comments")
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	solutionID, ok := parseID(c, "solutionId")
	if !ok {
		return
	}
	draft, ok := bindComment(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.solutionRepo.GetSolutionByID(ctx, solutionID); err != nil {
		respondError(c, err, "Failed to retrieve solution")
		return
	}

	userID, _, _ := middlewares.CurrentUser(c)
	id, err := h.commentRepo.CreateComment(ctx, solutionID, userID, draft.Content)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}
	h.respondComment(c, http.StatusCreated, id)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	draft, ok := bindComment(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve comment")
		return
	}
	if !requireOwner(c, existing.UserID) {
		return
	}

	if err := h.commentRepo.UpdateComment(ctx, id, draft.Content); err != nil {
		respondError(c, err, "Failed to update comment")
		return
	}
	h.respondComment(c, http.StatusOK, id)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	existing, err := h.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve comment")
		return
	}
	if !requireOwner(c, existing.UserID) {
		return
	}

	if err := h.commentRepo.DeleteComment(ctx, id); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) respondComment(c *gin.Context, status int, id int64) {
	comment, err := h.commentRepo.GetCommentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve comment")
		return
	}
	c.JSON(status, newCommentResponse(comment))
}

func bindComment(c *gin.Context) (models.CommentDraft, bool) {
	var draft models.CommentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return draft, false
	}
	if err := draft.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return draft, false
	}
	return draft, true
}

func (h *CommentHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	commentGroup := router.Group("/comments", auth)
	{
		commentGroup.GET("/solutions/:solutionId", h.GetCommentsBySolution)
		commentGroup.POST("/solution/:solutionId", h.CreateComment)
		commentGroup.PUT("/:id", h.UpdateComment)
		commentGroup.DELETE("/:id", h.DeleteComment)
	}
}
