package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crowdfix/internal/logger"
	"crowdfix/internal/middlewares"
	"crowdfix/internal/models"
	"crowdfix/internal/repositories"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type problemResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	User        userRef `json:"user"`
}

func newProblemResponse(p *models.ProblemRecord) problemResponse {
	return problemResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		User:        userRef{ID: p.UserID, Username: p.Username},
	}
}

type solutionResponse struct {
	ID            int64         `json:"id"`
	ProblemID     int64         `json:"problemId"`
	Description   string        `json:"description"`
	Username      string        `json:"username"`
	Status        models.Status `json:"status"`
	UpvoteCount   int           `json:"upvoteCount"`
	DownvoteCount int           `json:"downvoteCount"`
}

func newSolutionResponse(s *models.SolutionRecord) solutionResponse {
	return solutionResponse{
		ID:            s.ID,
		ProblemID:     s.ProblemID,
		Description:   s.Description,
		Username:      s.Username,
		Status:        s.Status,
		UpvoteCount:   s.UpvoteCount,
		DownvoteCount: s.DownvoteCount,
	}
}

type commentResponse struct {
	ID         int64  `json:"id"`
	SolutionID int64  `json:"solutionId"`
	Content    string `json:"content"`
	Username   string `json:"username"`
}

func newCommentResponse(cm *models.CommentRecord) commentResponse {
	return commentResponse{
		ID:         cm.ID,
		SolutionID: cm.SolutionID,
		Content:    cm.Content,
		Username:   cm.Username,
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps repository errors onto status codes. Anything unexpected
// is logged and reported as 500 with a generic message.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Log.Error(message,
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// requireOwner aborts with 403 unless the caller is ownerID.
func requireOwner(c *gin.Context, ownerID int64) bool {
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok || userID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can change this"})
		return false
	}
	return true
}
