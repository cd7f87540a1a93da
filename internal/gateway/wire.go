package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"crowdfix/internal/models"
)

// flexID accepts ids sent as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id must be an integer, got %s", n)
	}
	*f = flexID(n.String())
	return nil
}

type userWire struct {
	ID       flexID `json:"id"`
	Username string `json:"username" validate:"required"`
}

type refWire struct {
	ID flexID `json:"id"`
}

type problemWire struct {
	ID          flexID    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	User        *userWire `json:"user"`
	Username    string    `json:"username"`
}

func (w problemWire) model() models.Problem {
	owner := w.Username
	if w.User != nil {
		owner = w.User.Username
	}
	return models.Problem{
		ID:            string(w.ID),
		Title:         w.Title,
		Description:   w.Description,
		OwnerUsername: owner,
	}
}

type solutionWire struct {
	ID            flexID    `json:"id" validate:"required"`
	ProblemID     flexID    `json:"problemId"`
	Problem       *refWire  `json:"problem"`
	Description   string    `json:"description"`
	Username      string    `json:"username"`
	User          *userWire `json:"user"`
	Status        string    `json:"status" validate:"required,oneof=PENDING ACCEPTED REJECTED"`
	UpvoteCount   int       `json:"upvoteCount" validate:"gte=0"`
	DownvoteCount int       `json:"downvoteCount" validate:"gte=0"`
}

// model fills ProblemID from the request scope when the body omits it.
func (w solutionWire) model(problemID string) models.Solution {
	s := models.Solution{
		ID:             string(w.ID),
		ProblemID:      string(w.ProblemID),
		Description:    w.Description,
		AuthorUsername: w.Username,
		Status:         models.Status(w.Status),
		UpvoteCount:    w.UpvoteCount,
		DownvoteCount:  w.DownvoteCount,
	}
	if s.ProblemID == "" && w.Problem != nil {
		s.ProblemID = string(w.Problem.ID)
	}
	if s.ProblemID == "" {
		s.ProblemID = problemID
	}
	if s.AuthorUsername == "" && w.User != nil {
		s.AuthorUsername = w.User.Username
	}
	return s
}

type commentWire struct {
	ID         flexID    `json:"id" validate:"required"`
	SolutionID flexID    `json:"solutionId"`
	Solution   *refWire  `json:"solution"`
	Content    string    `json:"content" validate:"required"`
	Username   string    `json:"username"`
	User       *userWire `json:"user"`
}

func (w commentWire) model(solutionID string) models.Comment {
	c := models.Comment{
		ID:             string(w.ID),
		SolutionID:     string(w.SolutionID),
		AuthorUsername: w.Username,
		Content:        w.Content,
	}
	if c.SolutionID == "" && w.Solution != nil {
		c.SolutionID = string(w.Solution.ID)
	}
	if c.SolutionID == "" {
		c.SolutionID = solutionID
	}
	if c.AuthorUsername == "" && w.User != nil {
		c.AuthorUsername = w.User.Username
	}
	return c
}

type activeUserWire struct {
	ID       flexID `json:"id" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type tokenWire struct {
	Token string `json:"token" validate:"required"`
}

type solutionBody struct {
	Description string        `json:"description"`
	Username    string        `json:"username"`
	Status      models.Status `json:"status"`
}

type statusBody struct {
	Status models.Status `json:"status"`
}
