package models

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ParseStatus accepts any letter case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

type Solution struct {
	ID             string `json:"id"`
	ProblemID      string `json:"problemId"`
	Description    string `json:"description"`
	AuthorUsername string `json:"authorUsername"`
	Status         Status `json:"status"`
	UpvoteCount    int    `json:"upvoteCount"`
	DownvoteCount  int    `json:"downvoteCount"`
}

func (s Solution) EntityID() string { return s.ID }
func (s Solution) Owner() string    { return s.AuthorUsername }
func (s Solution) Scope() string    { return s.ProblemID }

type SolutionDraft struct {
	Description string `json:"description"`
}

func (d *SolutionDraft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return errors.New("description cannot be empty")
	}
	return nil
}
