package models

import (
	"errors"
	"strings"
)

type Problem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	OwnerUsername string `json:"ownerUsername"`
}

func (p Problem) EntityID() string { return p.ID }
func (p Problem) Owner() string    { return p.OwnerUsername }
func (p Problem) Scope() string    { return "" }

// ProblemDraft is the body of both create and update calls.
type ProblemDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (d *ProblemDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if strings.TrimSpace(d.Description) == "" {
		return errors.New("description cannot be empty")
	}
	return nil
}
