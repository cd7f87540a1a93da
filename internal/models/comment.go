package models

import (
	"errors"
	"strings"
)

type Comment struct {
	ID             string `json:"id"`
	SolutionID     string `json:"solutionId"`
	AuthorUsername string `json:"authorUsername"`
	Content        string `json:"content"`
}

func (c Comment) EntityID() string { return c.ID }
func (c Comment) Owner() string    { return c.AuthorUsername }
func (c Comment) Scope() string    { return c.SolutionID }

type CommentDraft struct {
	Content string `json:"content"`
}

func (d *CommentDraft) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return errors.New("content cannot be empty")
	}
	return nil
}
