package models

import (
	"fmt"
	"strings"
)

type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// VoteType is the value of the voteType query parameter.
func (d Direction) VoteType() string {
	if d == DirectionDown {
		return "DOWNVOTE"
	}
	return "UPVOTE"
}

func ParseDirection(raw string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "UP", "UPVOTE":
		return DirectionUp, nil
	case "DOWN", "DOWNVOTE":
		return DirectionDown, nil
	}
	return "", fmt.Errorf("unknown vote direction %q", raw)
}
