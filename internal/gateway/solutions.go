package gateway

import (
	"context"
	"net/http"
	"net/url"

	"crowdfix/internal/models"
)

func (c *Client) ListSolutions(ctx context.Context, problemID string) ([]models.Solution, error) {
	const op = "solutions.list"
	raw, err := c.do(ctx, op, request{method: http.MethodGet, path: "/solutions/problem/" + pathID(problemID)})
	if err != nil {
		return nil, err
	}
	wires, err := decodeList[solutionWire](c, op, raw)
	if err != nil {
		return nil, err
	}
	solutions := make([]models.Solution, 0, len(wires))
	for _, w := range wires {
		solutions = append(solutions, w.model(problemID))
	}
	return solutions, nil
}

// CreateSolution always submits the solution as PENDING.
func (c *Client) CreateSolution(ctx context.Context, problemID, username string, draft models.SolutionDraft) (models.Solution, error) {
	body := solutionBody{Description: draft.Description, Username: username, Status: models.StatusPending}
	return c.solutionCall(ctx, "solutions.create", problemID,
		request{method: http.MethodPost, path: "/solutions/problem/" + pathID(problemID), body: body})
}

func (c *Client) UpdateSolutionDescription(ctx context.Context, id, problemID string, draft models.SolutionDraft) (models.Solution, error) {
	return c.solutionCall(ctx, "solutions.update_description", problemID,
		request{method: http.MethodPut, path: "/solutions/" + pathID(id) + "/description", body: draft})
}

func (c *Client) UpdateSolutionStatus(ctx context.Context, id, problemID string, status models.Status) (models.Solution, error) {
	return c.solutionCall(ctx, "solutions.update_status", problemID,
		request{method: http.MethodPut, path: "/solutions/" + pathID(id) + "/status", body: statusBody{Status: status}})
}

func (c *Client) DeleteSolution(ctx context.Context, id string) error {
	_, err := c.do(ctx, "solutions.delete", request{method: http.MethodDelete, path: "/solutions/" + pathID(id)})
	return err
}

// Vote has no response body worth reading; the caller re-fetches the counts.
func (c *Client) Vote(ctx context.Context, solutionID string, dir models.Direction) error {
	q := url.Values{}
	q.Set("voteType", dir.VoteType())
	_, err := c.do(ctx, "votes.cast", request{method: http.MethodPost, path: "/votes/solution/" + pathID(solutionID), query: q})
	return err
}

func (c *Client) solutionCall(ctx context.Context, op, problemID string, r request) (models.Solution, error) {
	raw, err := c.do(ctx, op, r)
	if err != nil {
		return models.Solution{}, err
	}
	w, err := decodeOne[solutionWire](c, op, raw)
	if err != nil {
		return models.Solution{}, err
	}
	return w.model(problemID), nil
}
