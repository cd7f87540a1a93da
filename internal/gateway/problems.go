package gateway

import (
	"context"
	"net/http"

	"crowdfix/internal/models"
)

func (c *Client) ListProblems(ctx context.Context) ([]models.Problem, error) {
	const op = "problems.list"
	raw, err := c.do(ctx, op, request{method: http.MethodGet, path: "/problems"})
	if err != nil {
		return nil, err
	}
	wires, err := decodeList[problemWire](c, op, raw)
	if err != nil {
		return nil, err
	}
	problems := make([]models.Problem, 0, len(wires))
	for _, w := range wires {
		problems = append(problems, w.model())
	}
	return problems, nil
}

func (c *Client) GetProblem(ctx context.Context, id string) (models.Problem, error) {
	return c.problemCall(ctx, "problems.get", request{method: http.MethodGet, path: "/problems/" + pathID(id)})
}

func (c *Client) CreateProblem(ctx context.Context, draft models.ProblemDraft) (models.Problem, error) {
	return c.problemCall(ctx, "problems.create", request{method: http.MethodPost, path: "/problems", body: draft})
}

func (c *Client) UpdateProblem(ctx context.Context, id string, draft models.ProblemDraft) (models.Problem, error) {
	return c.problemCall(ctx, "problems.update", request{method: http.MethodPut, path: "/problems/" + pathID(id), body: draft})
}

func (c *Client) DeleteProblem(ctx context.Context, id string) error {
	_, err := c.do(ctx, "problems.delete", request{method: http.MethodDelete, path: "/problems/" + pathID(id)})
	return err
}

func (c *Client) problemCall(ctx context.Context, op string, r request) (models.Problem, error) {
	raw, err := c.do(ctx, op, r)
	if err != nil {
		return models.Problem{}, err
	}
	w, err := decodeOne[problemWire](c, op, raw)
	if err != nil {
		return models.Problem{}, err
	}
	return w.model(), nil
}
