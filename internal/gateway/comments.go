package gateway

import (
	"context"
	"net/http"

	"crowdfix/internal/models"
)

func (c *Client) ListComments(ctx context.Context, solutionID string) ([]models.Comment, error) {
	const op = "comments.list"
	raw, err := c.do(ctx, op, request{method: http.MethodGet, path: "/comments/solutions/" + pathID(solutionID)})
	if err != nil {
		return nil, err
	}
	wires, err := decodeList[commentWire](c, op, raw)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(wires))
	for _, w := range wires {
		comments = append(comments, w.model(solutionID))
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, solutionID string, draft models.CommentDraft) (models.Comment, error) {
	return c.commentCall(ctx, "comments.create", solutionID,
		request{method: http.MethodPost, path: "/comments/solution/" + pathID(solutionID), body: draft})
}

func (c *Client) UpdateComment(ctx context.Context, id, solutionID string, draft models.CommentDraft) (models.Comment, error) {
	return c.commentCall(ctx, "comments.update", solutionID,
		request{method: http.MethodPut, path: "/comments/" + pathID(id), body: draft})
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	_, err := c.do(ctx, "comments.delete", request{method: http.MethodDelete, path: "/comments/" + pathID(id)})
	return err
}

func (c *Client) commentCall(ctx context.Context, op, solutionID string, r request) (models.Comment, error) {
	raw, err := c.do(ctx, op, r)
	if err != nil {
		return models.Comment{}, err
	}
	w, err := decodeOne[commentWire](c, op, raw)
	if err != nil {
		return models.Comment{}, err
	}
	return w.model(solutionID), nil
}
