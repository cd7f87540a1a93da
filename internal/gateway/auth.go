package gateway

import (
	"context"
	"net/http"

	"crowdfix/internal/models"
)

// Login returns the bearer token issued for the credentials.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	const op = "auth.login"
	raw, err := c.do(ctx, op, request{method: http.MethodPost, path: "/auth/login", body: req, public: true})
	if err != nil {
		return "", err
	}
	tok, err := decodeOne[tokenWire](c, op, raw)
	if err != nil {
		return "", err
	}
	return tok.Token, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	_, err := c.do(ctx, "auth.register", request{method: http.MethodPost, path: "/auth/register", body: req, public: true})
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	_, err := c.do(ctx, "auth.forgot_password", request{method: http.MethodPost, path: "/auth/forgot-password", body: req, public: true})
	return err
}

func (c *Client) ActiveUsers(ctx context.Context) ([]models.ActiveUser, error) {
	const op = "auth.active_users"
	raw, err := c.do(ctx, op, request{method: http.MethodGet, path: "/auth/active-users"})
	if err != nil {
		return nil, err
	}
	wires, err := decodeList[activeUserWire](c, op, raw)
	if err != nil {
		return nil, err
	}
	users := make([]models.ActiveUser, 0, len(wires))
	for _, w := range wires {
		users = append(users, models.ActiveUser{ID: string(w.ID), Username: w.Username})
	}
	return users, nil
}
