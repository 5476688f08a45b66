package backend

import (
	"context"
	"time"
)

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&session).
		SetError(&errorBody{}).
		Post("/auth/v1/token")
	if err := c.check("sign in", resp, err); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetError(&errorBody{}).
		Post("/auth/v1/logout")
	return c.check("sign out", resp, err)
}

// SendResetEmail asks the backend to mail a password-reset link. The link
// lands on redirectTo with a one-time code.
func (c *Client) SendResetEmail(ctx context.Context, email, redirectTo string) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		SetError(&errorBody{})
	if redirectTo != "" {
		req.SetQueryParam("redirect_to", redirectTo)
	}
	resp, err := req.Post("/auth/v1/recover")
	return c.check("send reset email", resp, err)
}

func (c *Client) ExchangeCodeForSession(ctx context.Context, code, codeVerifier string) (*Session, error) {
	var session Session
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "pkce").
		SetBody(map[string]string{"auth_code": code, "code_verifier": codeVerifier}).
		SetResult(&session).
		SetError(&errorBody{}).
		Post("/auth/v1/token")
	if err := c.check("exchange code", resp, err); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) (*User, error) {
	var user User
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string]string{"password": password}).
		SetResult(&user).
		SetError(&errorBody{}).
		Put("/auth/v1/user")
	if err := c.check("update password", resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&errorBody{}).
		Get("/auth/v1/user")
	if err := c.check("get user", resp, err); err != nil {
		return nil, err
	}
	return &user, nil
}
