package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
)

// Page selects a window of a list endpoint
type Page struct {
	Skip  int
	Limit int
}

func (p Page) query() string {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(p.Skip))
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return "?" + v.Encode()
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	var tok Token
	form := url.Values{"username": {username}, "password": {password}}
	if err := c.PostForm(ctx, "/login/access-token", form, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// TestToken returns the user the current token belongs to
func (c *Client) TestToken(ctx context.Context) (*User, error) {
	var u User
	if err := c.Post(ctx, "/login/test-token", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RecoverPassword asks the server to send a reset token to email
func (c *Client) RecoverPassword(ctx context.Context, email string) (*Message, error) {
	var msg Message
	if err := c.Post(ctx, "/password-recovery/"+url.PathEscape(email), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ResetPassword sets a new password using a reset token
func (c *Client) ResetPassword(ctx context.Context, in NewPassword) (*Message, error) {
	var msg Message
	if err := c.Post(ctx, "/reset-password", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Signup registers a new team account
func (c *Client) Signup(ctx context.Context, in UserRegister) (*User, error) {
	var u User
	if err := c.Post(ctx, "/users/signup", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.Get(ctx, "/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe edits the authenticated user's profile
func (c *Client) UpdateMe(ctx context.Context, in UserUpdateMe) (*User, error) {
	var u User
	if err := c.Patch(ctx, "/users/me", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword changes the authenticated user's password
func (c *Client) UpdatePassword(ctx context.Context, in UpdatePassword) (*Message, error) {
	var msg Message
	if err := c.Patch(ctx, "/users/me/password", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMe deletes the authenticated user's account
func (c *Client) DeleteMe(ctx context.Context) (*Message, error) {
	var msg Message
	if err := c.Delete(ctx, "/users/me", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListUsers returns a page of accounts with their athlete counts
func (c *Client) ListUsers(ctx context.Context, page Page) (*Users, error) {
	var list Users
	if err := c.Get(ctx, "/users"+page.query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetUser returns an account by id
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.Get(ctx, "/users/"+url.PathEscape(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates an account as an administrator
func (c *Client) CreateUser(ctx context.Context, in UserCreate) (*User, error) {
	var u User
	if err := c.Post(ctx, "/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser edits an account as an administrator
func (c *Client) UpdateUser(ctx context.Context, id string, in UserUpdate) (*User, error) {
	var u User
	if err := c.Patch(ctx, "/users/"+url.PathEscape(id), in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser deletes an account and its athletes
func (c *Client) DeleteUser(ctx context.Context, id string) (*Message, error) {
	var msg Message
	if err := c.Delete(ctx, "/users/"+url.PathEscape(id), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListAthletes returns a page of the athletes visible to the caller
func (c *Client) ListAthletes(ctx context.Context, page Page) (*Athletes, error) {
	var list Athletes
	if err := c.Get(ctx, "/athletes"+page.query(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAthlete returns an athlete by id
func (c *Client) GetAthlete(ctx context.Context, id string) (*Athlete, error) {
	var a Athlete
	if err := c.Get(ctx, "/athletes/"+url.PathEscape(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAthlete registers an athlete for the caller's team
func (c *Client) CreateAthlete(ctx context.Context, in AthleteFields) (*Athlete, error) {
	var a Athlete
	if err := c.Post(ctx, "/athletes", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAthlete applies a partial edit to an athlete
func (c *Client) UpdateAthlete(ctx context.Context, id string, in AthletePatch) (*Athlete, error) {
	var a Athlete
	if err := c.Patch(ctx, "/athletes/"+url.PathEscape(id), in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAthlete removes an athlete
func (c *Client) DeleteAthlete(ctx context.Context, id string) (*Message, error) {
	var msg Message
	if err := c.Delete(ctx, "/athletes/"+url.PathEscape(id), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Download is an open registration form; callers must close Body
type Download struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

// DefaultFormName is used when the server does not name the attachment
const DefaultFormName = "运动员报名表.xlsx"

// DownloadForm opens the registration form spreadsheet
func (c *Client) DownloadForm(ctx context.Context) (*Download, error) {
	resp, err := c.send(ctx, http.MethodGet, "/download/download-registration-form", "", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, decode(resp, nil)
	}

	name := DefaultFormName
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return &Download{
		Body:        resp.Body,
		FileName:    name,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// Health checks the server health
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.Get(ctx, "/health", &h); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &h, nil
}
