package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	"golang.org/x/net/publicsuffix"

	"github.com/dom/user-directory/internal/domain"
)

// APIClient calls the user directory API. Its cookie jar carries the session
// cookie between calls.
type APIClient struct {
	cfg  *Config
	http *http.Client
}

func NewAPIClient(cfg *Config) (*APIClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &APIClient{
		cfg: cfg,
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
	}, nil
}

func (c *APIClient) Config() *Config {
	return c.cfg
}

func (c *APIClient) Jar() http.CookieJar {
	return c.http.Jar
}

type verifyResponse struct {
	Message string         `json:"message"`
	User    domain.Subject `json:"user"`
}

type createUserResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

func (c *APIClient) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, c.cfg.LoginURL, body, nil)
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.cfg.LogoutURL, nil, nil)
}

func (c *APIClient) VerifyToken(ctx context.Context) (*domain.Subject, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, c.cfg.VerifyURL, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *APIClient) ListUsers(ctx context.Context, page, limit int) (*domain.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var resp domain.Page
	if err := c.do(ctx, http.MethodGet, c.cfg.UsersURL+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Users == nil {
		resp.Users = []domain.User{}
	}
	return &resp, nil
}

func (c *APIClient) CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	var resp createUserResponse
	if err := c.do(ctx, http.MethodPost, c.cfg.UsersURL, input, &resp); err != nil {
		return nil, err
	}
	return &domain.User{
		UserID:   resp.UserID,
		Name:     resp.Name,
		Lastname: resp.Lastname,
		Email:    resp.Email,
	}, nil
}

func (c *APIClient) DeleteUser(ctx context.Context, id int64) error {
	target := c.cfg.UsersURL + "/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, target, nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, target string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Origin != "" {
		req.Header.Set("Origin", c.cfg.Origin)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", domain.ErrServiceUnavailable, err)
	}
	return nil
}
