// Package client is a typed Go client for the tour guide REST API.
//
// Authentication state is an explicit *Session returned by Login and passed to
// every call that needs it; the client itself holds no token.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
	"tour-guide-service/internal/api/dto"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Session is a logged-in identity.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    uuid.UUID
	UserName  string
	Roles     []string
}

// Expired reports whether the token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

func (s *Session) HasRole(role string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient uses a 30s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) newRequest(ctx context.Context, method, path string, s *Session, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

// do executes req, decodes a 2xx body into out when out is non-nil and turns
// any other status into an *APIError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(b)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) call(ctx context.Context, method, path string, s *Session, body, out any) error {
	req, err := c.newRequest(ctx, method, path, s, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := c.do(req, out); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) error {
	return c.call(ctx, http.MethodPost, "/api/auth/register", nil, req, nil)
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, userName, password string) (*Session, error) {
	var res dto.LoginResponse
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, dto.LoginRequest{UserName: userName, Password: password}, &res); err != nil {
		return nil, err
	}
	return &Session{
		Token:     res.Token,
		ExpiresAt: res.Expiration,
		UserID:    res.UserID,
		UserName:  res.UserName,
		Roles:     res.Roles,
	}, nil
}

// Logout revokes the session token on the server.
func (c *Client) Logout(ctx context.Context, s *Session) error {
	return c.call(ctx, http.MethodPost, "/api/auth/logout", s, nil, nil)
}

func (c *Client) ListTours(ctx context.Context) ([]dto.TourListItem, error) {
	var out []dto.TourListItem
	if err := c.call(ctx, http.MethodGet, "/api/tours", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TourDetails(ctx context.Context, tourID uuid.UUID) (*dto.TourDetailsResponse, error) {
	var out dto.TourDetailsResponse
	if err := c.call(ctx, http.MethodGet, "/api/tours/"+tourID.String()+"/details", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTour(ctx context.Context, s *Session, req dto.CreateTourRequest) (*dto.TourDetailsResponse, error) {
	var out dto.TourDetailsResponse
	if err := c.call(ctx, http.MethodPost, "/api/tours", s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddComment(ctx context.Context, s *Session, tourID uuid.UUID, text string, rating int) (*dto.CommentResponse, error) {
	var out dto.CommentResponse
	req := dto.AddCommentRequest{Text: text, Rating: rating}
	if err := c.call(ctx, http.MethodPost, "/api/comments/tours/"+tourID.String(), s, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListComments(ctx context.Context, tourID uuid.UUID) ([]dto.CommentResponse, error) {
	var out []dto.CommentResponse
	if err := c.call(ctx, http.MethodGet, "/api/comments/tours/"+tourID.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteComment(ctx context.Context, s *Session, commentID uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/comments/"+commentID.String(), s, nil, nil)
}

// UploadImage sends content as the multipart "file" field.
func (c *Client) UploadImage(ctx context.Context, s *Session, fileName string, content io.Reader) (*dto.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return nil, fmt.Errorf("upload image: copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/upload-image", &buf)
	if err != nil {
		return nil, fmt.Errorf("upload image: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	var out dto.UploadResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &out, nil
}

// Admin

func (c *Client) AdminListTours(ctx context.Context, s *Session, creatorID *uuid.UUID) ([]dto.AdminTourResponse, error) {
	path := "/api/admin/tours"
	if creatorID != nil {
		path = "/api/admin/tours/by-creator?creatorId=" + url.QueryEscape(creatorID.String())
	}
	var out []dto.AdminTourResponse
	if err := c.call(ctx, http.MethodGet, path, s, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUpdateTourStatus(ctx context.Context, s *Session, tourID uuid.UUID, status string) error {
	return c.call(ctx, http.MethodPut, "/api/admin/tours/"+tourID.String()+"/status", s, dto.TourStatusUpdateRequest{Status: status}, nil)
}

func (c *Client) AdminDeleteTour(ctx context.Context, s *Session, tourID uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/admin/tours/"+tourID.String(), s, nil, nil)
}

func (c *Client) AdminTourDetails(ctx context.Context, s *Session, tourID uuid.UUID) (*dto.TourDetailsAdminResponse, error) {
	var out dto.TourDetailsAdminResponse
	if err := c.call(ctx, http.MethodGet, "/api/admin/tours/"+tourID.String()+"/full-details", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminListUsers(ctx context.Context, s *Session) ([]dto.AdminUserResponse, error) {
	var out []dto.AdminUserResponse
	if err := c.call(ctx, http.MethodGet, "/api/admin/users", s, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUserDetails(ctx context.Context, s *Session, userID uuid.UUID) (*dto.UserDetailsResponse, error) {
	var out dto.UserDetailsResponse
	if err := c.call(ctx, http.MethodGet, "/api/admin/users/"+userID.String()+"/full-details", s, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, s *Session, userID uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/admin/users/"+userID.String(), s, nil, nil)
}
