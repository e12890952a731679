package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"instaclone/internal/models"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("instaclone: %d %s", e.Status, e.Message)
}

// Client calls the InstaClone API. Session may be nil for anonymous use.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session *Session
}

// New returns a client for baseURL (e.g. "http://localhost:8080") with an
// empty session.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Session: &Session{},
	}
}

// RegisterInput is the sign-up form. DisplayName is optional.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// Register creates an account and stores the returned identity in the session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", in, &resp); err != nil {
		return nil, err
	}
	c.remember(&resp)
	return &resp, nil
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.remember(&resp)
	return &resp, nil
}

// Logout clears the session. Tokens are stateless, so nothing is sent.
func (c *Client) Logout() {
	if c.Session != nil {
		c.Session.Clear()
	}
}

func (c *Client) remember(resp *models.AuthResponse) {
	if c.Session == nil {
		c.Session = &Session{}
	}
	*c.Session = Session{Token: resp.Token, UserID: resp.UserID, Username: resp.Username}
}

// Feed fetches one feed page. Zero values let the server apply its defaults.
func (c *Client) Feed(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	path := "/api/posts/feed"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var feed models.FeedPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id uint) (*models.PostView, error) {
	var post models.PostView
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost uploads image as filename with an optional caption.
func (c *Client) CreatePost(ctx context.Context, filename string, image io.Reader, caption string) (*models.PostView, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var post models.PostView
	if err := c.do(ctx, http.MethodPost, "/api/posts", body, w.FormDataContentType(), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// AddComment posts a comment on postID.
func (c *Client) AddComment(ctx context.Context, postID uint, text string) (*models.CommentView, error) {
	var comment models.CommentView
	path := fmt.Sprintf("/api/posts/%d/comments", postID)
	if err := c.doJSON(ctx, http.MethodPost, path, map[string]string{"text": text}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the comments on postID, newest first.
func (c *Client) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	comments := []models.CommentView{}
	path := fmt.Sprintf("/api/posts/%d/comments", postID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Like likes postID as the session user.
func (c *Client) Like(ctx context.Context, postID uint) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/likes", postID), nil, nil)
}

// Unlike removes the session user's like on postID.
func (c *Client) Unlike(ctx context.Context, postID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d/likes", postID), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Session.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+c.Session.Token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response, raw []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		return apiErr
	}
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
