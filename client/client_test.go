package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"instaclone/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginStoresSessionAndSendsBearer(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice@example.com", body["email"])
			writeJSON(w, http.StatusOK, models.AuthResponse{Token: "tok-1", UserID: 1, Username: "alice"})
		case "/api/posts/5/likes":
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Post liked."})
		default:
			http.NotFound(w, r)
		}
	})

	resp, err := c.Login(context.Background(), "alice@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, Session{Token: "tok-1", UserID: 1, Username: "alice"}, *c.Session)

	require.NoError(t, c.Like(context.Background(), 5))
	assert.Equal(t, "Bearer tok-1", gotAuth)

	c.Logout()
	assert.False(t, c.Session.LoggedIn())
}

func TestErrorsBecomeAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/posts/1/likes":
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Already liked.", Code: models.CodeConflict})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>upstream down</html>")
		}
	})

	err := c.Like(context.Background(), 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Already liked.", apiErr.Message)

	_, err = c.GetPost(context.Background(), 2)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestAnonymousRequestsHaveNoAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "", r.URL.Query().Get("pageSize"))
		writeJSON(w, http.StatusOK, models.FeedPage{Posts: []models.PostView{{ID: 9}}, Page: 2, PageSize: 10})
	})

	feed, err := c.Feed(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.Page)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, uint(9), feed.Posts[0].ID)
}

func TestCreatePostSendsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "hello", r.FormValue("caption"))

		f, hdr, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		assert.Equal(t, "pic.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(raw))

		writeJSON(w, http.StatusCreated, models.PostView{ID: 4, ImageURL: "/uploads/x.png"})
	})
	c.Session = &Session{Token: "tok"}

	post, err := c.CreatePost(context.Background(), "pic.png", strings.NewReader("PNGDATA"), "hello")
	require.NoError(t, err)
	assert.Equal(t, uint(4), post.ID)
}

func TestCommentsAndEmptyBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, "[]")
		case http.MethodPost:
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusCreated, models.CommentView{ID: 1, Text: body["text"], Username: "bob"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	comments, err := c.ListComments(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	comment, err := c.AddComment(context.Background(), 3, "Nice!")
	require.NoError(t, err)
	assert.Equal(t, "Nice!", comment.Text)

	assert.NoError(t, c.Unlike(context.Background(), 3))
}

func TestRegisterSendsOptionalDisplayName(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []map[string]string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: "tok-2", UserID: 2, Username: body["username"]})
	})

	_, err := c.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "secret1", DisplayName: "Bob Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok-2", UserID: 2, Username: "bob"}, *c.Session)

	_, err = c.Register(context.Background(), RegisterInput{Username: "eve", Email: "eve@example.com", Password: "secret1"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 2)
	assert.Equal(t, "Bob Smith", bodies[0]["displayName"])
	assert.Equal(t, "bob@example.com", bodies[0]["email"])
	assert.NotContains(t, bodies[1], "displayName")
}
