package booru

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagpull/tagpull/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPosts(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"tags":  r.URL.Query().Get("tags"),
			"page":  r.URL.Query().Get("page"),
			"limit": r.URL.Query().Get("limit"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "md5": "abc", "score": 42, "rating": "g", "tag_string_general": "1girl smile", "file_ext": "png"},
			{"id": 2, "md5": "", "score": 7, "rating": "e", "file_ext": "jpg"}
		]`))
	}))
	defer server.Close()

	client := NewClient("danbooru.donmai.us", testLogger(), WithBaseURL(server.URL))

	posts, err := client.Posts(context.Background(), "1girl rating:g", 3, 200)
	require.NoError(t, err)

	assert.Equal(t, "/posts.json", gotPath)
	assert.Equal(t, "1girl rating:g", gotQuery["tags"])
	assert.Equal(t, "3", gotQuery["page"])
	assert.Equal(t, "200", gotQuery["limit"])

	require.Len(t, posts, 2)
	assert.Equal(t, 1, posts[0].ID)
	assert.Equal(t, "abc", posts[0].MD5)
	assert.Equal(t, 42, posts[0].Score)
	assert.Equal(t, "1girl smile", posts[0].TagStringGeneral)
	assert.Empty(t, posts[1].MD5)
}

func TestPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/12345.json", r.URL.Path)
		w.Write([]byte(`{"id": 12345, "md5": "def", "rating": "s", "file_ext": "jpg", "large_file_url": "https://cdn.example/x.jpg"}`))
	}))
	defer server.Close()

	client := NewClient("danbooru.donmai.us", testLogger(), WithBaseURL(server.URL))

	post, err := client.Post(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, 12345, post.ID)
	assert.Equal(t, "https://cdn.example/x.jpg", post.DownloadURL())
}

func TestPosts_BasicAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient("danbooru.donmai.us", testLogger(),
		WithBaseURL(server.URL),
		WithAuth("dXNlcjprZXk="), // user:key
	)

	_, err := client.Posts(context.Background(), "1girl", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "Basic dXNlcjprZXk=", gotAuth)
}

func TestPosts_NoAuthHeaderWithoutCredentials(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient("danbooru.donmai.us", testLogger(), WithBaseURL(server.URL))

	_, err := client.Posts(context.Background(), "1girl", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPosts_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("danbooru.donmai.us", testLogger(), WithBaseURL(server.URL))

	_, err := client.Posts(context.Background(), "1girl", 2, 20)
	require.ErrorIs(t, err, errors.ErrTransport)
	assert.Contains(t, err.Error(), "page 2")
	assert.Contains(t, err.Error(), "500")
}

func TestPost_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("danbooru.donmai.us", testLogger(), WithBaseURL(server.URL))

	_, err := client.Post(context.Background(), 999)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
