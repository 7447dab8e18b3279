package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFormContext(t *testing.T, target string, fields map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c, w
}

func TestCreatePostMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing title", map[string]string{"content": "Body text", "category": "tech"}},
		{"missing content", map[string]string{"title": "Headline", "category": "tech"}},
		{"missing category", map[string]string{"title": "Headline", "content": "Body text"}},
		{"blank title", map[string]string{"title": "   ", "content": "Body text", "category": "tech"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newFormContext(t, "/api/posts", tt.fields)

			CreatePost(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "required")
		})
	}
}

func TestCreatePostUnknownCategory(t *testing.T) {
	c, w := newFormContext(t, "/api/posts", map[string]string{
		"title":    "Headline",
		"content":  "Body text",
		"category": "gossip",
	})

	CreatePost(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown category")
}

func TestPostListFilter(t *testing.T) {
	t.Run("no parameters matches everything", func(t *testing.T) {
		filter, err := postListFilter("", "", "")
		require.NoError(t, err)
		assert.Equal(t, bson.M{}, filter)
	})

	t.Run("category filter", func(t *testing.T) {
		filter, err := postListFilter("tech", "", "")
		require.NoError(t, err)
		assert.Equal(t, "tech", filter["category"])
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := postListFilter("gossip", "", "")
		assert.Error(t, err)
	})

	t.Run("search matches title or content case-insensitively", func(t *testing.T) {
		filter, err := postListFilter("", "budget", "")
		require.NoError(t, err)

		pattern := primitive.Regex{Pattern: "budget", Options: "i"}
		assert.Equal(t, []bson.M{{"title": pattern}, {"content": pattern}}, filter["$or"])
	})

	t.Run("search input is treated as a literal", func(t *testing.T) {
		filter, err := postListFilter("", "c++ (draft)", "")
		require.NoError(t, err)

		or := filter["$or"].([]bson.M)
		assert.Equal(t, `c\+\+ \(draft\)`, or[0]["title"].(primitive.Regex).Pattern)
	})

	t.Run("exclude drops one id", func(t *testing.T) {
		excludeID := primitive.NewObjectID()
		filter, err := postListFilter("tech", "", excludeID.Hex())
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$ne": excludeID}, filter["_id"])
	})

	t.Run("malformed exclude id is rejected", func(t *testing.T) {
		_, err := postListFilter("", "", "not-an-id")
		assert.Error(t, err)
	})
}

func TestListPostsUnknownCategory(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts?category=gossip", nil)

	ListPosts(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPostsMalformedExcludeID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts?exclude=not-an-id", nil)

	ListPosts(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostHandlersMalformedID(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		method  string
	}{
		{"get", GetPost, http.MethodGet},
		{"update", UpdatePost, http.MethodPut},
		{"delete", DeletePost, http.MethodDelete},
		{"like", LikePost, http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(tt.method, "/api/posts/not-an-id", nil)
			c.Params = gin.Params{{Key: "id", Value: "not-an-id"}}

			tt.handler(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid post ID format")
		})
	}
}
