package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/iziplay/gallery/pkg/comments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, secret string) (*httptest.Server, *Handlers) {
	t.Helper()
	store, err := comments.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := &Handlers{Store: store, Stats: comments.NewStatsCache(store)}
	srv := httptest.NewServer(NewRouter(h, Options{JWTSecret: secret}))
	t.Cleanup(srv.Close)
	return srv, h
}

func postComment(t *testing.T, srv *httptest.Server, form url.Values, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/comments", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestComments(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/comments?oid=O1234")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = postComment(t, srv, url.Values{"oid": {"O1234"}, "name": {"Ada"}, "comment": {"Lovely glaze"}}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Positive(t, created.ID)

	resp = postComment(t, srv, url.Values{"oid": {" O1234 "}, "name": {"Grace"}, "comment": {"Same"}}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/comments?oid=O1234")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		OID      string `json:"oid"`
		Comments []struct {
			Name    string `json:"name"`
			Comment string `json:"comment"`
		} `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, "O1234", list.OID)
	require.Len(t, list.Comments, 2)
	assert.Equal(t, "Ada", list.Comments[0].Name)
	assert.Equal(t, "Lovely glaze", list.Comments[0].Comment)
	assert.Equal(t, "Grace", list.Comments[1].Name)
}

func TestCommentsMultipart(t *testing.T) {
	srv, _ := newTestServer(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("oid", "O1234"))
	require.NoError(t, mw.WriteField("name", "Ada"))
	require.NoError(t, mw.WriteField("comment", "Lovely"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/comments", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/comments?oid=O1234")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list CommentList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "Lovely", list.Comments[0].Comment)

	resp, err = http.Post(srv.URL+"/comments", "multipart/form-data", strings.NewReader("oid=O1"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentsBadRequests(t *testing.T) {
	srv, _ := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/comments?oid=not-valid!")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	tests := []url.Values{
		{"name": {"Ada"}, "comment": {"no object"}},
		{"oid": {"O1"}, "comment": {"no name"}},
		{"oid": {"O1"}, "name": {strings.Repeat("n", 65)}, "comment": {"long name"}},
		{"oid": {"O1"}, "name": {"Ada"}},
	}
	for _, form := range tests {
		resp := postComment(t, srv, form, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, form.Encode())
	}

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/comments?oid=O1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentsAuth(t *testing.T) {
	srv, _ := newTestServer(t, "s3cret")
	form := url.Values{"oid": {"O1"}, "name": {"Ada"}, "comment": {"hello"}}

	resp := postComment(t, srv, form, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "visitor",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	resp = postComment(t, srv, form, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/comments?oid=O1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatistics(t *testing.T) {
	srv, h := newTestServer(t, "")

	resp := postComment(t, srv, url.Values{"oid": {"O1"}, "name": {"Ada"}, "comment": {"one"}}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/v1/statistics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	h.Stats.Compute(context.Background(), true)

	var stats comments.Stats
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/v1/statistics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		return json.NewDecoder(resp.Body).Decode(&stats) == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, stats.Comments)
	assert.Equal(t, []comments.ObjectCount{{ObjectID: "O1", Count: 1}}, stats.Top)
}

func TestSetupOperations(t *testing.T) {
	store, err := comments.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, api := humatest.New(t)
	Setup(api, &Handlers{Store: store, Stats: comments.NewStatsCache(store)})

	resp := api.Post("/comments?oid=O9",
		"Content-Type: application/x-www-form-urlencoded",
		strings.NewReader("name=Ada&comment=Blue+and+white"))
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Get("/comments?oid=O9")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"comment":"Blue and white"`)

	resp = api.Get("/healthz")
	assert.Equal(t, "OK", resp.Body.String())
}
