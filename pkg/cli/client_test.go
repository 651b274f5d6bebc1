package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		c := NewClient("http://localhost:8080/", "tok")
		assert.Equal(t, "http://localhost:8080", c.BaseURL)
	})

	t.Run("stores token and timeout", func(t *testing.T) {
		c := NewClient("http://localhost:8080", "tok")
		assert.Equal(t, "tok", c.Token)
		assert.Equal(t, 30*time.Second, c.HTTPClient.Timeout)
	})
}

func TestClientDo(t *testing.T) {
	rec := &requestRecorder{}
	srv := httptest.NewServer(jsonHandler(rec, 200, `{}`))
	defer srv.Close()

	t.Run("adds v1 prefix", func(t *testing.T) {
		c := NewClient(srv.URL, "")
		resp, err := c.Do(http.MethodGet, "/books", nil, nil)
		require.NoError(t, err)
		_, _ = ReadBody(resp)
		assert.Equal(t, "/v1/books", rec.last().Path)
	})

	t.Run("encodes query params", func(t *testing.T) {
		c := NewClient(srv.URL, "")
		q := url.Values{}
		q.Set("member_id", "3")
		resp, err := c.Do(http.MethodGet, "/loans", q, nil)
		require.NoError(t, err)
		_, _ = ReadBody(resp)
		assert.Equal(t, "member_id=3", rec.last().Query)
	})

	t.Run("sends JSON body with content type", func(t *testing.T) {
		c := NewClient(srv.URL, "")
		resp, err := c.Do(http.MethodPost, "/authors", nil, map[string]string{"name": "Stanislaw Lem"})
		require.NoError(t, err)
		_, _ = ReadBody(resp)

		captured := rec.last()
		assert.Equal(t, "application/json", captured.Headers.Get("Content-Type"))
		assert.JSONEq(t, `{"name":"Stanislaw Lem"}`, captured.Body)
	})

	t.Run("sets accept header", func(t *testing.T) {
		c := NewClient(srv.URL, "")
		resp, err := c.Do(http.MethodGet, "/books", nil, nil)
		require.NoError(t, err)
		_, _ = ReadBody(resp)
		assert.Equal(t, "application/json", rec.last().Headers.Get("Accept"))
	})

	t.Run("bearer token when set", func(t *testing.T) {
		c := NewClient(srv.URL, "my-token")
		resp, err := c.Do(http.MethodGet, "/books", nil, nil)
		require.NoError(t, err)
		_, _ = ReadBody(resp)
		assert.Equal(t, "Bearer my-token", rec.last().Headers.Get("Authorization"))
	})

	t.Run("no auth header without token", func(t *testing.T) {
		c := NewClient(srv.URL, "")
		resp, err := c.Do(http.MethodGet, "/books", nil, nil)
		require.NoError(t, err)
		_, _ = ReadBody(resp)
		assert.Empty(t, rec.last().Headers.Get("Authorization"))
	})

	t.Run("connection error", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", "")
		_, err := c.Do(http.MethodGet, "/books", nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "execute request")
	})
}

func TestCheckError(t *testing.T) {
	makeResp := func(status int, body string) *http.Response {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
		}
	}

	t.Run("success statuses pass", func(t *testing.T) {
		for _, status := range []int{200, 201, 204} {
			assert.NoError(t, CheckError(makeResp(status, "")))
		}
	})

	t.Run("structured error payload", func(t *testing.T) {
		err := CheckError(makeResp(403, `{"code":403,"message":"forbidden: admin access required"}`))
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 403, apiErr.HTTPStatus)
		assert.Equal(t, 403, apiErr.Code)
		assert.Equal(t, "API error (HTTP 403): forbidden: admin access required", err.Error())
	})

	t.Run("raw body fallback", func(t *testing.T) {
		err := CheckError(makeResp(502, "Bad Gateway\n"))
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 502, apiErr.HTTPStatus)
		assert.Equal(t, "Bad Gateway", apiErr.Message)
	})

	t.Run("empty message falls back to raw body", func(t *testing.T) {
		err := CheckError(makeResp(500, `{"code":500,"message":""}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `{"code":500,"message":""}`)
	})
}

type spyReadCloser struct {
	io.Reader
	closed bool
}

func (s *spyReadCloser) Close() error {
	s.closed = true
	return nil
}

func TestReadBody(t *testing.T) {
	spy := &spyReadCloser{Reader: strings.NewReader(`{"ok":true}`)}
	resp := &http.Response{StatusCode: 200, Body: spy}

	body, err := ReadBody(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.True(t, spy.closed)
}
