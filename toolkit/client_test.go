package toolkit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *AdminClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewAdminClient(CheckerConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, "run-1")
	require.NoError(t, err)
	return c
}

func TestNewAdminClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewAdminClient(CheckerConfig{BaseURL: "/api"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute URL")
}

func TestDoJSON_SendsHeadersAndBody(t *testing.T) {
	var (
		gotMethod, gotPath, gotCT, gotAuth, gotRun string
		gotBody                                    []byte
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotRun = r.Header.Get(RunHeader)
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"success":true,"n":3}`)
	})
	c.SetToken("tok")
	require.True(t, c.HasToken())

	resp, err := c.DoJSON(context.Background(), http.MethodPatch, "api/admin/products/1", map[string]int{"price": 50})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/admin/products/1", gotPath)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "run-1", gotRun)
	assert.JSONEq(t, `{"price":50}`, string(gotBody))

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.ValidJSON())
	assert.Equal(t, int64(3), resp.JSON().Get("n").Int())
}

func TestDoJSON_NoTokenNoAuthorization(t *testing.T) {
	var sawAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		assert.Empty(t, r.Header.Get("Content-Type"), "GET without payload has no content type")
		w.WriteHeader(http.StatusUnauthorized)
	})

	resp, err := c.DoJSON(context.Background(), http.MethodGet, "/api/admin/categories", nil)
	require.NoError(t, err)
	assert.False(t, sawAuth)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.False(t, resp.ValidJSON())
}

func TestDoJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewAdminClient(CheckerConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, "")
	require.NoError(t, err)

	_, err = c.DoJSON(context.Background(), http.MethodGet, "/slow", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /slow")
}

func TestUpload_SendsSingleFilePart(t *testing.T) {
	var (
		filename, partType string
		size               int64
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		f, h, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		filename = h.Filename
		partType = h.Header.Get("Content-Type")
		size = h.Size
		_, _ = io.WriteString(w, `{"success":true,"url":"/u.jpg"}`)
	})

	resp, err := c.Upload(context.Background(), "/api/admin/upload", "file", "test_product.jpg", "image/jpeg", []byte("jpegbytes"))
	require.NoError(t, err)

	assert.Equal(t, "test_product.jpg", filename)
	assert.Equal(t, "image/jpeg", partType)
	assert.Equal(t, int64(len("jpegbytes")), size)
	assert.Equal(t, "/u.jpg", resp.JSON().Get("url").String())
}
