package fakeadmin

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTB keeps Errorf calls instead of failing the enclosing test.
type recordingTB struct {
	testing.TB
	errs []string
}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHandle_UnreadableBodyIsReported(t *testing.T) {
	tb := &recordingTB{TB: t}
	srv := New(tb)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", failingReader{})
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Config.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, tb.errs, 1)
	assert.Contains(t, tb.errs[0], "read "+RouteLogin+" body")
	assert.Empty(t, srv.Requests())
}

func TestHandle_OverrideSkipsAuth(t *testing.T) {
	srv := New(t)
	srv.Override(RouteCategoriesGet, http.StatusTeapot, `{"error":"nope"}`)

	resp, err := http.Get(srv.URL + "/api/admin/categories")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	require.Len(t, srv.RequestsTo(RouteCategoriesGet), 1)
}

func TestHandle_DropClosesConnection(t *testing.T) {
	srv := New(t)
	srv.Drop(RouteProductsGet)

	resp, err := http.Get(srv.URL + "/api/admin/products")
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)
	assert.NotEmpty(t, srv.RequestsTo(RouteProductsGet))
}
