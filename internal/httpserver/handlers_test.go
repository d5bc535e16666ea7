// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-query/internal/device"
	"github.com/pdiddy/scholar-query/internal/logger"
	"github.com/pdiddy/scholar-query/internal/store"
	"github.com/pdiddy/scholar-query/pkg/types"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return Router(Deps{
		Store:  s,
		Owner:  device.Identity("test-device"),
		Logger: logger.Nop(),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCompileEndpoint(t *testing.T) {
	router := newTestRouter(t)

	q := types.QueryData{
		ExactPhrase: "machine learning",
		Filetype:    "pdf",
		Engine:      types.EngineScholar,
	}
	rec := doJSON(t, router, http.MethodPost, "/api/compile", q)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp compileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, `"machine learning" filetype:pdf`, resp.Query)
	assert.Contains(t, resp.Explanation, "PDF files")
	assert.Contains(t, resp.URL, "scholar.google.com/scholar?q=")
}

func TestCompileEndpointRejectsBadBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/compile", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// Empty history to start.
	rec := doJSON(t, router, http.MethodGet, "/api/searches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Create.
	q := types.QueryData{ExactPhrase: "attention", Engine: types.EngineGoogle}
	rec = doJSON(t, router, http.MethodPost, "/api/searches", q)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Search
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, `"attention"`, created.Query)
	assert.Equal(t, "test-device", created.DeviceID)

	// Listed newest first.
	rec = doJSON(t, router, http.MethodGet, "/api/searches", nil)
	var listed []types.Search
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// Delete.
	rec = doJSON(t, router, http.MethodDelete, "/api/searches/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/searches", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateSearchRejectsEmptyCriteria(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/searches", types.QueryData{Engine: types.EngineGoogle})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearSearches(t *testing.T) {
	router := newTestRouter(t)

	for _, phrase := range []string{"a", "b", "c"} {
		rec := doJSON(t, router, http.MethodPost, "/api/searches",
			types.QueryData{ExactPhrase: phrase, Engine: types.EngineGoogle})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodDelete, "/api/searches", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/searches", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFavoriteLifecycle(t *testing.T) {
	router := newTestRouter(t)

	body := favoriteRequest{
		Name:        "ML papers",
		Description: "weekly",
		QueryData:   types.QueryData{ExactPhrase: "ml", Engine: types.EngineScholar},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/favorites", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Favorite
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ML papers", created.Name)

	rec = doJSON(t, router, http.MethodGet, "/api/favorites", nil)
	var listed []types.Favorite
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	rec = doJSON(t, router, http.MethodDelete, "/api/favorites/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateFavoriteRequiresName(t *testing.T) {
	router := newTestRouter(t)

	body := favoriteRequest{
		Name:      "   ",
		QueryData: types.QueryData{ExactPhrase: "x", Engine: types.EngineGoogle},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/favorites", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAbsentSearchSucceeds(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodDelete, "/api/searches/no-such-id", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
