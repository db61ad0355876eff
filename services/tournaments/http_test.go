package tournaments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvbf/shuttle-club/pkg/tournament"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, _, _ := newTestService()
	r := gin.New()
	r.ContextWithFallback = true
	NewHTTPHandler(HTTPOptions{Service: s, Router: r.Group("/tournaments/v1")})
	return r
}

func do(r *gin.Engine, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPTournamentFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/tournaments/v1", map[string]any{
		"name":   "Club championship",
		"format": "single_elimination",
		"categories": []map[string]any{
			{"id": "ms", "name": "Men's singles"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, `"1"`, w.Header().Get("ETag"))
	var created tournament.Tournament
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	base := "/tournaments/v1/" + created.ID

	w = do(r, http.MethodPost, base+"/participants", map[string]any{
		"participants": []map[string]any{
			{"name": "Viktor", "pot": 1, "sex": "male", "categories": []string{"ms"}},
			{"name": "Anders", "pot": "Pot 2", "sex": "male", "categories": []string{"ms"}},
			{"name": "Kento", "pot": "3", "sex": "male", "categories": []string{"ms"}},
		},
	}, "If-Match", `"1"`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, base+"/generate?force=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, base+"/generate", nil, "If-Match", "1")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, base+"/generate", nil, "If-Match", "2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var generated tournament.Tournament
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	assert.Len(t, generated.Matches, 3)
	assert.Equal(t, `"3"`, w.Header().Get("ETag"))

	w = do(r, http.MethodPost, base+"/categories/ms/generate", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, base+"/categories/ms/knockout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/tournaments/v1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"participants":3`)

	w = do(r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTTPBadRequests(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/tournaments/v1", map[string]any{"format": "mixed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/tournaments/v1/t1/status", map[string]any{"status": "registration"}, "If-Match", "latest")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/tournaments/v1/t1/status", map[string]any{"status": "registration"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/tournaments/v1/t1/categories/ms/knockout?qualifiers=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/tournaments/v1/t1/categories/ms/standings", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
