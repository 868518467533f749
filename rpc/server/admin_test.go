package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentinKolb/wordkv/rpc/common"
)

func TestAdminRoutes(t *testing.T) {
	s := startServer(t, 3, common.PersistOnMutation, `{"apple":["fruit"],"pear":["fruit"]}`)
	c := dial(t, s)
	c.admitted()
	c.call(common.NewGetMeaningRequest("apple"))
	c.call(common.NewGetMeaningRequest("banana"))

	router := newAdminRouter(s.Server)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("health", func(t *testing.T) {
		w := get("/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("status", func(t *testing.T) {
		w := get("/status")
		require.Equal(t, http.StatusOK, w.Code)

		var status StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, 3, status.PoolSize)
		assert.Equal(t, 2, status.Words)
		assert.Equal(t, 1, status.Sessions)
		assert.Equal(t, s.dict.Fingerprint(), status.Fingerprint)
		assert.Contains(t, status.Rates, "command.getMeaning")
		assert.Contains(t, status.Rates, "connections")
	})

	t.Run("events", func(t *testing.T) {
		w := get("/events")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Client 1 connected")
	})

	t.Run("metrics", func(t *testing.T) {
		w := get("/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "wordkv_sessions_total 1")
		assert.Contains(t, body, `wordkv_commands_total{command="getMeaning",result="ok"} 1`)
		assert.Contains(t, body, `wordkv_commands_total{command="getMeaning",result="error"} 1`)
		assert.True(t, strings.Contains(body, "wordkv_pool_idle_workers"))
	})
}

// TestAdminListener tests that the admin api is served on its own port and stops with the server
func TestAdminListener(t *testing.T) {
	s := startServer(t, 1, common.PersistOnMutation, `{}`)
	assert.Nil(t, s.AdminAddr())

	s2, err := NewServer(common.ServerConfig{
		Endpoint:       "127.0.0.1:0",
		PoolSize:       1,
		DictionaryFile: s.path,
		PersistMode:    common.PersistOnMutation,
		AdminEndpoint:  "127.0.0.1:0",
		LogLevel:       "info",
	}, s.dict, s.serializer, nil)
	require.NoError(t, err)
	require.NoError(t, s2.Listen())
	go func() { _ = s2.Serve() }()

	addr := s2.AdminAddr()
	require.NotNil(t, addr)

	httpClient := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := httpClient.Get("http://" + addr.String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s2.Close())
	_, err = httpClient.Get("http://" + addr.String() + "/health")
	assert.Error(t, err)
}
