package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(testLogger()).WithRetry(3, time.Millisecond)

	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_NoRetryWhenDisabled(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(testLogger()).DisableRetry()

	resp, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPostJSON_SendsBodyAndContentType(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var gotContentType string
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := New(testLogger()).DisableRetry()

	resp, err := client.PostJSON(context.Background(), srv.URL, payload{Name: "taiseel"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "taiseel", got.Name)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(http.StatusInternalServerError))
	assert.True(t, IsRetryableError(http.StatusBadGateway))
	assert.True(t, IsRetryableError(http.StatusTooManyRequests))
	assert.False(t, IsRetryableError(http.StatusOK))
	assert.False(t, IsRetryableError(http.StatusBadRequest))
	assert.False(t, IsRetryableError(http.StatusNotFound))
}
