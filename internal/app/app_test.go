package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/buscaminas/internal/config"
	"github.com/vancomm/buscaminas/internal/repository"
)

func newTestConfig() *config.Config {
	c := config.Default()
	c.Storage = config.StorageMemory
	c.Addr = "127.0.0.1:0"
	c.ShutdownTimeout = config.Duration{Duration: time.Second}
	return &c
}

func TestHandler(t *testing.T) {
	log, _ := test.NewNullLogger()
	a := New(log, newTestConfig()).WithStore(repository.NewMemory())

	ts := httptest.NewServer(a.Handler())
	defer ts.Close()

	res, err := http.Post(ts.URL+"/v1/game?difficulty=expert", "", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var dto struct {
		SessionId string `json:"session_id"`
		Cols      int    `json:"cols"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&dto))
	assert.Equal(t, 30, dto.Cols)

	res, err = http.Get(ts.URL + "/v1/game/" + dto.SessionId)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHandlerBasePath(t *testing.T) {
	log, _ := test.NewNullLogger()
	c := newTestConfig()
	c.BasePath = "/api"
	a := New(log, c).WithStore(repository.NewMemory())

	ts := httptest.NewServer(a.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(ts.URL + "/v1/status")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStartStopsWithContext(t *testing.T) {
	log, _ := test.NewNullLogger()
	c := newTestConfig()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	c.Addr = l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(log, c).Start(ctx) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + c.Addr + "/v1/status")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
