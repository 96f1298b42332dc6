package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_LocalFileAlreadyPresent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o644))

	svc := NewService(dbPath, "")
	require.NoError(t, svc.Ensure(context.Background()))
	assert.Equal(t, StatusReady, svc.Status())
}

func TestEnsure_NoURLConfigured(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "index.sqlite"), "")
	err := svc.Ensure(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no download URL")
	assert.Equal(t, StatusAbsent, svc.Status())
}

func TestEnsure_DownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("database bytes"))
	}))
	defer ts.Close()

	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	svc := NewService(dbPath, ts.URL)

	require.NoError(t, svc.Ensure(context.Background()))
	assert.Equal(t, StatusReady, svc.Status())

	data, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, "database bytes", string(data))

	// No partial-download temp file is left behind.
	_, err = os.Stat(dbPath + ".download")
	assert.True(t, os.IsNotExist(err))

	// Once the file exists later calls never refetch.
	require.NoError(t, svc.Ensure(context.Background()))
	assert.Equal(t, int32(1), hits.Load())
}

func TestEnsure_FailedAttemptIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	svc := NewService(dbPath, ts.URL)

	err := svc.Ensure(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusAbsent, svc.Status())

	// The failed attempt is remembered; the remote is not hammered.
	err = svc.Ensure(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already attempted")
	assert.Equal(t, int32(1), hits.Load())
}
