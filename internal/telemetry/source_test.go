package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch(t *testing.T) {
	var gotPath, gotCache, gotPragma string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCache = r.Header.Get("Cache-Control")
		gotPragma = r.Header.Get("Pragma")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spark":{"cpu_pct":12},"linux":{"uptime":"3d 1h"}}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)
	assert.True(t, src.Configured())
	assert.Equal(t, srv.URL+"/api/metrics", src.URL())

	snap, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/metrics", gotPath)
	assert.Equal(t, "no-store", gotCache)
	assert.Equal(t, "no-cache", gotPragma)
	assert.Equal(t, Float(12), snap.Spark.CPUPct)
	assert.Equal(t, Text("3d 1h"), snap.Linux.Uptime)
}

func TestHTTPSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{}`, "HTTP 500"},
		{"not found", http.StatusNotFound, `nope`, "HTTP 404"},
		{"bad json", http.StatusOK, `<html>`, "invalid JSON"},
		{"json array", http.StatusOK, `[]`, "invalid JSON"},
		{"json null", http.StatusOK, `null`, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPSource(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPSource_Unconfigured(t *testing.T) {
	assert.False(t, NewHTTPSource("", time.Second).Configured())
	var nilSrc *HTTPSource
	assert.False(t, nilSrc.Configured())
}
