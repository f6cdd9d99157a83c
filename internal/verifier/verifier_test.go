package verifier

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

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/verify", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		for _, field := range []string{"before", "after"} {
			f, _, err := r.FormFile(field)
			require.NoError(t, err, field)
			data, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.NotEmpty(t, data, field)
			_ = f.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"same_scene":true,"cleanup_successful":true,"confidence":0.83,"short_reason":"litter removed"}`))
	}))
	defer srv.Close()

	v := NewHTTP(srv.URL, 5*time.Second)
	verdict, err := v.Verify(context.Background(), []byte("before-bytes"), []byte("after-bytes"))
	require.NoError(t, err)
	assert.True(t, verdict.SameScene)
	assert.True(t, verdict.CleanupSuccessful)
	assert.InDelta(t, 0.83, verdict.Confidence, 1e-9)
	assert.Equal(t, "litter removed", verdict.Reason)
}

func TestVerify_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := NewHTTP(srv.URL, 5*time.Second)
	_, err := v.Verify(context.Background(), []byte("b"), []byte("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestVerify_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	v := NewHTTP(srv.URL, 5*time.Second)
	_, err := v.Verify(context.Background(), []byte("b"), []byte("a"))
	require.Error(t, err)
}

func TestVerify_ConfidenceOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"same_scene":true,"cleanup_successful":true,"confidence":1.5}`))
	}))
	defer srv.Close()

	v := NewHTTP(srv.URL, 5*time.Second)
	_, err := v.Verify(context.Background(), []byte("b"), []byte("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence out of range")
}

func TestVerify_Unreachable(t *testing.T) {
	v := NewHTTP("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := v.Verify(context.Background(), []byte("b"), []byte("a"))
	require.Error(t, err)
}

func TestHealthPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewHTTP(srv.URL, 5*time.Second)
	assert.NoError(t, v.HealthPing(context.Background()))
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Verify(context.Background(), []byte("b"), []byte("a"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
