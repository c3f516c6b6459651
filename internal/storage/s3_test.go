package storage

import (
	"alcyxob/gym-membership/internal/config"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localS3Config(endpoint string) config.S3Config {
	return config.S3Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "gym-reports",
	}
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	cfg := localS3Config("http://localhost:9000")
	cfg.BucketName = ""

	s, err := NewS3Storage(context.Background(), cfg)
	assert.Nil(t, s)
	assert.EqualError(t, err, "s3 bucket name is required")
}

func TestGeneratePresignedDownloadURL(t *testing.T) {
	s, err := NewS3Storage(context.Background(), localS3Config("http://localhost:9000"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("non-positive expiry uses the default", func(t *testing.T) {
		for _, expires := range []time.Duration{0, -time.Minute} {
			url, err := s.GeneratePresignedDownloadURL(ctx, "plan-reports/m/e.html", expires)
			require.NoError(t, err)
			assert.Contains(t, url, "X-Amz-Expires=604800")
		}
	})

	t.Run("explicit expiry and path-style address", func(t *testing.T) {
		url, err := s.GeneratePresignedDownloadURL(ctx, "plan-reports/m/e.html", 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/gym-reports/plan-reports/m/e.html?"), url)
		assert.Contains(t, url, "X-Amz-Expires=900")
		assert.Contains(t, url, "X-Amz-Signature=")
	})
}

type s3Request struct {
	method string
	path   string
	body   string
	ctype  string
}

func TestS3Storage_PutAndDelete(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []s3Request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, s3Request{method: r.Method, path: r.URL.Path, body: string(body), ctype: r.Header.Get("Content-Type")})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3Storage(context.Background(), localS3Config(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.PutObject(ctx, "plan-reports/m/e.html", "text/html; charset=utf-8", []byte("<h1>done</h1>")))
	require.NoError(t, s.DeleteObject(ctx, "plan-reports/m/e.html"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, http.MethodPut, seen[0].method)
	assert.Equal(t, "/gym-reports/plan-reports/m/e.html", seen[0].path)
	assert.Equal(t, "text/html; charset=utf-8", seen[0].ctype)
	assert.Contains(t, seen[0].body, "<h1>done</h1>")
	assert.Equal(t, http.MethodDelete, seen[1].method)
	assert.Equal(t, "/gym-reports/plan-reports/m/e.html", seen[1].path)
}

func TestS3Storage_PutSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer srv.Close()

	s, err := NewS3Storage(context.Background(), localS3Config(srv.URL))
	require.NoError(t, err)

	err = s.PutObject(context.Background(), "k", "text/html", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}
