package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/engine"
)

const sampleCard = "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Test\r\nBDAY:19900515\r\nEND:VCARD\r\n"

// TestHTTPFetcher_Fetch_Success verifies the download sends credentials and the agent header.
func TestHTTPFetcher_Fetch_Success(t *testing.T) {
	expectedUser := "testuser"
	expectedPass := "securepass"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, expectedUser, user, "Username mismatch")
		assert.Equal(t, expectedPass, pass, "Password mismatch")
		assert.Equal(t, config.UserAgent, r.Header.Get("User-Agent"), "User-Agent mismatch")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(sampleCard))
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()
	rc, err := fetcher.Fetch(context.Background(), ts.URL+"/me.vcf?token=secret", expectedUser, expectedPass)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleCard, string(body))
}

// TestHTTPFetcher_Fetch_NoCredentials verifies no Authorization header is sent without credentials.
func TestHTTPFetcher_Fetch_NoCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(sampleCard))
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	_ = rc.Close()
}

// TestHTTPFetcher_Fetch_SizeLimit verifies oversized bodies are truncated.
func TestHTTPFetcher_Fetch_SizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", config.MaxHTTPResponseSize+1024)))
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Len(t, body, config.MaxHTTPResponseSize)
}

// TestHTTPFetcher_Fetch_Errors verifies proper error handling for non-200 statuses.
func TestHTTPFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404 Not Found"},
		{"ServerError", http.StatusInternalServerError, "500"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			fetcher := engine.NewHTTPFetcher()
			rc, err := fetcher.Fetch(context.Background(), ts.URL, "", "")

			assert.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), config.ErrFetchStatus)
		})
	}
}

// TestHTTPFetcher_Fetch_Timeout ensures the client respects context deadlines.
func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	fetcher := engine.NewHTTPFetcher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fetcher.Fetch(ctx, ts.URL, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "Should return context deadline exceeded error")
}

// TestHTTPFetcher_Fetch_InvalidURL ensures malformed URLs are caught early.
func TestHTTPFetcher_Fetch_InvalidURL(t *testing.T) {
	fetcher := engine.NewHTTPFetcher()

	_, err := fetcher.Fetch(context.Background(), string([]byte{0x7f}), "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)
}

// TestHTTPFetcher_Fetch_ProtocolSecurity enforces HTTP/HTTPS only.
func TestHTTPFetcher_Fetch_ProtocolSecurity(t *testing.T) {
	fetcher := engine.NewHTTPFetcher()

	_, err := fetcher.Fetch(context.Background(), "ftp://example.com/file.vcf", "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}

// -----------------------------------------------------------------------------
// OpenVCard
// -----------------------------------------------------------------------------

type stubFetcher struct {
	url, user, pass string
}

func (s *stubFetcher) Fetch(_ context.Context, url, user, pass string) (io.ReadCloser, error) {
	s.url, s.user, s.pass = url, user, pass
	return io.NopCloser(strings.NewReader(sampleCard)), nil
}

func TestOpenVCard_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.vcf")
	require.NoError(t, os.WriteFile(path, []byte(sampleCard), 0o600))

	fetcher := &stubFetcher{}
	rc, err := engine.OpenVCard(context.Background(), fetcher, path, "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	bd, err := engine.BirthDetailsFromVCard(rc)
	require.NoError(t, err)
	assert.Equal(t, 1990, bd.Date.Year())
	assert.Empty(t, fetcher.url, "local paths never reach the fetcher")
}

func TestOpenVCard_URLUsesFetcher(t *testing.T) {
	fetcher := &stubFetcher{}
	rc, err := engine.OpenVCard(context.Background(), fetcher, "https://example.com/me.vcf", "alice", "pw")
	require.NoError(t, err)
	_ = rc.Close()

	assert.Equal(t, "https://example.com/me.vcf", fetcher.url)
	assert.Equal(t, "alice", fetcher.user)
	assert.Equal(t, "pw", fetcher.pass)
}

func TestOpenVCard_Errors(t *testing.T) {
	_, err := engine.OpenVCard(context.Background(), nil, "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrVCardSource)

	_, err = engine.OpenVCard(context.Background(), nil, filepath.Join(t.TempDir(), "missing.vcf"), "", "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
