package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/tartampluch/go-fortune/internal/config"
)

// VCardFetcher retrieves a remote contact card for onboarding.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements VCardFetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a new instance of HTTPFetcher with configured timeouts.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads a vCard. Query parameters are kept out of the logs and the
// response body is capped at config.MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompProfile),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	log.DebugContext(ctx, config.MsgVCardFetch)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.WarnContext(ctx, config.MsgVCardStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

type limitedReadCloser struct {
	io.Reader
	io.Closer
}

// OpenVCard opens source as a local file, or downloads it when it is an http(s) URL.
func OpenVCard(ctx context.Context, fetcher VCardFetcher, source, user, pass string) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, errors.New(config.ErrVCardSource)
	case strings.HasPrefix(source, config.SchemeHTTP+"://"), strings.HasPrefix(source, config.SchemeHTTPS+"://"):
		if fetcher == nil {
			fetcher = NewHTTPFetcher()
		}
		return fetcher.Fetch(ctx, source, user, pass)
	default:
		return os.Open(source)
	}
}
