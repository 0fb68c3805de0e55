package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-fortune/internal/config"
)

// cacheItem stores one rendered document and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
	contentType  string
}

// publication is the pair of documents swapped in by a single Update.
type publication struct {
	status *cacheItem
	feed   *cacheItem
}

// FortuneServer publishes the current fortune status (JSON) and its iCalendar feed.
type FortuneServer struct {
	// Readers vastly outnumber updates, so the hot path is a lock-free load.
	cache atomic.Pointer[publication]
	Port  string
}

// NewFortuneServer creates a new instance of the server.
func NewFortuneServer(port string) *FortuneServer {
	return &FortuneServer{
		Port: port,
	}
}

// Handler returns the routes served by the publisher.
func (s *FortuneServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFortune, s.handleStatus)
	mux.HandleFunc(config.RouteFortuneICS, s.handleFeed)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *FortuneServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces both published documents.
// A document whose bytes did not change keeps its ETag and Last-Modified.
func (s *FortuneServer) Update(status, feed []byte) {
	now := time.Now().UTC()
	prev := s.cache.Load()

	next := &publication{
		status: newCacheItem(status, config.MimeJSON, now),
		feed:   newCacheItem(feed, config.MimeTextCalendar, now),
	}
	if prev != nil {
		if prev.status.etag == next.status.etag {
			next.status = prev.status
		}
		if prev.feed.etag == next.feed.etag {
			next.feed = prev.feed
		}
	}

	s.cache.Store(next)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(status)+len(feed),
		config.LogKeyETag, next.status.etag,
	)
}

func newCacheItem(data []byte, contentType string, now time.Time) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: now.Format(http.TimeFormat),
		contentType:  contentType,
	}
}

func (s *FortuneServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(p *publication) *cacheItem { return p.status })
}

func (s *FortuneServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(p *publication) *cacheItem { return p.feed })
}

// serve writes one cached document with HTTP caching support.
func (s *FortuneServer) serve(w http.ResponseWriter, r *http.Request, pick func(*publication) *cacheItem) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	pub := s.cache.Load()
	if pub == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}
	item := pick(pub)

	w.Header().Set(config.HeaderContentType, item.contentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
