package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/salvage-vision/internal/domain/inspection"
	"github.com/bryanwahyu/salvage-vision/internal/middleware"
)

// Config contains fetcher configuration
type Config struct {
	UserAgent     string
	Referer       string
	Timeout       time.Duration
	MaxImageBytes int64
}

// Fetcher downloads listing photos. Some auction CDNs reject requests
// without a browser user-agent and a plausible referer, so both are sent on
// every request.
type Fetcher struct {
	cfg    Config
	client *http.Client
	log    *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxImageBytes == 0 {
		cfg.MaxImageBytes = 10 * 1024 * 1024
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Fetch downloads one image. Single attempt, 2xx only.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (*inspection.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	if f.cfg.Referer != "" {
		req.Header.Set("Referer", f.cfg.Referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, f.cfg.MaxImageBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > f.cfg.MaxImageBytes {
		return nil, fmt.Errorf("image too large: exceeds %d bytes", f.cfg.MaxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	return &inspection.Image{
		SourceURL: imageURL,
		MimeType:  strings.TrimSpace(contentType),
		Base64:    base64.StdEncoding.EncodeToString(data),
		Raw:       data,
	}, nil
}

// FetchAll downloads every URL concurrently and waits for all of them to
// settle. Failures are logged and dropped; input order is preserved in the
// result for reproducibility.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*inspection.Image {
	results := make([]*inspection.Image, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			img, err := f.Fetch(gctx, u)
			if err != nil {
				f.log.Warnw("image fetch failed", "url", u, "err", err)
				return nil
			}
			results[i] = img
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are dropped

	out := make([]*inspection.Image, 0, len(urls))
	for _, img := range results {
		if img != nil {
			out = append(out, img)
		}
	}
	middleware.CountImagesFetched(len(out))
	return out
}
