package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Config contains scrape client configuration
type Config struct {
	Endpoint     string // external scraping service, POST {url} -> {images}
	Timeout      time.Duration
	PageFallback bool // parse the listing page ourselves when the service yields nothing
	UserAgent    string
}

// Client obtains candidate image URLs for a listing page. The external
// service does the heavy lifting (rendering, anti-bot); when it is down or
// returns nothing, the listing page itself is parsed for <img> tags before
// giving up.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; SalvageVision/1.0)"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeResponse struct {
	Images []string `json:"images"`
}

// Images returns candidate image URLs for the listing. An empty list is not
// an error; the caller decides whether that is terminal. Single attempt
// against the service, no retry.
func (c *Client) Images(ctx context.Context, listingURL string) ([]string, error) {
	images := c.fromService(ctx, listingURL)
	if len(images) == 0 && c.cfg.PageFallback {
		images = c.fromPage(ctx, listingURL)
	}
	return images, nil
}

func (c *Client) fromService(ctx context.Context, listingURL string) []string {
	if c.cfg.Endpoint == "" {
		return nil
	}

	body, err := json.Marshal(scrapeRequest{URL: listingURL})
	if err != nil {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Errorw("scrape service unreachable", "endpoint", c.cfg.Endpoint, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Errorw("scrape service failed", "status", resp.StatusCode, "body", string(msg))
		return nil
	}

	var out scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Errorw("scrape service returned invalid JSON", "err", err)
		return nil
	}
	c.log.Infow("scrape service returned images", "count", len(out.Images))
	return out.Images
}

// fromPage fetches the listing page and collects absolute <img> sources.
func (c *Client) fromPage(ctx context.Context, listingURL string) []string {
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnw("page fallback fetch failed", "url", listingURL, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warnw("page fallback got non-200", "url", listingURL, "status", resp.StatusCode)
		return nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		c.log.Warnw("page fallback parse failed", "url", listingURL, "err", err)
		return nil
	}

	images := extractImageURLs(doc, base)
	c.log.Infow("page fallback extracted images", "url", listingURL, "count", len(images))
	return images
}

// extractImageURLs walks the document collecting <img> src/data-src values
// resolved against the page URL.
func extractImageURLs(doc *html.Node, base *url.URL) []string {
	var urls []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, attr := range n.Attr {
				if attr.Key != "src" && attr.Key != "data-src" {
					continue
				}
				src := strings.TrimSpace(attr.Val)
				if src == "" || strings.HasPrefix(src, "data:") {
					continue
				}
				ref, err := url.Parse(src)
				if err != nil {
					continue
				}
				resolved := base.ResolveReference(ref).String()
				if !seen[resolved] {
					seen[resolved] = true
					urls = append(urls, resolved)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return urls
}
