package middleware

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Input validation and URL sanitization utilities

// MaxImageURLs caps how many image URLs one analysis will process.
const MaxImageURLs = 20

// Private/reserved ranges the server must never be asked to fetch from
// (SSRF protection). Hostnames resolving to names are matched literally;
// IP literals are matched against these blocks.
var blockedNets []*net.IPNet

func init() {
	for _, cidr := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"127.0.0.0/8",
		"0.0.0.0/8",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	} {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("bad builtin CIDR %q: %v", cidr, err))
		}
		blockedNets = append(blockedNets, block)
	}
}

// isPrivateOrReservedHost reports whether the hostname is localhost, a
// loopback name, or an IP literal inside a private/reserved block.
func isPrivateOrReservedHost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, block := range blockedNets {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}

// ValidateURL checks that a string is a safe, fetchable public HTTP(S) URL.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("URL has no host")
	}
	if isPrivateOrReservedHost(u.Hostname()) {
		return fmt.Errorf("localhost/private network targets are not allowed")
	}
	return nil
}

// IsValidHTTPURL is the boolean form of ValidateURL.
func IsValidHTTPURL(rawURL string) bool {
	return ValidateURL(rawURL) == nil
}

// SanitizeImageURLs silently drops invalid entries and caps the result at
// MaxImageURLs. Invalid image URLs are excluded, never fatal.
func SanitizeImageURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || !IsValidHTTPURL(u) {
			continue
		}
		out = append(out, u)
		if len(out) == MaxImageURLs {
			break
		}
	}
	return out
}

// ValidateLimit clamps a history page size.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}
