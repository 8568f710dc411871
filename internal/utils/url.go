package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL validates and normalizes a URL for QR encoding and
// redirects. It defaults a missing scheme to https, requires a host, and
// rejects anything that is not http(s).
func NormalizeURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("url is required")
	}

	if !strings.Contains(v, "://") {
		v = "https://" + v
	}

	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https urls are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("url must include a valid host")
	}
	if len(v) > 4096 {
		return "", fmt.Errorf("url is too long")
	}

	return u.String(), nil
}
