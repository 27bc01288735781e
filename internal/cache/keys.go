package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

const prefixFeed = "feed"

// FeedKey is the storage key of a feed URL: a prefixed SHA-256 of the
// normalized URL, so equivalent spellings share one entry.
func FeedKey(rawURL string) string {
	hash := sha256.Sum256([]byte(normalizeURL(rawURL)))
	return prefixFeed + ":" + hex.EncodeToString(hash[:])
}

// normalizeURL lowercases the host, drops default ports, the fragment and a
// trailing slash. The query is kept: spreadsheet exports differ only by it.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && u.Port() == "80") ||
		(u.Scheme == "https" && u.Port() == "443") {
		u.Host = u.Hostname()
	}

	if u.Path == "" {
		u.Path = "/"
	} else {
		u.Path = path.Clean(u.Path)
	}
	u.Fragment = ""

	return u.String()
}
