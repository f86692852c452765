// Package urlnorm normalizes and hashes article URLs so the same story
// reached via different tracking parameters collapses to one identity.
package urlnorm

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// trackingExactKeys are query keys stripped before hashing because they vary
// per-click and carry no identity; the utm_ and WT. prefixes are matched in
// isTrackingParam.
var trackingExactKeys = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"dclid":  true,
	"gbraid": true,
	"wbraid": true,
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	if trackingExactKeys[lower] {
		return true
	}
	if strings.HasPrefix(lower, "utm_") {
		return true
	}
	if strings.HasPrefix(key, "WT.") {
		return true
	}
	return false
}

// Normalize lowercases the scheme and host (not the path or query), strips
// the fragment, drops tracking query parameters, and stable-sorts the
// remaining query parameters by key so equivalent URLs produce identical text.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		values := u.Query()
		for key := range values {
			if isTrackingParam(key) {
				values.Del(key)
			}
		}
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var sb strings.Builder
		for i, key := range keys {
			for j, v := range values[key] {
				if i > 0 || j > 0 {
					sb.WriteByte('&')
				}
				sb.WriteString(url.QueryEscape(key))
				sb.WriteByte('=')
				sb.WriteString(url.QueryEscape(v))
			}
		}
		u.RawQuery = sb.String()
	}

	return u.String(), nil
}

// Hash computes the SHA-1 hex digest of the normalized URL. Two URLs that
// differ only by tracking parameters, fragment, or scheme/host casing hash
// to the same value.
func Hash(rawURL string) (string, error) {
	normalized, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:]), nil
}
