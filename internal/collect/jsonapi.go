package collect

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// JSONAPIConfig describes how to walk a JSON API response: ItemsPath is the
// dotted path to the array of items (e.g. "data.articles"), and each of the
// field paths is resolved per-item relative to that array element, e.g.
// "a.b[0].c" walks into nested objects and indexes arrays along the way.
type JSONAPIConfig struct {
	ItemsPath   string
	URLPath     string
	TitlePath   string
	DatePath    string
}

// JSONAPISource collects items from a JSON API endpoint.
type JSONAPISource struct {
	Client    *http.Client
	UserAgent string
}

func NewJSONAPISource(timeout time.Duration, userAgent string) *JSONAPISource {
	return &JSONAPISource{Client: &http.Client{Timeout: timeout}, UserAgent: userAgent}
}

func (j *JSONAPISource) Collect(apiURL, sourceName string, cfg JSONAPIConfig) ([]RawItem, error) {
	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if j.UserAgent != "" {
		req.Header.Set("User-Agent", j.UserAgent)
	}

	resp, err := j.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch json api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode json api response: %w", err)
	}

	rawItems, err := resolvePath(payload, cfg.ItemsPath)
	if err != nil {
		return nil, fmt.Errorf("resolve items path %q: %w", cfg.ItemsPath, err)
	}
	list, ok := rawItems.([]any)
	if !ok {
		return nil, fmt.Errorf("items path %q did not resolve to an array", cfg.ItemsPath)
	}

	items := make([]RawItem, 0, len(list))
	for _, entry := range list {
		url, _ := resolveString(entry, cfg.URLPath)
		title, _ := resolveString(entry, cfg.TitlePath)
		dateStr, _ := resolveString(entry, cfg.DatePath)
		if url == "" || title == "" {
			continue
		}
		items = append(items, RawItem{
			URL:         url,
			Title:       title,
			Source:      sourceName,
			PublishedAt: parseFeedDate(dateStr),
		})
	}
	return items, nil
}

func resolveString(v any, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	resolved, err := resolvePath(v, path)
	if err != nil {
		return "", err
	}
	switch t := resolved.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

// resolvePath walks a dotted path with optional [n] array indexing, e.g.
// "a.b[0].c", against a decoded JSON value tree.
func resolvePath(v any, path string) (any, error) {
	if path == "" {
		return v, nil
	}
	segments := strings.Split(path, ".")
	current := v
	for _, seg := range segments {
		key := seg
		var index = -1
		if open := strings.Index(seg, "["); open >= 0 && strings.HasSuffix(seg, "]") {
			key = seg[:open]
			idxStr := seg[open+1 : len(seg)-1]
			n, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("invalid array index in segment %q: %w", seg, err)
			}
			index = n
		}

		if key != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("segment %q: expected object", key)
			}
			current, ok = obj[key]
			if !ok {
				return nil, fmt.Errorf("segment %q: key not found", key)
			}
		}

		if index >= 0 {
			arr, ok := current.([]any)
			if !ok || index >= len(arr) {
				return nil, fmt.Errorf("segment %q: index %d out of range", seg, index)
			}
			current = arr[index]
		}
	}
	return current, nil
}
