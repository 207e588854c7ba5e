// Package contentstore retrieves file content and directory listings from a
// remote hosted repository. The concrete implementation speaks the GitHub
// Contents API; consumers depend on the Store interface so traversal logic
// never touches the network in tests.
package contentstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrNotFound is returned when the repository or path does not exist.
var ErrNotFound = errors.New("contentstore: not found")

// EntryType distinguishes directory listing entries.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// Entry is one item in a directory listing.
type Entry struct {
	Type        EntryType `json:"type"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"download_url"`
}

// Store is the narrow contract the walker and orchestrator depend on.
type Store interface {
	// GetFile returns the decoded content of a single file.
	GetFile(ctx context.Context, owner, repo, path string) (string, error)
	// ListDirectory lists the entries at path; the repository root is the
	// empty path. Entry order is whatever the remote store returns.
	ListDirectory(ctx context.Context, owner, repo, path string) ([]Entry, error)
}

const (
	defaultBaseURL = "https://api.github.com"

	cacheEntries = 512
	cacheTTL     = 5 * time.Minute
)

// GitHub implements Store against the GitHub Contents API. File content is
// cached in an expirable LRU keyed by owner/repo/path so repeated analyses of
// the same repository do not re-fetch every file within the TTL.
type GitHub struct {
	http    *http.Client
	baseURL string
	token   string
	cache   *expirable.LRU[string, string]
}

// NewGitHub creates a GitHub content store. token may be empty for public
// repositories.
func NewGitHub(token string) *GitHub {
	return &GitHub{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
		cache:   expirable.NewLRU[string, string](cacheEntries, nil, cacheTTL),
	}
}

// SetBaseURL overrides the API endpoint. Tests point this at an httptest
// server; GitHub Enterprise hosts use their own API root.
func (g *GitHub) SetBaseURL(u string) {
	g.baseURL = strings.TrimRight(u, "/")
}

// contentsResponse is the file-object shape of the Contents API.
type contentsResponse struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	Name        string `json:"name"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
	DownloadURL string `json:"download_url"`
}

// GetFile implements Store.
func (g *GitHub) GetFile(ctx context.Context, owner, repo, path string) (string, error) {
	key := owner + "/" + repo + "/" + path
	if content, ok := g.cache.Get(key); ok {
		return content, nil
	}

	body, err := g.get(ctx, g.contentsURL(owner, repo, path))
	if err != nil {
		return "", err
	}

	var file contentsResponse
	if err := json.Unmarshal(body, &file); err != nil {
		return "", fmt.Errorf("contentstore: decode file %s: %w", path, err)
	}

	content, err := decodeContent(file)
	if err != nil {
		return "", err
	}
	// Large files have no inline content; fall back to the raw download URL.
	if content == "" && file.DownloadURL != "" {
		raw, err := g.get(ctx, file.DownloadURL)
		if err != nil {
			return "", err
		}
		content = string(raw)
	}

	g.cache.Add(key, content)
	return content, nil
}

// ListDirectory implements Store.
func (g *GitHub) ListDirectory(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	body, err := g.get(ctx, g.contentsURL(owner, repo, path))
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("contentstore: decode listing %s: %w", path, err)
	}
	return entries, nil
}

// contentsURL builds the Contents API URL for a path. Path segments are
// escaped individually so names with spaces survive.
func (g *GitHub) contentsURL(owner, repo, path string) string {
	escaped := ""
	if path != "" {
		segs := strings.Split(path, "/")
		for i, s := range segs {
			segs[i] = url.PathEscape(s)
		}
		escaped = "/" + strings.Join(segs, "/")
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents%s", g.baseURL, url.PathEscape(owner), url.PathEscape(repo), escaped)
}

// get performs an authenticated GET and returns the response body.
func (g *GitHub) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("contentstore: new request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contentstore: get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("contentstore: get %s: unexpected status %s", u, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("contentstore: read body: %w", err)
	}
	return body, nil
}

// decodeContent decodes the inline content field of a file response.
// The API wraps base64 payloads with newlines every 60 characters.
func decodeContent(file contentsResponse) (string, error) {
	if file.Content == "" {
		return "", nil
	}
	if file.Encoding != "base64" {
		return file.Content, nil
	}
	cleaned := strings.ReplaceAll(file.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("contentstore: decode base64 %s: %w", file.Path, err)
	}
	return string(decoded), nil
}
