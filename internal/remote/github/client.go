// Package github implements interfaces.RemoteClient against the GitHub
// contents, git trees and raw download endpoints.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "go-docsync"

	rateLimitHeader = "X-RateLimit-Remaining"
)

var (
	// ErrUnexpectedStatus is wrapped by every non-2xx response error.
	ErrUnexpectedStatus = errors.New("github: unexpected response status")
	// ErrMissingEndpoint is returned when a required URL is not configured.
	ErrMissingEndpoint = errors.New("github: endpoint not configured")
)

// StatusError describes a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s returned %s", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Config holds the endpoints of the documentation repository.
type Config struct {
	// ContentsURL lists the docs directory through the contents API.
	ContentsURL string
	// TreesURL is the git trees API base; the directory hash is appended.
	TreesURL string
	// RawBaseURL is the raw download base; mirrored paths are appended.
	RawBaseURL string
	Timeout    time.Duration
	UserAgent  string
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client talks to GitHub over plain HTTP.
type Client struct {
	contentsURL string
	treesURL    string
	rawBaseURL  string
	userAgent   string
	httpClient  *http.Client
	logger      interfaces.Logger
}

var _ interfaces.RemoteClient = (*Client)(nil)

// New creates a client.
func New(cfg Config, logger interfaces.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		contentsURL: strings.TrimSpace(cfg.ContentsURL),
		treesURL:    strings.TrimRight(strings.TrimSpace(cfg.TreesURL), "/"),
		rawBaseURL:  strings.TrimRight(strings.TrimSpace(cfg.RawBaseURL), "/"),
		userAgent:   userAgent,
		httpClient:  httpClient,
		logger:      logging.Ensure(logger),
	}
}

type contentItem struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

type treeResponse struct {
	SHA       string     `json:"sha"`
	Tree      []treeItem `json:"tree"`
	Truncated bool       `json:"truncated"`
}

type treeItem struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// FetchTopLevelListing lists the configured docs directory.
func (c *Client) FetchTopLevelListing(ctx context.Context) ([]interfaces.RemoteEntry, error) {
	if c.contentsURL == "" {
		return nil, fmt.Errorf("%w: contents url", ErrMissingEndpoint)
	}

	var items []contentItem
	if err := c.getJSON(ctx, c.contentsURL, &items); err != nil {
		return nil, err
	}

	entries := make([]interfaces.RemoteEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, interfaces.RemoteEntry{
			Name: item.Name,
			SHA:  item.SHA,
			Kind: contentKind(item.Type),
		})
	}
	return entries, nil
}

// FetchRecursiveTree lists every entry below the tree identified by sha in a
// single request.
func (c *Client) FetchRecursiveTree(ctx context.Context, sha string) ([]interfaces.RemoteTreeItem, error) {
	if c.treesURL == "" {
		return nil, fmt.Errorf("%w: trees url", ErrMissingEndpoint)
	}

	endpoint := c.treesURL + "/" + url.PathEscape(sha) + "?recursive=true"
	var resp treeResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.Truncated {
		c.logger.Warn("remote.tree.truncated", "sha", sha, "entries", len(resp.Tree))
	}

	items := make([]interfaces.RemoteTreeItem, 0, len(resp.Tree))
	for _, entry := range resp.Tree {
		items = append(items, interfaces.RemoteTreeItem{
			Path: entry.Path,
			Kind: interfaces.EntryKind(entry.Type),
			SHA:  entry.SHA,
		})
	}
	return items, nil
}

// FetchRawFile downloads a file relative to the raw base URL. Any failure is
// logged and reported through the boolean.
func (c *Client) FetchRawFile(ctx context.Context, path string) ([]byte, bool) {
	if c.rawBaseURL == "" {
		c.logger.Error("remote.raw.no_endpoint", "path", path)
		return nil, false
	}

	endpoint := c.rawBaseURL + "/" + escapePath(path)
	resp, err := c.do(ctx, endpoint)
	if err != nil {
		c.logger.Warn("remote.raw.failed", "path", path, "url", endpoint, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("remote.raw.read_failed", "path", path, "error", err)
		return nil, false
	}
	return data, true
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get(rateLimitHeader); remaining != "" {
		c.logger.Debug("remote.rate_limit", "remaining", remaining, "url", endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("github: decode %s: %w", endpoint, err)
	}
	return nil
}

// do issues a GET and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: get %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

func contentKind(kind string) interfaces.EntryKind {
	if kind == "dir" {
		return interfaces.EntryKindTree
	}
	return interfaces.EntryKindBlob
}

func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
