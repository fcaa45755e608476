package tbrowse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultUserAgent is sent with every HTTP request.
	DefaultUserAgent = "TermBrowser/1.0"
	// DefaultTimeout bounds an HTTP fetch.
	DefaultTimeout = 15 * time.Second
	// maxFetchBytes caps a fetched document.
	maxFetchBytes = 32 << 20
)

// ErrUnsupportedScheme reports a source URL with a scheme Fetch cannot read.
var ErrUnsupportedScheme = errors.New("unsupported scheme")

// FetchRequest configures Fetch.
type FetchRequest struct {
	// Source is "test", an http(s) or file URL, or a local path.
	Source    string
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

// Fetch returns the raw markup named by req.Source. HTTP bodies are decoded
// to UTF-8 according to their declared charset.
func Fetch(ctx context.Context, req FetchRequest) ([]byte, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return nil, fmt.Errorf("fetch: source is required")
	}
	if source == TestPageSource {
		return []byte(TestPage), nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	u, err := url.Parse(source)
	if err == nil && (strings.EqualFold(u.Scheme, "http") || strings.EqualFold(u.Scheme, "https")) {
		return fetchHTTP(ctx, req, source)
	}
	if path, ok := IsLocalSource(source); ok {
		return readFile(path)
	}
	return nil, fmt.Errorf("fetch: %q: %w", u.Scheme, ErrUnsupportedScheme)
}

func fetchHTTP(ctx context.Context, req FetchRequest, source string) ([]byte, error) {
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	ua := req.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: status %s", resp.Status)
	}
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("fetch: charset: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	return data, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return data, nil
}

// ExpandPath expands a leading "~" and makes path absolute when possible.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

// IsLocalSource reports whether source names a file on disk, returning its
// path.
func IsLocalSource(source string) (string, bool) {
	source = strings.TrimSpace(source)
	if source == "" || source == TestPageSource {
		return "", false
	}
	u, err := url.Parse(source)
	if err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if !strings.EqualFold(u.Scheme, "file") {
			return "", false
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
		return ExpandPath(path), true
	}
	return ExpandPath(source), true
}
