package tbrowse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFetchHTTPSendsUserAgentAndDecodesCharset(t *testing.T) {
	seen := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>caf\xe9</p>"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), FetchRequest{Source: srv.URL})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if ua := <-seen; ua != DefaultUserAgent {
		t.Fatalf("User-Agent = %q", ua)
	}
	if string(data) != "<p>café</p>" {
		t.Fatalf("body = %q", data)
	}

	_, err = Fetch(context.Background(), FetchRequest{Source: srv.URL, UserAgent: "custom/2"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if ua := <-seen; ua != "custom/2" {
		t.Fatalf("custom User-Agent = %q", ua)
	}
}

func TestFetchHTTPStatusAndTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), FetchRequest{Source: srv.URL + "/missing"})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
	_, err = Fetch(context.Background(), FetchRequest{Source: srv.URL + "/slow", Timeout: 50 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestFetchLocalSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<p>local</p>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, source := range []string{path, "file://" + path} {
		data, err := Fetch(context.Background(), FetchRequest{Source: source})
		if err != nil {
			t.Fatalf("%s: %v", source, err)
		}
		if string(data) != "<p>local</p>" {
			t.Fatalf("%s: body = %q", source, data)
		}
	}
	if _, err := Fetch(context.Background(), FetchRequest{Source: filepath.Join(dir, "missing.html")}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFetchTestPageAndErrors(t *testing.T) {
	data, err := Fetch(context.Background(), FetchRequest{Source: " test "})
	if err != nil || string(data) != TestPage {
		t.Fatalf("test page fetch = %d bytes, %v", len(data), err)
	}
	if _, err := Fetch(context.Background(), FetchRequest{Source: "ftp://example.com/x"}); !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
	if _, err := Fetch(context.Background(), FetchRequest{}); err == nil {
		t.Fatalf("expected error for empty source")
	}
}

func TestIsLocalSource(t *testing.T) {
	cases := []struct {
		source string
		local  bool
	}{
		{"test", false},
		{"", false},
		{"https://example.com", false},
		{"ftp://example.com", false},
		{"page.html", true},
		{"/tmp/page.html", true},
		{"file:///tmp/page.html", true},
		{"~/page.html", true},
	}
	for _, tc := range cases {
		path, ok := IsLocalSource(tc.source)
		if ok != tc.local {
			t.Fatalf("IsLocalSource(%q) = %v, want %v", tc.source, ok, tc.local)
		}
		if ok && !filepath.IsAbs(path) {
			t.Fatalf("IsLocalSource(%q) path %q is not absolute", tc.source, path)
		}
	}
	if path, _ := IsLocalSource("file:///tmp/a%20b.html"); path != "/tmp/a b.html" {
		t.Fatalf("escaped file URL path = %q", path)
	}
}
