package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// Fetcher retrieves the raw markdown for one article.
type Fetcher interface {
	Fetch(ctx context.Context, category, filename string) (string, error)
}

// ErrInvalidName rejects names that would escape their category.
var ErrInvalidName = errors.New("article: invalid name")

// StatusError reports a non-2xx answer from the content server.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("article: GET %s: unexpected status %d", e.URL, e.Code)
}

const maxArticleSize = 4 << 20

// ErrTooLarge is returned for articles over the size limit.
var ErrTooLarge = errors.New("article: too large")

// HTTPFetcher issues GET {BaseURL}{category}/{filename}.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher normalizes base so it always ends with a slash.
func NewHTTPFetcher(base string, client *http.Client) *HTTPFetcher {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{BaseURL: base, Client: client}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, category, filename string) (string, error) {
	if err := validName(category); err != nil {
		return "", err
	}
	if err := validName(filename); err != nil {
		return "", err
	}
	u := f.BaseURL + url.PathEscape(category) + "/" + url.PathEscape(filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("article: build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("article: GET %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: u, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleSize+1))
	if err != nil {
		return "", fmt.Errorf("article: read %s: %w", u, err)
	}
	if len(body) > maxArticleSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, u, maxArticleSize)
	}
	return text(body), nil
}

// FSFetcher reads {Root}/{category}/{filename} from an fs.FS.
type FSFetcher struct {
	FS   fs.FS
	Root string
}

// Fetch implements Fetcher.
func (f *FSFetcher) Fetch(_ context.Context, category, filename string) (string, error) {
	if err := validName(category); err != nil {
		return "", err
	}
	if err := validName(filename); err != nil {
		return "", err
	}
	root := f.Root
	if root == "" {
		root = "."
	}
	body, err := fs.ReadFile(f.FS, path.Join(root, category, filename))
	if err != nil {
		return "", fmt.Errorf("article: read %s/%s: %w", category, filename, err)
	}
	return text(body), nil
}

func validName(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return nil
}

func text(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}
