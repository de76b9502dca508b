package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
)

// maxBodyBytes caps a fetched document.
const maxBodyBytes = 4 << 20

var nowFunc = time.Now

// HTTPSource fetches a document over HTTP. Each request carries a
// cache-busting t=<unix ms> query parameter and revalidates with the last
// ETag.
type HTTPSource struct {
	url    string
	client *http.Client

	mu   sync.Mutex
	etag string
}

func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = constants.DefaultSourceTimeout
	}
	return &HTTPSource{
		url:    rawURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Location() string { return s.url }

func (s *HTTPSource) requestURL() (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", fmt.Errorf("invalid source URL: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(nowFunc().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	target, err := s.requestURL()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)

	s.mu.Lock()
	if s.etag != "" {
		req.Header.Set("If-None-Match", s.etag)
	}
	s.mu.Unlock()

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified:
		return nil, ErrNotModified
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", res.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	s.mu.Lock()
	s.etag = res.Header.Get("ETag")
	s.mu.Unlock()
	return data, nil
}

// Reset drops the remembered ETag so the next Fetch downloads the body.
func (s *HTTPSource) Reset() {
	s.mu.Lock()
	s.etag = ""
	s.mu.Unlock()
}
