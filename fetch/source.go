package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultSourceURL = "https://jsonplaceholder.typicode.com/photos"
	defaultTimeout   = 30 * time.Second
)

// Source yields the raw photo list payload.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
	String() string
}

// HTTPSource loads the payload with a GET request.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	if url == "" {
		url = DefaultSourceURL
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

func (s *HTTPSource) String() string {
	return s.url
}

func (s *HTTPSource) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return body, nil
}
