package validation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultTimeout bounds a probe request when the context has no deadline.
const DefaultTimeout = 15 * time.Second

// HTTPProbe validates a key by sending it to an authenticated endpoint. Any
// 2xx response accepts the key.
type HTTPProbe struct {
	URL string
	// Header carries the key, as Prefix followed by the key.
	Header string
	Prefix string
	// Extra holds fixed headers the endpoint requires.
	Extra map[string]string
	// Client defaults to a pooled client from go-cleanhttp.
	Client *http.Client
}

// StatusError reports a non-2xx probe response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint answered %s", e.Status)
}

func (p HTTPProbe) Validate(ctx context.Context, candidateKey string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	header := p.Header
	if header == "" {
		header = "Authorization"
	}
	req.Header.Set(header, p.Prefix+candidateKey)
	for k, v := range p.Extra {
		req.Header.Set(k, v)
	}

	client := p.Client
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// DefaultRegistry registers probes for the model-listing endpoints of the
// built-in services.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("openai", HTTPProbe{
		URL:    "https://api.openai.com/v1/models",
		Header: "Authorization",
		Prefix: "Bearer ",
	})
	r.Register("anthropic", HTTPProbe{
		URL:    "https://api.anthropic.com/v1/models",
		Header: "x-api-key",
		Extra:  map[string]string{"anthropic-version": "2023-06-01"},
	})
	r.Register("google", HTTPProbe{
		URL:    "https://generativelanguage.googleapis.com/v1beta/models",
		Header: "x-goog-api-key",
	})
	return r
}
