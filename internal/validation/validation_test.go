package validation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

func TestRegistry_UnknownService(t *testing.T) {
	r := NewRegistry()
	ok, err := r.Check(context.Background(), "nope", "key")
	if ok {
		t.Errorf("Expected unknown service to be rejected")
	}
	if !errors.Is(err, kerrors.ErrUnknownService) {
		t.Errorf("Expected ErrUnknownService, got: %v", err)
	}
}

func TestRegistry_AcceptAndReject(t *testing.T) {
	r := NewRegistry()
	cause := errors.New("bad key")
	r.Register("svc", Func(func(ctx context.Context, key string) error {
		if key == "good" {
			return nil
		}
		return cause
	}))

	ok, err := r.Check(context.Background(), "svc", "good")
	if err != nil || !ok {
		t.Errorf("Expected good key accepted, got ok=%v err=%v", ok, err)
	}

	ok, err = r.Check(context.Background(), "svc", "bad")
	if ok {
		t.Errorf("Expected bad key rejected")
	}
	if !errors.Is(err, kerrors.ErrValidationFailed) || !errors.Is(err, cause) {
		t.Errorf("Expected ErrValidationFailed wrapping the cause, got: %v", err)
	}
}

func TestRegistry_PanicIsRejection(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", Func(func(ctx context.Context, key string) error {
		panic("sdk exploded")
	}))

	ok, err := r.Check(context.Background(), "boom", "key")
	if ok {
		t.Errorf("Expected panicking validator to reject")
	}
	if !errors.Is(err, kerrors.ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed, got: %v", err)
	}
}

func TestRegistry_RegisterReplacesAndServicesSorted(t *testing.T) {
	r := NewRegistry()
	reject := Func(func(context.Context, string) error { return errors.New("no") })
	accept := Func(func(context.Context, string) error { return nil })

	r.Register("zeta", reject)
	r.Register("alpha", reject)
	r.Register("zeta", accept)

	if got := r.Services(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("Expected [alpha zeta], got: %v", got)
	}
	if ok, _ := r.Check(context.Background(), "zeta", "k"); !ok {
		t.Errorf("Expected replaced validator to accept")
	}
}

func TestDefaultRegistry_Services(t *testing.T) {
	expected := []string{"anthropic", "google", "openai"}
	if got := DefaultRegistry().Services(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got: %v", expected, got)
	}
}

func TestHTTPProbe_SendsKeyAndAccepts2xx(t *testing.T) {
	var gotAuth, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("X-Version")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	probe := HTTPProbe{
		URL:    server.URL,
		Prefix: "Bearer ",
		Extra:  map[string]string{"X-Version": "1"},
		Client: server.Client(),
	}
	if err := probe.Validate(context.Background(), "sk-123"); err != nil {
		t.Fatalf("Expected key accepted, got: %v", err)
	}
	if gotAuth != "Bearer sk-123" {
		t.Errorf("Expected Authorization %q, got: %q", "Bearer sk-123", gotAuth)
	}
	if gotVersion != "1" {
		t.Errorf("Expected X-Version header, got: %q", gotVersion)
	}
}

func TestHTTPProbe_RejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	r := NewRegistry()
	r.Register("svc", HTTPProbe{URL: server.URL, Header: "X-Api-Key"})

	ok, err := r.Check(context.Background(), "svc", "bad")
	if ok {
		t.Errorf("Expected 401 to reject the key")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected StatusError 401, got: %v", err)
	}
	if !errors.Is(err, kerrors.ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed, got: %v", err)
	}
}

func TestHTTPProbe_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := HTTPProbe{URL: server.URL}.Validate(ctx, "k")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context deadline error, got: %v", err)
	}
}

func TestHTTPProbe_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if err := (HTTPProbe{URL: url}).Validate(context.Background(), "k"); err == nil {
		t.Errorf("Expected an error for a closed endpoint")
	}
}
