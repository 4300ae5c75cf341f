package validation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
)

// Validator accepts or rejects a candidate key. A nil error means accepted.
type Validator interface {
	Validate(ctx context.Context, candidateKey string) error
}

// Func adapts a plain function to the Validator interface.
type Func func(ctx context.Context, candidateKey string) error

func (f Func) Validate(ctx context.Context, candidateKey string) error {
	return f(ctx, candidateKey)
}

// Registry maps service identifiers to validators.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{validators: map[string]Validator{}}
}

// Register adds or replaces the validator for service.
func (r *Registry) Register(service string, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[service] = v
}

// Services returns the registered service identifiers, sorted.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]string, 0, len(r.validators))
	for s := range r.validators {
		services = append(services, s)
	}
	sort.Strings(services)
	return services
}

// Check runs the validator registered for service against candidateKey.
// It returns true only when the validator accepts the key.
func (r *Registry) Check(ctx context.Context, service, candidateKey string) (ok bool, err error) {
	r.mu.RLock()
	v, found := r.validators[service]
	r.mu.RUnlock()
	if !found {
		return false, fmt.Errorf("%w: %q", kerrors.ErrUnknownService, service)
	}

	defer func() {
		if p := recover(); p != nil {
			ok = false
			err = fmt.Errorf("%w: %s: validator panicked: %v", kerrors.ErrValidationFailed, service, p)
		}
	}()

	if err := v.Validate(ctx, candidateKey); err != nil {
		return false, fmt.Errorf("%w: %s: %w", kerrors.ErrValidationFailed, service, err)
	}
	return true, nil
}
