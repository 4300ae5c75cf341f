package workflows

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/keystash/internal/errors"
	"github.com/PolarWolf314/keystash/internal/store"
	"github.com/PolarWolf314/keystash/internal/validation"
)

// SetKeyOptions configures the set key workflow.
type SetKeyOptions struct {
	Common

	// Service names the key, such as "openai".
	Service string

	// Value is the API key itself.
	Value string

	Encryption Encryption

	// Validate checks the key with the service's validator before storing it.
	Validate bool

	// Registry overrides the validators from the user settings.
	Registry *validation.Registry
}

// SetKeyResult contains the outcome of storing a key.
type SetKeyResult struct {
	Service   string
	Path      string
	Encrypted bool
	Validated bool
}

// SetKey stores an API key, optionally validating it first. A key the
// validator rejects is not stored, and the error wraps ErrValidationFailed
// or ErrUnknownService.
func SetKey(ctx context.Context, opts SetKeyOptions) (*SetKeyResult, error) {
	if err := store.ValidateName(opts.Service); err != nil {
		return nil, err
	}

	st, userConfig, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	result := &SetKeyResult{
		Service:   opts.Service,
		Encrypted: opts.Encryption.resolveWrite(userConfig),
	}

	if opts.Validate {
		registry := opts.Registry
		if registry == nil {
			registry = userConfig.Registry()
		}
		opts.Logger.Infof("Validating key for %s", opts.Service)
		if _, err := registry.Check(ctx, opts.Service, opts.Value); err != nil {
			return nil, err
		}
		result.Validated = true
	}

	if err := st.PutSecret(opts.Service, opts.Value, result.Encrypted); err != nil {
		return nil, err
	}

	result.Path = st.SecretPath(opts.Service, result.Encrypted)
	opts.Logger.Infof("Stored key for %s at %s", opts.Service, result.Path)
	return result, nil
}

// GetKeyOptions configures the get key workflow.
type GetKeyOptions struct {
	Common

	Service string

	// Encryption picks the variant to read. EncryptionDefault tries the
	// encrypted key first and falls back to the plain one.
	Encryption Encryption
}

// GetKeyResult contains a retrieved key.
type GetKeyResult struct {
	Service   string
	Value     string
	Encrypted bool
}

// GetKey retrieves a stored API key. It returns ErrItemNotFound when no key
// exists and ErrCorruptItem when one exists but cannot be read.
func GetKey(ctx context.Context, opts GetKeyOptions) (*GetKeyResult, error) {
	if err := store.ValidateName(opts.Service); err != nil {
		return nil, err
	}

	st, _, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	return getKey(st, opts.Service, opts.Encryption)
}

func getKey(st *store.Store, service string, encryption Encryption) (*GetKeyResult, error) {
	var variants []bool
	switch encryption {
	case EncryptionOn:
		variants = []bool{true}
	case EncryptionOff:
		variants = []bool{false}
	default:
		variants = []bool{true, false}
	}

	for _, encrypted := range variants {
		value, ok, err := st.GetSecret(service, encrypted)
		if err != nil {
			return nil, err
		}
		if ok {
			return &GetKeyResult{Service: service, Value: value, Encrypted: encrypted}, nil
		}
	}
	return nil, fmt.Errorf("%w: key %q", kerrors.ErrItemNotFound, service)
}

// ValidateKeyOptions configures the validate key workflow.
type ValidateKeyOptions struct {
	Common

	Service string

	// Value is the key to check. When empty the stored key is checked.
	Value string

	Registry *validation.Registry
}

// ValidateKeyResult reports whether the service accepted the key.
type ValidateKeyResult struct {
	Service string
	Valid   bool

	// Reason explains a rejection.
	Reason string

	// FromStore is true when the stored key was checked.
	FromStore bool
}

// ValidateKey checks a key against the service's validator without storing
// it. A rejection is reported in the result. Errors are reserved for an
// unknown service, a missing stored key and storage failures.
func ValidateKey(ctx context.Context, opts ValidateKeyOptions) (*ValidateKeyResult, error) {
	if err := store.ValidateName(opts.Service); err != nil {
		return nil, err
	}

	st, userConfig, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	result := &ValidateKeyResult{Service: opts.Service}
	value := opts.Value
	if value == "" {
		stored, err := getKey(st, opts.Service, EncryptionDefault)
		if err != nil {
			return nil, err
		}
		value = stored.Value
		result.FromStore = true
	}

	registry := opts.Registry
	if registry == nil {
		registry = userConfig.Registry()
	}

	valid, err := registry.Check(ctx, opts.Service, value)
	if err != nil {
		if !errors.Is(err, kerrors.ErrValidationFailed) {
			return nil, err
		}
		result.Reason = err.Error()
	}
	result.Valid = valid

	opts.Logger.Infof("Validation of %s: valid=%t", opts.Service, valid)
	return result, nil
}
