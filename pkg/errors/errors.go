package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound                = errors.New("resource not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInternal                = errors.New("internal error")
	ErrEmptyPool               = errors.New("empty selection pool")
	ErrPoolExhausted           = errors.New("selection pool exhausted")
	ErrMissingVariantGroupType = errors.New("missing VARIANT group type")
)

// Severity tells the run orchestrator how far a failure reaches.
type Severity int

const (
	// SeverityItem failures only invalidate the record being built.
	SeverityItem Severity = iota
	// SeverityRun failures point at a misconfigured catalog or plan and must stop the run.
	SeverityRun
)

func (s Severity) String() string {
	switch s {
	case SeverityItem:
		return "item"
	case SeverityRun:
		return "run"
	default:
		return "unknown"
	}
}

// AppError represents a structured application error with a severity.
type AppError struct {
	Code     string
	Message  string
	Severity Severity
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a run-fatal lookup error.
func NotFound(resource, code string) *AppError {
	return &AppError{
		Code:     "NOT_FOUND",
		Message:  fmt.Sprintf("%s with code %s not found", resource, code),
		Severity: SeverityRun,
		Err:      ErrNotFound,
	}
}

// InvalidInput creates a run-fatal configuration error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:     "INVALID_INPUT",
		Message:  message,
		Severity: SeverityRun,
		Err:      ErrInvalidInput,
	}
}

// Internal creates a run-fatal error for unexpected failures.
func Internal(err error) *AppError {
	return &AppError{
		Code:     "INTERNAL_ERROR",
		Message:  "an internal error occurred",
		Severity: SeverityRun,
		Err:      err,
	}
}

// EmptyPoolError is returned when a selection is requested from an empty pool.
type EmptyPoolError struct {
	Pool string
}

// EmptyPool creates an EmptyPoolError for the named pool.
func EmptyPool(pool string) *EmptyPoolError {
	return &EmptyPoolError{Pool: pool}
}

func (e *EmptyPoolError) Error() string {
	if e.Pool == "" {
		return "cannot pick from an empty pool"
	}
	return fmt.Sprintf("cannot pick from empty pool %q", e.Pool)
}

func (e *EmptyPoolError) Unwrap() error {
	return ErrEmptyPool
}

// PoolExhaustedError is returned when more distinct elements are requested
// than the pool holds.
type PoolExhaustedError struct {
	Pool      string
	Requested int
	Available int
}

// PoolExhausted creates a PoolExhaustedError for the named pool.
func PoolExhausted(pool string, requested, available int) *PoolExhaustedError {
	return &PoolExhaustedError{Pool: pool, Requested: requested, Available: available}
}

func (e *PoolExhaustedError) Error() string {
	pool := e.Pool
	if pool == "" {
		pool = "elements"
	}
	return fmt.Sprintf("there are only %d %s available, %d needed (requested=%d, available=%d)",
		e.Available, pool, e.Requested, e.Requested, e.Available)
}

func (e *PoolExhaustedError) Unwrap() error {
	return ErrPoolExhausted
}

// MissingVariantGroupTypeError is returned when the catalog defines no VARIANT group type.
type MissingVariantGroupTypeError struct {
	Available []string
}

func (e *MissingVariantGroupTypeError) Error() string {
	return fmt.Sprintf("there is no VARIANT group type (found %v); add it to the catalog group types", e.Available)
}

func (e *MissingVariantGroupTypeError) Unwrap() error {
	return ErrMissingVariantGroupType
}

// WithPool labels an empty-pool or pool-exhausted error with the pool it
// came from. Other errors are returned unchanged.
func WithPool(err error, pool string) error {
	var exhausted *PoolExhaustedError
	if errors.As(err, &exhausted) {
		labeled := *exhausted
		labeled.Pool = pool
		return &labeled
	}
	var empty *EmptyPoolError
	if errors.As(err, &empty) {
		labeled := *empty
		labeled.Pool = pool
		return &labeled
	}
	return err
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// SeverityOf classifies err. Empty pools only spoil the current item; every
// other failure is structural and fatal to the run.
func SeverityOf(err error) Severity {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Severity
	}
	if errors.Is(err, ErrEmptyPool) {
		return SeverityItem
	}
	return SeverityRun
}

// Kind returns a short, stable label for err, suitable for metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrEmptyPool):
		return "empty_pool"
	case errors.Is(err, ErrPoolExhausted):
		return "pool_exhausted"
	case errors.Is(err, ErrMissingVariantGroupType):
		return "missing_variant_group_type"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// Process exit codes returned by the datagen binary.
const (
	ExitOK              = 0
	ExitInternal        = 1
	ExitInvalidInput    = 2
	ExitPoolExhausted   = 3
	ExitEmptyPool       = 4
	ExitMissingVariant  = 5
	ExitCatalogNotFound = 6
)

// ExitCode returns the process exit code for the given error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrPoolExhausted):
		return ExitPoolExhausted
	case errors.Is(err, ErrEmptyPool):
		return ExitEmptyPool
	case errors.Is(err, ErrMissingVariantGroupType):
		return ExitMissingVariant
	case errors.Is(err, ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, ErrNotFound):
		return ExitCatalogNotFound
	default:
		return ExitInternal
	}
}
