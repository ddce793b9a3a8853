package analytics

import "fmt"

// InvalidFilterError reports a filter the engine refuses to evaluate: a malformed
// id, an unparseable date or an inverted date range. It is a client error.
type InvalidFilterError struct {
	Field   string
	Message string
}

func (e *InvalidFilterError) Error() string {
	return e.Message
}

func invalidFilter(field, format string, args ...any) *InvalidFilterError {
	return &InvalidFilterError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StoreUnavailableError wraps a failed read against the catalog or order store.
// The engine never retries; the cause stays reachable through errors.Is/As.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("analytics: store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
