package resolver

import "fmt"

// ReferenceError reports a reference whose pointer cannot be navigated:
// a missing key, an out-of-range index, or traversal into a scalar.
// It carries the offending reference so callers can point at the source.
type ReferenceError struct {
	Ref     string
	Pointer string
	Reason  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("cannot resolve reference %q: %s (pointer %q)", e.Ref, e.Reason, e.Pointer)
}

// FetchError reports an external document that could not be loaded,
// whether a missing file or a failed HTTP fetch. The underlying error
// is preserved unchanged; retry policy belongs to the fetch collaborator.
type FetchError struct {
	Locator string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("cannot load external document %q: %v", e.Locator, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
