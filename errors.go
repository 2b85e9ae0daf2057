package adcanvas

import (
	"errors"
	"fmt"
)

// ErrMissingPages is returned by Combine when the document has no pages
// field at all. This is the only structural error: it aborts the render
// with no partial image.
var ErrMissingPages = errors.New("invalid document structure: missing pages")

// ElementError describes a recoverable failure preparing one element's
// layer. The element is simply absent from the output; rendering of the
// remaining elements continues.
type ElementError struct {
	Page  int    // zero-based page index
	Index int    // zero-based child index within the page
	ID    string // element id, may be empty
	Type  string // element type
	Err   error
}

func (e *ElementError) Error() string {
	id := e.ID
	if id == "" {
		id = "N/A"
	}
	return fmt.Sprintf("page %d child %d (id=%s, type=%s): %v", e.Page, e.Index, id, e.Type, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// ErrorStrings flattens a list of element errors into plain strings for
// callers that persist or report them.
func ErrorStrings(errs []ElementError) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i := range errs {
		out[i] = errs[i].Error()
	}
	return out
}
