package search

import "fmt"

// QueryError reports a store-level failure while executing a search. It is
// distinct from an empty result: zero matching leads is a valid outcome and
// returns no error at all.
type QueryError struct {
	Strategy string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("search: query %q failed: %v", e.Strategy, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
