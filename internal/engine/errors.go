package engine

import (
	"errors"
	"fmt"
)

// ErrMissingPrimaryKey reports a table handed to the merger without
// the identifying column. This is a precondition violation: callers
// must filter (and log) such tables before invoking the engine.
var ErrMissingPrimaryKey = errors.New("table lacks primary key column")

// missingKey wraps ErrMissingPrimaryKey with the side and column name.
func missingKey(side, column string) error {
	return fmt.Errorf("%s input: %w (%q)", side, ErrMissingPrimaryKey, column)
}
