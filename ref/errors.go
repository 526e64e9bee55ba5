package ref

import (
	"errors"
	"fmt"
)

// === Reference resolution errors ===
var (
	// ErrErroneousMemberSelection is returned by Set/Mutate when a member
	// segment's parent path does not resolve to an object.
	ErrErroneousMemberSelection = errors.New("erroneous member selection")

	// ErrErroneousIndexSelection is returned by Set/Mutate when an index
	// segment's parent path does not resolve to an array, or the index is
	// out of the range Set permits (see Pointer.Set append rule).
	ErrErroneousIndexSelection = errors.New("erroneous index selection")

	// ErrNotSegmentable is returned when a Location carrying a negative
	// index is converted to a Pointer.
	ErrNotSegmentable = errors.New("location cannot be converted to a pointer: negative index present")
)

// ParseError is returned by ParsePointer and Location parsing helpers. It
// is never recovered — malformed reference syntax is an exception, not
// validation data.
type ParseError struct {
	Input string
	Pos   int
	Kind  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Kind, e.Pos, e.Input)
}
