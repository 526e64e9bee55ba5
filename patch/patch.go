// Package patch implements RFC 6902 JSON Patch: transactional mutation
// operations over a value.Value document, plus LCS-based diff synthesis
// between two documents. It is grounded on the corpus's
// agentflare-ai/go-jsonpatch package (see other_examples), reworked
// against this module's shared value.Value/ref.Pointer model instead of
// encoding/json's `any` tree.
package patch

import (
	"fmt"

	"github.com/objecthub/dynamicjson-go/ref"
	"github.com/objecthub/dynamicjson-go/value"
)

// Op enumerates the six RFC 6902 operation kinds.
type Op string

const (
	Add     Op = "add"
	Remove  Op = "remove"
	Replace Op = "replace"
	Move    Op = "move"
	Copy    Op = "copy"
	Test    Op = "test"
)

// Operation is one entry of a JSON Patch document.
type Operation struct {
	Op    Op
	Path  string
	From  string
	Value value.Value
}

// Patch is an ordered sequence of operations, applied transactionally:
// if any operation fails, the document is left as it was before Apply
// was called.
type Patch []Operation

// OpError reports which operation in a Patch failed and why.
type OpError struct {
	Index int
	Op    Op
	Path  string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("patch: operation %d (%s %s): %v", e.Index, e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Apply runs p against doc and returns the resulting document. It never
// mutates doc's structure in place (value.Value is immutable), but on
// failure it still discards any partial result: the returned error
// leaves the caller holding the original, untouched doc.
func Apply(doc value.Value, p Patch) (value.Value, error) {
	cur := doc
	for i, op := range p {
		next, err := applyOne(cur, op)
		if err != nil {
			return doc, &OpError{Index: i, Op: op.Op, Path: op.Path, Err: err}
		}
		cur = next
	}
	return cur, nil
}

func applyOne(doc value.Value, op Operation) (value.Value, error) {
	switch op.Op {
	case Add:
		return applyAdd(doc, op.Path, op.Value)
	case Remove:
		return applyRemove(doc, op.Path)
	case Replace:
		return applyReplace(doc, op.Path, op.Value)
	case Move:
		return applyMove(doc, op.From, op.Path)
	case Copy:
		return applyCopy(doc, op.From, op.Path)
	case Test:
		return doc, applyTest(doc, op.Path, op.Value)
	default:
		return doc, fmt.Errorf("unsupported operation %q", op.Op)
	}
}

// applyAdd implements RFC 6902 §4.1: adding a member sets/overwrites it,
// adding an array element inserts before the given index (or appends for
// "-" or an index equal to the array's current length) rather than
// overwriting, which is why this cannot simply delegate to
// ref.Pointer.Set (whose Set contract is element replacement).
func applyAdd(doc value.Value, path string, v value.Value) (value.Value, error) {
	p, err := ref.ParsePointer(path)
	if err != nil {
		return doc, err
	}
	if p.IsRoot() {
		return v, nil
	}
	parentPtr, last, ok := p.Deselect()
	if !ok {
		return doc, fmt.Errorf("path %q does not exist", path)
	}
	parent, ok := parentPtr.Get(doc)
	if !ok {
		return doc, fmt.Errorf("parent of %q does not exist", path)
	}
	switch parent.Kind() {
	case value.KindObject:
		updated, _ := parent.WithSet(last.Raw, v)
		return parentPtr.Set(doc, updated)
	case value.KindArray:
		idx := parent.Len()
		if !last.Dash {
			if !last.HasInt || last.IntVal < 0 || last.IntVal > parent.Len() {
				return doc, fmt.Errorf("index out of bounds in %q", path)
			}
			idx = last.IntVal
		}
		updated, _ := parent.WithInserted(idx, v)
		return parentPtr.Set(doc, updated)
	default:
		return doc, fmt.Errorf("parent of %q is not a container", path)
	}
}

func applyRemove(doc value.Value, path string) (value.Value, error) {
	p, err := ref.ParsePointer(path)
	if err != nil {
		return doc, err
	}
	if p.IsRoot() {
		return doc, fmt.Errorf("cannot remove document root")
	}
	parentPtr, last, ok := p.Deselect()
	if !ok {
		return doc, fmt.Errorf("path %q does not exist", path)
	}
	parent, ok := parentPtr.Get(doc)
	if !ok {
		return doc, fmt.Errorf("path %q does not exist", path)
	}
	switch parent.Kind() {
	case value.KindObject:
		updated, ok := parent.WithRemoved(last.Raw)
		if !ok {
			return doc, fmt.Errorf("path %q does not exist", path)
		}
		return parentPtr.Set(doc, updated)
	case value.KindArray:
		if !last.HasInt {
			return doc, fmt.Errorf("path %q does not exist", path)
		}
		updated, ok := parent.WithRemovedIndex(last.IntVal)
		if !ok {
			return doc, fmt.Errorf("path %q does not exist", path)
		}
		return parentPtr.Set(doc, updated)
	default:
		return doc, fmt.Errorf("path %q does not exist", path)
	}
}

func applyReplace(doc value.Value, path string, v value.Value) (value.Value, error) {
	p, err := ref.ParsePointer(path)
	if err != nil {
		return doc, err
	}
	if p.IsRoot() {
		return v, nil
	}
	if _, ok := p.Get(doc); !ok {
		return doc, fmt.Errorf("path %q does not exist", path)
	}
	return p.Set(doc, v)
}

func applyMove(doc value.Value, from, to string) (value.Value, error) {
	fp, err := ref.ParsePointer(from)
	if err != nil {
		return doc, err
	}
	if isPrefixOf(from, to) {
		return doc, fmt.Errorf("cannot move %q into its own subtree %q", from, to)
	}
	v, ok := fp.Get(doc)
	if !ok {
		return doc, fmt.Errorf("source path %q does not exist", from)
	}
	doc, err = applyRemove(doc, from)
	if err != nil {
		return doc, err
	}
	return applyAdd(doc, to, v)
}

func applyCopy(doc value.Value, from, to string) (value.Value, error) {
	fp, err := ref.ParsePointer(from)
	if err != nil {
		return doc, err
	}
	v, ok := fp.Get(doc)
	if !ok {
		return doc, fmt.Errorf("source path %q does not exist", from)
	}
	return applyAdd(doc, to, v)
}

func applyTest(doc value.Value, path string, expect value.Value) error {
	p, err := ref.ParsePointer(path)
	if err != nil {
		return err
	}
	actual, ok := p.Get(doc)
	if !ok {
		return fmt.Errorf("path %q does not exist", path)
	}
	if !actual.Equal(expect) {
		return fmt.Errorf("test failed at %q", path)
	}
	return nil
}

// isPrefixOf reports whether to names a location inside (or equal to)
// the subtree rooted at from, per RFC 6902's "move into itself" guard.
func isPrefixOf(from, to string) bool {
	if from == to {
		return true
	}
	return len(to) > len(from) && to[:len(from)] == from && to[len(from)] == '/'
}
