package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateNode = errors.New("node already exists")
	ErrUnknownNode   = errors.New("node does not exist")
	ErrUnknownEdge   = errors.New("edge does not exist")
	ErrInvalidValue  = errors.New("invalid value")
)

// NodeError reports a failed operation on a single node id.
type NodeError struct {
	Op  string
	ID  string
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// EdgeError reports a failed operation on an endpoint pair.
type EdgeError struct {
	Op     string
	Source string
	Target string
	Err    error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("%s %q -> %q: %v", e.Op, e.Source, e.Target, e.Err)
}

func (e *EdgeError) Unwrap() error { return e.Err }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}
