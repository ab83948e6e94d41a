package sysarena

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a required input is nil or out of range.
	ErrInvalidArgument = errors.New("sysarena: invalid argument")
	// ErrInvalidSize is returned for zero-size requests.
	ErrInvalidSize = errors.New("sysarena: invalid size")
	// ErrInvalidIndex is returned when a slot index is outside the table.
	ErrInvalidIndex = errors.New("sysarena: invalid slot index")
	// ErrNotActive is returned when an operation targets an inactive arena.
	ErrNotActive = errors.New("sysarena: arena not active")
	// ErrOutOfSpace is returned when a single arena cannot satisfy a request.
	ErrOutOfSpace = errors.New("sysarena: out of space")
	// ErrOutOfMemory is returned when no arena in the table can satisfy an allocation.
	ErrOutOfMemory = errors.New("sysarena: out of memory")
	// ErrTableFull is returned when no inactive slot is left to host a new arena.
	ErrTableFull = errors.New("sysarena: slot table full")
	// ErrNotFound is returned when an address does not belong to any active arena.
	ErrNotFound = errors.New("sysarena: address not found")
)

// OpError records a failed manager operation and the inputs that caused it.
//
// The error kind can be matched with errors.Is against the sentinel errors,
// and errors.Unwrap returns the cause.
type OpError struct {
	Op    string
	Index int // slot index, -1 if not applicable
	Addr  Addr
	Size  uint64
	Err   error
}

func (e *OpError) Error() string {
	switch e.Op {
	case "free":
		return fmt.Sprintf("%s addr=%d: %v", e.Op, e.Addr, e.Err)
	case "split":
		return fmt.Sprintf("%s slot=%d size=%d: %v", e.Op, e.Index, e.Size, e.Err)
	default:
		return fmt.Sprintf("%s size=%d: %v", e.Op, e.Size, e.Err)
	}
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, index int, addr Addr, size uint64, err error) error {
	return &OpError{Op: op, Index: index, Addr: addr, Size: size, Err: err}
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidArgument, "invalid_argument"},
	{ErrInvalidSize, "invalid_size"},
	{ErrInvalidIndex, "invalid_index"},
	{ErrNotActive, "not_active"},
	{ErrOutOfSpace, "out_of_space"},
	{ErrOutOfMemory, "out_of_memory"},
	{ErrTableFull, "table_full"},
	{ErrNotFound, "not_found"},
}

// ErrorKind returns a stable snake_case name for the sentinel err matches,
// "" for nil and "unknown" for anything else.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "unknown"
}
