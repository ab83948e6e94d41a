package scenario

import (
	"fmt"

	"github.com/hupe1980/sysarena"
)

// Result is the outcome of a replayed scenario.
type Result struct {
	// Lines holds one human-readable line per executed operation.
	Lines []string
	// Manager is the manager in its final state.
	Manager *sysarena.Manager
}

// Run replays s against a fresh manager built with opts.
//
// It stops at the first operation that misses its expectation and returns
// the partial result together with an error wrapping ErrExpectation.
func Run(s *Scenario, opts ...sysarena.Option) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m, err := sysarena.New(make([]byte, s.Backing), make([]sysarena.Arena, s.Slots), opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario: create manager: %w", err)
	}

	res := &Result{Manager: m}
	for i := range s.Ops {
		line, err := step(m, &s.Ops[i])
		res.Lines = append(res.Lines, fmt.Sprintf("#%d %s", i+1, line))
		if err != nil {
			return res, fmt.Errorf("op %d: %w", i+1, err)
		}
	}
	return res, nil
}

func step(m *sysarena.Manager, op *Op) (string, error) {
	var (
		desc string
		addr *sysarena.Addr
		err  error
	)

	switch op.Name() {
	case "alloc":
		desc = fmt.Sprintf("alloc %d", *op.Alloc)
		a, aerr := m.Allocate(*op.Alloc)
		addr, err = &a, aerr
	case "free":
		desc = fmt.Sprintf("free %d", *op.Free)
		err = m.Free(sysarena.Addr(*op.Free))
	case "split":
		desc = fmt.Sprintf("split slot=%d size=%d", op.Split.Index, op.Split.Size)
		a, serr := m.Split(op.Split.Index, op.Split.Size)
		addr, err = &a, serr
	case "defrag":
		m.Defragment()
		return fmt.Sprintf("defrag -> active=%d", m.ActiveCount()), nil
	case "expect_merged":
		got := m.IsFullyMerged()
		line := fmt.Sprintf("expect_merged %t -> %t", *op.ExpectMerged, got)
		if got != *op.ExpectMerged {
			return line, fmt.Errorf("%w: fully merged is %t", ErrExpectation, got)
		}
		return line, nil
	}

	return check(desc, op, addr, err)
}

func check(desc string, op *Op, addr *sysarena.Addr, err error) (string, error) {
	if err != nil {
		kind := sysarena.ErrorKind(err)
		line := fmt.Sprintf("%s -> error %s", desc, kind)
		if op.ExpectError == "" {
			return line, fmt.Errorf("%w: unexpected error: %w", ErrExpectation, err)
		}
		if op.ExpectError != kind {
			return line, fmt.Errorf("%w: want error %s, got %w", ErrExpectation, op.ExpectError, err)
		}
		return line + " (expected)", nil
	}

	if op.ExpectError != "" {
		return desc + " -> ok", fmt.Errorf("%w: want error %s, got success", ErrExpectation, op.ExpectError)
	}
	if addr == nil {
		return desc + " -> ok", nil
	}

	line := fmt.Sprintf("%s -> addr=%d", desc, *addr)
	if op.ExpectAddr != nil && uint64(*addr) != *op.ExpectAddr {
		return line, fmt.Errorf("%w: want addr %d, got %d", ErrExpectation, *op.ExpectAddr, *addr)
	}
	return line, nil
}
