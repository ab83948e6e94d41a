// Package scenario loads and replays YAML scripts of arena manager operations.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidScenario is returned for scripts that do not describe a runnable scenario.
	ErrInvalidScenario = errors.New("scenario: invalid scenario")
	// ErrExpectation is returned when an operation does not behave as the script expects.
	ErrExpectation = errors.New("scenario: expectation failed")
)

// Upper bounds on the buffers a scenario may ask Run to allocate.
const (
	MaxBacking = 1 << 30
	MaxSlots   = 1 << 16
)

// Scenario is a manager configuration plus an ordered list of operations.
type Scenario struct {
	Backing int  `yaml:"backing"`
	Slots   int  `yaml:"slots"`
	Ops     []Op `yaml:"ops"`
}

// Op is one step of a scenario. Exactly one of Alloc, Free, Split, Defrag or
// ExpectMerged must be set.
type Op struct {
	Alloc        *uint64    `yaml:"alloc,omitempty"`
	Free         *uint64    `yaml:"free,omitempty"`
	Split        *SplitArgs `yaml:"split,omitempty"`
	Defrag       bool       `yaml:"defrag,omitempty"`
	ExpectMerged *bool      `yaml:"expect_merged,omitempty"`

	// ExpectError is the error kind the operation must fail with,
	// e.g. "out_of_memory"; empty means it must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
	// ExpectAddr is the address alloc or split must return.
	ExpectAddr *uint64 `yaml:"expect_addr,omitempty"`
}

// SplitArgs are the arguments of a split operation.
type SplitArgs struct {
	Index int    `yaml:"index"`
	Size  uint64 `yaml:"size"`
}

// Name returns the operation name, or "" if none or several are set.
func (o *Op) Name() string {
	var names []string
	if o.Alloc != nil {
		names = append(names, "alloc")
	}
	if o.Free != nil {
		names = append(names, "free")
	}
	if o.Split != nil {
		names = append(names, "split")
	}
	if o.Defrag {
		names = append(names, "defrag")
	}
	if o.ExpectMerged != nil {
		names = append(names, "expect_merged")
	}
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

// Validate checks the scenario shape without running it.
func (s *Scenario) Validate() error {
	if s.Backing < 0 {
		return fmt.Errorf("%w: negative backing size %d", ErrInvalidScenario, s.Backing)
	}
	if s.Backing > MaxBacking {
		return fmt.Errorf("%w: backing size %d exceeds %d", ErrInvalidScenario, s.Backing, MaxBacking)
	}
	if s.Slots < 1 {
		return fmt.Errorf("%w: slots must be at least 1, got %d", ErrInvalidScenario, s.Slots)
	}
	if s.Slots > MaxSlots {
		return fmt.Errorf("%w: slots %d exceed %d", ErrInvalidScenario, s.Slots, MaxSlots)
	}
	for i := range s.Ops {
		op := &s.Ops[i]
		name := op.Name()
		if name == "" {
			return fmt.Errorf("%w: op %d must have exactly one operation key", ErrInvalidScenario, i+1)
		}
		if op.ExpectAddr != nil && name != "alloc" && name != "split" {
			return fmt.Errorf("%w: op %d: expect_addr only applies to alloc and split", ErrInvalidScenario, i+1)
		}
		if op.ExpectError != "" && op.ExpectAddr != nil {
			return fmt.Errorf("%w: op %d: expect_error and expect_addr are exclusive", ErrInvalidScenario, i+1)
		}
	}
	return nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(bytes.NewReader(buf))
}
