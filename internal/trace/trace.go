// Package trace loads allocation traces and replays them against an arena.
//
// A trace is a YAML document:
//
//	capacity: 4KiB
//	region: mmap
//	ops:
//	  - {op: alloc, id: header, size: 24, align: 8}
//	  - {op: alloc, id: body, size: 1KiB}
//	  - {op: free, id: body}
//
// Sizes accept plain byte counts or human units. An alloc without align uses
// the arena's MaxAlign.
package trace

import (
	"os"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pavanmanishd/stackarena"
)

const (
	OpAlloc = "alloc"
	OpFree  = "free"
)

// Size is a byte count that unmarshals from "32", "4k" or "4KiB".
type Size int

func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	n, err := units.RAMInBytes(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid size %q", value.Line, value.Value)
	}
	*s = Size(n)
	return nil
}

// File is a parsed trace.
type File struct {
	Capacity Size   `yaml:"capacity"`
	Region   string `yaml:"region"`
	Ops      []Op   `yaml:"ops"`
}

// Op is a single allocation or deallocation.
type Op struct {
	Op    string `yaml:"op"`
	ID    string `yaml:"id"`
	Size  Size   `yaml:"size"`
	Align int    `yaml:"align"`
}

// Load reads and validates the trace at path.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read trace file")
	}
	return Parse(content)
}

// Parse decodes and validates a trace.
func Parse(content []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal trace")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the trace for ops the arena would reject or that refer to
// unknown allocations.
func (f *File) Validate() error {
	if f.Capacity <= 0 {
		return errors.Errorf("capacity must be positive, got %d", f.Capacity)
	}
	if _, err := f.RegionKind(); err != nil {
		return err
	}
	live := make(map[string]bool)
	for i, op := range f.Ops {
		if op.ID == "" {
			return errors.Errorf("op %d: missing id", i)
		}
		switch op.Op {
		case OpAlloc:
			if op.Size <= 0 {
				return errors.Errorf("op %d: size must be positive, got %d", i, op.Size)
			}
			if op.Align != 0 && (op.Align < 0 || op.Align&(op.Align-1) != 0) {
				return errors.Errorf("op %d: align %d is not a power of two", i, op.Align)
			}
			if live[op.ID] {
				return errors.Errorf("op %d: id %q is already allocated", i, op.ID)
			}
			live[op.ID] = true
		case OpFree:
			if !live[op.ID] {
				return errors.Errorf("op %d: id %q is not allocated", i, op.ID)
			}
			delete(live, op.ID)
		default:
			return errors.Errorf("op %d: unknown op %q", i, op.Op)
		}
	}
	return nil
}

// RegionKind maps the region field to the arena's backing memory.
func (f *File) RegionKind() (stackarena.RegionKind, error) {
	switch f.Region {
	case "", "heap":
		return stackarena.RegionHeap, nil
	case "mmap":
		return stackarena.RegionMmap, nil
	}
	return 0, errors.Errorf("unknown region %q, want heap or mmap", f.Region)
}

// NewArena creates the arena described by the trace header.
func (f *File) NewArena(opts ...stackarena.Option) (*stackarena.Arena, error) {
	kind, err := f.RegionKind()
	if err != nil {
		return nil, err
	}
	return stackarena.New(int(f.Capacity), append(opts, stackarena.WithRegion(kind))...)
}
