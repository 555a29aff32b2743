// Package timing builds the flat sim.TimingTable from its external sources:
// a YAML table file, recorded play sessions, and derived segments declared
// as sums of other segments.
package timing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/routesim/routesim/sim"
)

var (
	// ErrUnknownTerm is wrapped when a derived segment refers to a name that
	// is neither a segment nor another derived segment.
	ErrUnknownTerm = errors.New("unknown segment in derivation")
	// ErrCycle is wrapped when derived segments refer to each other in a loop.
	ErrCycle = errors.New("derivation cycle")
)

// File is the on-disk timing table. Derived segments are evaluated into
// Segments by Table; the simulator never sees them.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type File struct {
	Segments         map[string]sim.Frame   `yaml:"segments"`
	Derived          map[string][]Term      `yaml:"derived,omitempty"`
	StepFix          map[string]sim.StepFix `yaml:"step_fix"`
	GuaranteedBlcons map[string]int         `yaml:"guaranteed_blcons"`
}

// Term is one addend of a derived segment: Times copies of Segment.
// In YAML it is either a bare name or {segment: name, times: n}.
type Term struct {
	Segment string `yaml:"segment"`
	Times   int    `yaml:"times"`
}

func (t *Term) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Segment = node.Value
		t.Times = 1
		return nil
	}
	type plain Term
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Segment == "" {
		return fmt.Errorf("line %d: derived term without segment", node.Line)
	}
	if p.Times < 0 {
		return fmt.Errorf("line %d: negative times %d for %q", node.Line, p.Times, p.Segment)
	}
	if p.Times == 0 {
		p.Times = 1
	}
	*t = Term(p)
	return nil
}

func (t Term) MarshalYAML() (interface{}, error) {
	if t.Times == 1 {
		return t.Segment, nil
	}
	type plain Term
	return plain(t), nil
}

// Parse decodes a timing file with strict field checking: typos must cause errors.
func Parse(r io.Reader) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing timing YAML: %w", err)
	}
	for name, frames := range f.Segments {
		if frames < 0 {
			return nil, fmt.Errorf("segment %q: negative duration %d", name, frames)
		}
	}
	for area, n := range f.GuaranteedBlcons {
		if n < 0 {
			return nil, fmt.Errorf("guaranteed_blcons %q: negative count %d", area, n)
		}
	}
	return &f, nil
}

// LoadFile reads and parses a timing file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading timing file: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("loaded %d segments and %d derivations from %s", len(f.Segments), len(f.Derived), path)
	return f, nil
}

// Load reads a timing file and returns its evaluated table.
func Load(path string) (*sim.TimingTable, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Table()
}

// Merge overrides segment durations with recorded ones. Recorded keys the
// file does not list are added.
func (f *File) Merge(recorded map[string]sim.Frame) {
	if f.Segments == nil {
		f.Segments = make(map[string]sim.Frame, len(recorded))
	}
	for k, v := range recorded {
		f.Segments[k] = v
	}
}

// Table evaluates every derivation and returns a fresh table. The file is
// not modified.
func (f *File) Table() (*sim.TimingTable, error) {
	tt := sim.NewTimingTable()
	for k, v := range f.Segments {
		tt.Segments[k] = v
	}
	for k, v := range f.StepFix {
		tt.StepFix[k] = v
	}
	for k, v := range f.GuaranteedBlcons {
		tt.GuaranteedBlcons[k] = v
	}

	names := make([]string, 0, len(f.Derived))
	for name := range f.Derived {
		if _, ok := f.Segments[name]; ok {
			return nil, fmt.Errorf("derived segment %q shadows a recorded segment", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	d := deriver{file: f, out: tt.Segments, state: make(map[string]int)}
	for _, name := range names {
		if _, err := d.eval(name, nil); err != nil {
			return nil, err
		}
	}
	return tt, nil
}

const (
	visiting = 1
	done     = 2
)

type deriver struct {
	file  *File
	out   map[string]sim.Frame
	state map[string]int
}

// eval returns the duration of name, evaluating derivations depth-first.
func (d *deriver) eval(name string, path []string) (sim.Frame, error) {
	if d.state[name] == done {
		return d.out[name], nil
	}
	terms, derived := d.file.Derived[name]
	if !derived {
		if v, ok := d.out[name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("%w: %q (via %v)", ErrUnknownTerm, name, path)
	}
	if d.state[name] == visiting {
		return 0, fmt.Errorf("%w: %v", ErrCycle, append(path, name))
	}
	d.state[name] = visiting
	var total sim.Frame
	for _, t := range terms {
		v, err := d.eval(t.Segment, append(path, name))
		if err != nil {
			return 0, err
		}
		total += v * sim.Frame(t.Times)
	}
	d.state[name] = done
	d.out[name] = total
	return total, nil
}

// Encode writes f as YAML with two-space indentation.
func (f *File) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding timing YAML: %w", err)
	}
	return enc.Close()
}

// Compose merges timing files in order; later files override earlier ones
// key by key within each section.
func Compose(files []*File) (*File, error) {
	if len(files) == 0 {
		return nil, errors.New("compose requires at least one timing file")
	}
	out := &File{
		Segments:         make(map[string]sim.Frame),
		Derived:          make(map[string][]Term),
		StepFix:          make(map[string]sim.StepFix),
		GuaranteedBlcons: make(map[string]int),
	}
	for _, f := range files {
		for k, v := range f.Segments {
			out.Segments[k] = v
			delete(out.Derived, k)
		}
		for k, v := range f.Derived {
			out.Derived[k] = append([]Term(nil), v...)
			delete(out.Segments, k)
		}
		for k, v := range f.StepFix {
			out.StepFix[k] = v
		}
		for k, v := range f.GuaranteedBlcons {
			out.GuaranteedBlcons[k] = v
		}
	}
	return out, nil
}
