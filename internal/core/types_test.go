package core

import (
	"errors"
	"slices"
	"testing"
)

type stubSim struct{ name string }

func (s stubSim) Name() string   { return s.name }
func (s stubSim) Size() Size     { return Size{W: 1, H: 1} }
func (s stubSim) Reset(int64)    {}
func (s stubSim) Step()          {}
func (s stubSim) Cells() []uint8 { return []uint8{0} }

func TestRegistry(t *testing.T) {
	Register("zz-stub", func(cfg map[string]string) (Sim, error) {
		if cfg["fail"] != "" {
			return nil, errors.New("bad config")
		}
		return stubSim{name: "zz-stub"}, nil
	})
	Register("", func(map[string]string) (Sim, error) { return nil, nil })
	Register("zz-nil", nil)

	names := SimNames()
	if !slices.Contains(names, "zz-stub") || slices.Contains(names, "zz-nil") || slices.Contains(names, "") {
		t.Fatalf("unexpected registry %v", names)
	}
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
	sim, err := Sims()["zz-stub"](nil)
	if err != nil || sim.Name() != "zz-stub" {
		t.Fatalf("factory: %v %v", sim, err)
	}
	if _, err := Sims()["zz-stub"](map[string]string{"fail": "1"}); err == nil {
		t.Fatal("factory error lost")
	}
}

func TestParameterLookup(t *testing.T) {
	snap := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "a", Params: []Parameter{{Key: "x", Value: "1"}}},
		{Name: "b", Params: []Parameter{{Key: "y", Value: "2"}}},
	}}
	if p, ok := snap.Lookup("y"); !ok || p.Value != "2" {
		t.Fatalf("lookup y: %+v %v", p, ok)
	}
	if _, ok := snap.Lookup("z"); ok {
		t.Fatal("missing key found")
	}
}
