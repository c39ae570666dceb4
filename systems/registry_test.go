package systems

import (
	"testing"

	"github.com/pthm-cable/seep/telemetry"
)

func TestRegistryCoversPhases(t *testing.T) {
	reg := NewSystemRegistry()
	for ph := telemetry.PhaseTransport; ph < telemetry.NumPhases; ph++ {
		if _, ok := reg.Lookup(ph.String()); !ok {
			t.Errorf("phase %q has no registry entry", ph)
		}
	}
	if got := len(reg.All()); got != int(telemetry.NumPhases) {
		t.Errorf("registry has %d systems, want %d", got, telemetry.NumPhases)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewSystemRegistry()
	n := len(reg.All())

	reg.Register(SystemInfo{ID: "physics", Name: "Rigid Bodies", Category: "physics"})
	if len(reg.All()) != n {
		t.Errorf("replacing grew the registry to %d", len(reg.All()))
	}
	if got := reg.Name("physics"); got != "Rigid Bodies" {
		t.Errorf("Name(physics) = %q, want Rigid Bodies", got)
	}
	if got := reg.Name("missing"); got != "missing" {
		t.Errorf("Name(missing) = %q, want the ID back", got)
	}
}

func TestRegistryGroups(t *testing.T) {
	groups := NewSystemRegistry().Groups()

	want := []struct {
		category string
		n        int
	}{
		{"transport", 2},
		{"physics", 3},
		{"driver", 2},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, w := range want {
		if groups[i].Category != w.category || len(groups[i].Systems) != w.n {
			t.Errorf("group %d = %s/%d, want %s/%d",
				i, groups[i].Category, len(groups[i].Systems), w.category, w.n)
		}
	}
}
