package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	for _, id := range []OverlayID{OverlayMesh, OverlayParticles, OverlayDomain, OverlayLegend} {
		if !reg.IsEnabled(id) {
			t.Errorf("%s should be enabled by default", id)
		}
	}
	for _, id := range []OverlayID{OverlayMeshWires, OverlayStateColors, OverlayPerf} {
		if reg.IsEnabled(id) {
			t.Errorf("%s should be disabled by default", id)
		}
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayMeshWires) {
		t.Fatal("Toggle should enable mesh wires")
	}
	if reg.IsEnabled(OverlayMesh) {
		t.Error("enabling wires should disable the solid mesh")
	}

	reg.SetEnabled(OverlayMesh, true)
	if reg.IsEnabled(OverlayMeshWires) {
		t.Error("enabling the solid mesh should disable wires")
	}

	// Disabling never re-enables the exclusive partner.
	reg.SetEnabled(OverlayMesh, false)
	if reg.IsEnabled(OverlayMeshWires) {
		t.Error("disabling the mesh should not touch wires")
	}
}

func TestOverlayHandleKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, state, ok := reg.HandleKeyPress(rl.KeyF)
	if !ok || id != OverlayPerf || !state {
		t.Errorf("HandleKeyPress(F) = (%s, %v, %v), want (perf, true, true)", id, state, ok)
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}

	if got := len(reg.Keys()); got != len(reg.All()) {
		t.Errorf("Keys() = %d keys, want %d", got, len(reg.All()))
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()

	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "scene" || cats[1] != "panels" {
		t.Errorf("Categories() = %v, want [scene panels]", cats)
	}
	if got := len(reg.ByCategory("panels")); got != 2 {
		t.Errorf("ByCategory(panels) = %d overlays, want 2", got)
	}
}
