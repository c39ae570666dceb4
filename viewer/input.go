package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/seep/ui"
)

// handleInput processes keyboard, mouse and HUD button input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Buttons were drawn last frame
	a := v.actions
	v.actions = ui.HUDActions{}

	if rl.IsKeyPressed(rl.KeySpace) || a.TogglePause {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyN) || a.Step {
		v.paused = true
		v.stepOnce = true
	}
	if rl.IsKeyPressed(rl.KeyO) || a.Controls {
		v.controls.Toggle()
	}

	for _, key := range v.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			v.overlays.HandleKeyPress(key)
		}
	}

	v.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !v.overHUD() {
		v.selected, v.hasSelection = v.findParticleAtMouse()
	}
}

// handleResize checks for window resize and moves right-anchored panels.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.perfPanel.SetPosition(w-270, 16)
}

// handleCameraInput processes camera orbit and free-look controls.
func (v *Viewer) handleCameraInput() {
	if rl.IsKeyPressed(rl.KeyTab) {
		v.orbit = !v.orbit
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		v.resetCamera()
		return
	}

	switch {
	case v.orbit:
		rl.UpdateCamera(&v.camera, rl.CameraOrbital)
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		rl.UpdateCamera(&v.camera, rl.CameraFree)
	}
}

// overHUD reports whether the mouse is over the top-left HUD block.
func (v *Viewer) overHUD() bool {
	m := rl.GetMousePosition()
	return m.X < 280 && m.Y < 145
}
