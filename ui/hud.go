package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Mode        string // "simulation" or "playback"
	Tick        int32
	Run         int
	Runs        int
	Rate        float64
	Live        int
	Aggregated  int
	OutOfBounds int
	Joins       int
	Partitions  int
	Triangles   int
	FPS         int32
	Paused      bool
	Done        bool
}

// HUDActions reports which HUD buttons were pressed this frame.
type HUDActions struct {
	TogglePause bool
	Step        bool
	Controls    bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD.
func NewHUD() *HUD { return &HUD{} }

// Draw renders the HUD and its buttons.
func (h *HUD) Draw(data HUDData) HUDActions {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	if data.Mode == "playback" {
		rl.DrawText(
			fmt.Sprintf("Playback | Particles: %d | Frame: %d", data.Live, data.Tick),
			10, 35, 16, rl.LightGray,
		)
	} else {
		rl.DrawText(
			fmt.Sprintf("Run: %d/%d | Rate: %.2f | Live: %d | Aggregated: %d", data.Run+1, data.Runs, data.Rate, data.Live, data.Aggregated),
			10, 35, 16, rl.LightGray,
		)
		rl.DrawText(
			fmt.Sprintf("Tick: %d | Joins: %d | Out of bounds: %d", data.Tick, data.Joins, data.OutOfBounds),
			10, 55, 16, rl.LightGray,
		)
	}

	rl.DrawText(
		fmt.Sprintf("Mesh: %d partitions, %d triangles | FPS: %d", data.Partitions, data.Triangles, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	statusText := "Running"
	switch {
	case data.Done:
		statusText = "DONE"
	case data.Paused:
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)

	var actions HUDActions
	pauseText := "Pause"
	if data.Paused {
		pauseText = "Resume"
	}
	actions.TogglePause = gui.Button(rl.Rectangle{X: 10, Y: 118, Width: 80, Height: 24}, pauseText)
	actions.Step = gui.Button(rl.Rectangle{X: 96, Y: 118, Width: 80, Height: 24}, "Step")
	actions.Controls = gui.Button(rl.Rectangle{X: 182, Y: 118, Width: 80, Height: 24}, "Overlays")
	return actions
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

