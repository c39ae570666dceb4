// Slice preview tool - interactive view of geometry and velocity slices.
//
// Usage: go run ./cmd/slicepreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/seep/components"
	"github.com/pthm-cable/seep/config"
	"github.com/pthm-cable/seep/renderer"
	"github.com/pthm-cable/seep/sim"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

// view holds the slice selection.
type view struct {
	Axis   Axis
	Index  int
	Source Source
	Cutoff float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	ctx, err := sim.LoadContext(config.Cfg())
	if err != nil {
		slog.Error("load_failed", "error", err)
		os.Exit(1)
	}

	var classColors [components.NumSpeedClasses]color.RGBA
	for c := range classColors {
		classColors[c] = renderer.ClassColor(components.SpeedClass(c))
	}

	rl.InitWindow(windowWidth, windowHeight, "Slice Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	initial := view{Axis: AxisZ, Source: SourceGeometry, Cutoff: ctx.Occupancy.Cutoff}
	initial.Index = depth(ctx, initial) / 2
	cur := initial

	var texture rl.Texture2D
	var plane Plane
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			ctx.Occupancy.Cutoff = cur.Cutoff
			plane = cut(ctx, cur, config.Cfg().Simulation.VelocityScale)
			texture = resizeTexture(texture, plane)
			rl.UpdateTexture(texture, Pixels(plane, cur.Source, classColors))
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(plane.W), Height: float32(plane.H)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Plane: %dx%d  Solid voxels: %d", plane.W, plane.H, ctx.Occupancy.CountSolid()), 15, statsY, 16, rl.DarkGray)
		q := ctx.Quartiles
		rl.DrawText(fmt.Sprintf("Speed quartiles: %.4g  %.4g  %.4g", q.Q1, q.Median, q.Q3), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Slice", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Source buttons
		for s := SourceGeometry; s <= SourceClass; s++ {
			label := s.String()
			if s == cur.Source {
				label = "[" + label + "]"
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(s)*120, Y: panelY, Width: 110, Height: 30}, label) && s != cur.Source {
				cur.Source = s
				cur.Index = min(cur.Index, depth(ctx, cur)-1)
				needsRegen = true
			}
		}
		panelY += 45

		// Axis buttons
		for a := AxisX; a <= AxisZ; a++ {
			label := "Axis " + a.String()
			if a == cur.Axis {
				label = "[" + label + "]"
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(a)*120, Y: panelY, Width: 110, Height: 30}, label) && a != cur.Axis {
				cur.Axis = a
				cur.Index = depth(ctx, cur) / 2
				needsRegen = true
			}
		}
		panelY += 50

		// Index slider
		maxIndex := float32(depth(ctx, cur) - 1)
		rl.DrawText("Slice index", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newIndex := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprintf("%d", int(maxIndex)),
			float32(cur.Index), 0, maxIndex,
		)
		rl.DrawText(fmt.Sprintf("%d", cur.Index), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newIndex) != cur.Index {
			cur.Index = int(newIndex)
			needsRegen = true
		}
		panelY += 35

		// Cutoff slider
		rl.DrawText("Solid cutoff (intensity)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCutoff := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "15000",
			cur.Cutoff, 0, 15000,
		)
		rl.DrawText(fmt.Sprintf("%.0f", cur.Cutoff), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newCutoff != cur.Cutoff {
			cur.Cutoff = newCutoff
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			cur = initial
			needsRegen = true
		}
		panelY += 55

		// Legend
		if cur.Source == SourceClass {
			for c, name := range components.SpeedClassNames() {
				rl.DrawRectangle(int32(panelX), int32(panelY), 14, 14, classColors[c])
				rl.DrawText(name, int32(panelX)+20, int32(panelY), 14, rl.Gray)
				panelY += 20
			}
		}

		rl.DrawText("Press C to copy the cutoff as YAML", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf("lattice:\n  solid_cutoff: %.0f", cur.Cutoff))
		}

		rl.EndDrawing()
	}

	if texture.ID != 0 {
		rl.UnloadTexture(texture)
	}
}

// depth returns the number of slices along the current axis.
func depth(ctx *sim.Context, v view) int {
	d := ctx.Velocity.Extent()
	if v.Source == SourceGeometry {
		d = ctx.Occupancy.Extent()
	}
	_, _, n := planeDims(d, v.Axis)
	return n
}

func cut(ctx *sim.Context, v view, scale float64) Plane {
	switch v.Source {
	case SourceSpeed:
		return SpeedSlice(ctx.Velocity, v.Axis, v.Index)
	case SourceClass:
		return ClassSlice(ctx.Velocity, ctx.Thresholds, scale, v.Axis, v.Index)
	default:
		return GeometrySlice(ctx.Occupancy, v.Axis, v.Index)
	}
}

// resizeTexture reallocates t when its size no longer matches p.
func resizeTexture(t rl.Texture2D, p Plane) rl.Texture2D {
	if t.ID != 0 && int(t.Width) == p.W && int(t.Height) == p.H {
		return t
	}
	if t.ID != 0 {
		rl.UnloadTexture(t)
	}
	img := rl.GenImageColor(p.W, p.H, rl.Black)
	t = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return t
}
