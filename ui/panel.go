// Package ui draws the viewer's panels: HUD, overlay toggles, class legend
// and system performance.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel metrics in pixels.
const (
	Padding    int32 = 10
	LineHeight int32 = 16
	FontSize   int32 = 12
	HeaderSize int32 = 14
	TitleSize  int32 = 16
	LabelWidth int32 = 80
	barHeight  int32 = 12
	titleGap   int32 = 4
)

var (
	panelBg     = rl.Color{R: 20, G: 25, B: 30, A: 235}
	panelBorder = rl.Color{R: 60, G: 70, B: 80, A: 255}
	labelColor  = rl.LightGray
	keyColor    = rl.Color{R: 150, G: 150, B: 150, A: 255}
	barBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	toggleOff   = rl.Color{R: 80, G: 80, B: 80, A: 255}
	toggleOn    = rl.Color{R: 100, G: 200, B: 100, A: 255}
)

// Panel is a bordered box filled top-down. Each row method draws at the
// cursor and moves it down.
type Panel struct {
	X, Y, Width int32

	height int32
	cursor int32
}

// Rows is the height of a panel with a title and n rows.
func Rows(n int) int32 {
	return 2*Padding + LineHeight + titleGap + int32(n)*LineHeight
}

// Begin draws the background at height h and places the cursor inside the
// top padding.
func (p *Panel) Begin(h int32) {
	p.height = h
	p.cursor = p.Y + Padding
	rl.DrawRectangle(p.X, p.Y, p.Width, h, panelBg)
	rl.DrawRectangleLines(p.X, p.Y, p.Width, h, panelBorder)
}

// Bottom is the Y just below the panel.
func (p *Panel) Bottom() int32 { return p.Y + p.height }

func (p *Panel) left() int32  { return p.X + Padding }
func (p *Panel) inner() int32 { return p.Width - 2*Padding }

// Title draws the panel heading.
func (p *Panel) Title(text string) {
	rl.DrawText(text, p.left(), p.cursor, TitleSize, rl.White)
	p.cursor += LineHeight + titleGap
}

// Header draws a section heading.
func (p *Panel) Header(text string) {
	rl.DrawText(text, p.left(), p.cursor, HeaderSize, rl.Yellow)
	p.cursor += LineHeight
}

// Text draws one line in color.
func (p *Panel) Text(text string, color rl.Color) {
	rl.DrawText(text, p.left(), p.cursor, FontSize, color)
	p.cursor += LineHeight
}

// Field draws "label: value" with values aligned at LabelWidth.
func (p *Panel) Field(label, value string) {
	rl.DrawText(label+":", p.left(), p.cursor, FontSize, labelColor)
	rl.DrawText(value, p.left()+LabelWidth, p.cursor, FontSize, labelColor)
	p.cursor += LineHeight
}

// Bar draws a labelled share bar; value is clamped to [0, 1].
func (p *Panel) Bar(label string, value float32, fill rl.Color) {
	value = max(0, min(value, 1))
	x := p.left() + LabelWidth
	w := p.inner() - LabelWidth - 40

	rl.DrawText(label+":", p.left(), p.cursor, FontSize, labelColor)
	rl.DrawRectangle(x, p.cursor+2, w, barHeight, barBg)
	rl.DrawRectangle(x, p.cursor+2, int32(float32(w)*value), barHeight, fill)
	rl.DrawText(fmt.Sprintf("%3.0f%%", value*100), x+w+5, p.cursor, FontSize, labelColor)
	p.cursor += LineHeight
}

// Toggle draws an on/off marker, a name and a right-aligned key hint.
func (p *Panel) Toggle(name, key string, on bool) {
	marker, nameColor := toggleOff, labelColor
	if on {
		marker, nameColor = toggleOn, rl.White
	}
	rl.DrawRectangle(p.left(), p.cursor+2, 8, 8, marker)
	rl.DrawText(name, p.left()+14, p.cursor, FontSize, nameColor)
	if key != "" {
		hint := "[" + key + "]"
		rl.DrawText(hint, p.left()+p.inner()-rl.MeasureText(hint, FontSize), p.cursor, FontSize, keyColor)
	}
	p.cursor += LineHeight
}

// Gap moves the cursor down by h pixels.
func (p *Panel) Gap(h int32) { p.cursor += h }
