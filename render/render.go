// Package render implements the painter: it converts a layout tree
// into a display list of solid-color rectangles, then rasterizes the
// display list into a pixel canvas. There is no text rendering, no
// images, and no alpha blending — a later command simply overwrites
// whatever pixels it covers.
//
// Spec references:
// - CSS 2.1 §14 Colors and backgrounds
// - CSS 2.1 §8 Box model
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/lukehoban/minibrowser/css"
	"github.com/lukehoban/minibrowser/layout"
)

// DisplayCommand is a single paint operation. Every command is a
// solid-color fill of Rect with Color.
type DisplayCommand struct {
	Color color.RGBA
	Rect  layout.Rect
}

// BuildDisplayList walks the layout tree in pre-order and produces the
// list of paint operations: a background-color fill over the
// border box, followed by up to four border-color strips (top, left,
// right, bottom), per spec §4.5.
func BuildDisplayList(root *layout.LayoutBox) []DisplayCommand {
	var list []DisplayCommand
	renderNode(&list, root)
	return list
}

func renderNode(list *[]DisplayCommand, box *layout.LayoutBox) {
	if col, ok := boxColor(box, "background-color"); ok {
		*list = append(*list, DisplayCommand{Color: col, Rect: box.BorderBox()})
	}

	if col, ok := boxColor(box, "border-color"); ok {
		border := box.BorderBox()
		d := box.Dimensions

		*list = append(*list, DisplayCommand{Color: col, Rect: layout.Rect{
			X: border.X, Y: border.Y, Width: border.Width, Height: d.Border.Top,
		}})
		*list = append(*list, DisplayCommand{Color: col, Rect: layout.Rect{
			X: border.X, Y: border.Y, Width: d.Border.Left, Height: border.Height,
		}})
		*list = append(*list, DisplayCommand{Color: col, Rect: layout.Rect{
			X: border.X + border.Width - d.Border.Right, Y: border.Y, Width: d.Border.Right, Height: border.Height,
		}})
		*list = append(*list, DisplayCommand{Color: col, Rect: layout.Rect{
			X: border.X, Y: border.Y + border.Height - d.Border.Bottom, Width: border.Width, Height: d.Border.Bottom,
		}})
	}

	for _, child := range box.Children {
		renderNode(list, child)
	}
}

// boxColor looks up a color-valued property on the box's own styled
// node. Anonymous and text-wrapping boxes carry no properties of their
// own and never contribute a color.
func boxColor(box *layout.LayoutBox, property string) (color.RGBA, bool) {
	if box.StyledNode == nil || box.IsTextNode() {
		return color.RGBA{}, false
	}
	v, ok := box.StyledNode.Properties[property]
	if !ok || v.Kind != css.ColorValue {
		return color.RGBA{}, false
	}
	return color.RGBA{R: v.Color.R, G: v.Color.G, B: v.Color.B, A: v.Color.A}, true
}

// Canvas is the rasterization target: a flat, white-initialized pixel
// buffer addressed row-major.
type Canvas struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewCanvas creates a white canvas of the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{Width: width, Height: height, Pixels: make([]color.RGBA, width*height)}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for i := range c.Pixels {
		c.Pixels[i] = white
	}
	return c
}

// handleCommand rasterizes one command by clamped overwrite, per
// spec §4.5: no blending, no anti-aliasing, coordinates truncated
// toward zero after clamping to the canvas bounds.
func (c *Canvas) handleCommand(cmd DisplayCommand) {
	xStart := clamp(cmd.Rect.X, 0, float64(c.Width))
	yStart := clamp(cmd.Rect.Y, 0, float64(c.Height))
	xEnd := clamp(cmd.Rect.X+cmd.Rect.Width, 0, float64(c.Width))
	yEnd := clamp(cmd.Rect.Y+cmd.Rect.Height, 0, float64(c.Height))

	for y := int(yStart); y < int(yEnd); y++ {
		for x := int(xStart); x < int(xEnd); x++ {
			c.Pixels[y*c.Width+x] = cmd.Color
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToImage converts the canvas to a standard library image for
// encoding.
func (c *Canvas) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.Set(x, y, c.Pixels[y*c.Width+x])
		}
	}
	return img
}

// SavePNG writes the canvas to filename as a PNG file.
func (c *Canvas) SavePNG(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := png.Encode(file, c.ToImage()); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// Paint builds the display list for root and rasterizes it into a new
// canvas sized to bounds.
func Paint(root *layout.LayoutBox, bounds layout.Rect) *Canvas {
	list := BuildDisplayList(root)

	canvas := NewCanvas(int(bounds.Width), int(bounds.Height))
	for _, cmd := range list {
		canvas.handleCommand(cmd)
	}
	return canvas
}
