// Package layout implements the block-formatting subset of the CSS 2.1
// visual formatting model: box generation with anonymous-block
// wrapping (CSS 2.1 §9.2.1.1), the width algorithm for block-level
// non-replaced elements in normal flow (CSS 2.1 §10.3.3), and vertical
// stacking via normal flow (CSS 2.1 §9.4.1, §10.6.3). Inline and
// anonymous boxes contribute zero geometry: there is no line breaking,
// no text metrics, and no table or flexbox support.
package layout

import (
	"github.com/lukehoban/minibrowser/css"
	"github.com/lukehoban/minibrowser/dom"
	"github.com/lukehoban/minibrowser/internal/diag"
	"github.com/lukehoban/minibrowser/log"
	"github.com/lukehoban/minibrowser/style"
)

// BoxType is the kind of a LayoutBox.
type BoxType int

const (
	// BlockBox is a block-level box with resolved geometry.
	BlockBox BoxType = iota
	// InlineBox is an inline-level box; it is a layout no-op.
	InlineBox
	// AnonymousBox wraps a run of inline children under a block
	// parent; it is a layout no-op.
	AnonymousBox
)

// Rect is an axis-aligned rectangle in layout units (pixels).
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// EdgeSizes holds the four edge thicknesses of a box (margin, border,
// or padding).
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Dimensions is the full box model for one box: a content rect
// surrounded by padding, border, and margin edges.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// LayoutBox is one node of the layout tree. Block and inline boxes,
// including those wrapping text nodes, carry their own styled node;
// anonymous boxes have a nil StyledNode.
type LayoutBox struct {
	Type       BoxType
	StyledNode *style.StyledNode
	Dimensions Dimensions
	Children   []*LayoutBox
}

// paddingBox returns the box including padding.
func (b *LayoutBox) paddingBox() Rect {
	return expand(b.Dimensions.Content, b.Dimensions.Padding)
}

// borderBox returns the box including border.
func (b *LayoutBox) borderBox() Rect {
	return expand(b.paddingBox(), b.Dimensions.Border)
}

// MarginBox returns the box including margin — the footprint a box
// occupies in its parent's normal flow.
func (b *LayoutBox) MarginBox() Rect {
	return expand(b.borderBox(), b.Dimensions.Margin)
}

// BorderBox exposes the border box for the painter.
func (b *LayoutBox) BorderBox() Rect {
	return b.borderBox()
}

func expand(r Rect, e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Tree builds and lays out a full layout tree from a styled tree
// against an initial containing block. The containing block's
// content.height is reset to 0 on entry, per spec §4.4.
func Tree(root *style.StyledNode, containingBlock Dimensions) (*LayoutBox, error) {
	box, err := build(root)
	if err != nil {
		return nil, err
	}
	containingBlock.Content.Height = 0
	box.layout(containingBlock)
	return box, nil
}

// display returns the node's display keyword, or "" when absent or
// not a keyword value.
func display(node *style.StyledNode) string {
	v, ok := node.Properties["display"]
	if !ok || v.Kind != css.KeywordValue {
		return ""
	}
	return v.Keyword
}

// build constructs the layout tree per spec §4.4.1: block for
// display:block, omitted for display:none, inline otherwise. A root
// with display:none is fatal.
func build(node *style.StyledNode) (*LayoutBox, error) {
	boxType := boxTypeFor(node)
	if boxType == omitBox {
		return nil, diag.New(-1, "root styled node has display: none")
	}

	box := &LayoutBox{Type: boxType, StyledNode: node}

	for _, child := range node.Children {
		if boxTypeFor(child) == omitBox {
			continue
		}
		childBox, err := build(child)
		if err != nil {
			return nil, err
		}
		placeChild(box, childBox)
	}

	return box, nil
}

// placeChild implements the anonymous-block-wrapping rule of spec
// §4.4.1: an inline child under a block parent goes inside an
// anonymous block, reusing the parent's last child when it is already
// an anonymous block; inline children under an inline parent, and any
// child under any other parent, are appended directly.
func placeChild(parent *LayoutBox, child *LayoutBox) {
	if parent.Type == BlockBox && child.Type == InlineBox {
		if n := len(parent.Children); n > 0 && parent.Children[n-1].Type == AnonymousBox {
			anon := parent.Children[n-1]
			anon.Children = append(anon.Children, child)
			return
		}
		anon := &LayoutBox{Type: AnonymousBox}
		anon.Children = append(anon.Children, child)
		parent.Children = append(parent.Children, anon)
		return
	}
	parent.Children = append(parent.Children, child)
}

const omitBox BoxType = -1

func boxTypeFor(node *style.StyledNode) BoxType {
	switch display(node) {
	case "block":
		return BlockBox
	case "none":
		return omitBox
	default:
		return InlineBox
	}
}

// layout dispatches on box type. Inline and anonymous boxes are
// no-ops, per spec §4.4.2.
func (b *LayoutBox) layout(containingBlock Dimensions) {
	switch b.Type {
	case BlockBox:
		b.layoutBlock(containingBlock)
	}
}

func (b *LayoutBox) layoutBlock(containingBlock Dimensions) {
	b.calculateWidth(containingBlock)
	b.calculatePosition(containingBlock)
	b.layoutChildren()
	b.calculateHeight()
}

// lengthOrAuto reports a property's pixel length and whether it is
// the "auto" keyword, falling through longhand -> shorthand -> 0.
func (b *LayoutBox) lengthOrAuto(longhand, shorthand string) (px float64, auto bool) {
	props := b.StyledNode.Properties
	if v, ok := props[longhand]; ok {
		return v.Px(), v.IsAuto()
	}
	if v, ok := props[shorthand]; ok {
		return v.Px(), v.IsAuto()
	}
	return 0, false
}

func (b *LayoutBox) width() (px float64, auto bool) {
	props := b.StyledNode.Properties
	v, ok := props["width"]
	if !ok {
		return 0, true
	}
	return v.Px(), v.IsAuto()
}

// calculateWidth implements spec §4.4.2 Phase 1, including the full
// auto-margin decision table.
func (b *LayoutBox) calculateWidth(containingBlock Dimensions) {
	width, widthAuto := b.width()
	marginLeft, marginLeftAuto := b.lengthOrAuto("margin-left", "margin")
	marginRight, marginRightAuto := b.lengthOrAuto("margin-right", "margin")
	borderLeft, _ := b.lengthOrAuto("border-left-width", "border")
	borderRight, _ := b.lengthOrAuto("border-right-width", "border")
	paddingLeft, _ := b.lengthOrAuto("padding-left", "padding")
	paddingRight, _ := b.lengthOrAuto("padding-right", "padding")

	total := marginLeft + marginRight + borderLeft + borderRight + paddingLeft + paddingRight
	if !widthAuto {
		total += width
	}
	underflow := containingBlock.Content.Width - total

	if widthAuto && underflow < 0 {
		// Per the (T,_,_) row of the auto-margin table, only margins
		// that were themselves auto collapse to 0 here; an explicit
		// margin stays part of the underflow accounting below.
		if marginLeftAuto {
			log.Debugf("clamping auto margin-left to 0 on %s (negative underflow)", b.StyledNode.Node.Data)
			marginLeft = 0
		}
		if marginRightAuto {
			log.Debugf("clamping auto margin-right to 0 on %s (negative underflow)", b.StyledNode.Node.Data)
			marginRight = 0
		}
	}

	switch {
	case !widthAuto && !marginLeftAuto && !marginRightAuto:
		marginRight += underflow
	case !widthAuto && !marginLeftAuto && marginRightAuto:
		marginRight = underflow
	case !widthAuto && marginLeftAuto && !marginRightAuto:
		marginLeft = underflow
	case !widthAuto && marginLeftAuto && marginRightAuto:
		marginLeft = underflow / 2
		marginRight = underflow / 2
	case widthAuto:
		if marginLeftAuto {
			marginLeft = 0
		}
		if marginRightAuto {
			marginRight = 0
		}
		if underflow >= 0 {
			width = underflow
		} else {
			width = 0
			marginRight += underflow
		}
	}

	b.Dimensions.Content.Width = width
	b.Dimensions.Margin.Left = marginLeft
	b.Dimensions.Margin.Right = marginRight
	b.Dimensions.Border.Left = borderLeft
	b.Dimensions.Border.Right = borderRight
	b.Dimensions.Padding.Left = paddingLeft
	b.Dimensions.Padding.Right = paddingRight
}

// calculatePosition implements spec §4.4.2 Phase 2's position step.
// The containing block's current content.height is the stacking
// cursor for this box among its siblings.
func (b *LayoutBox) calculatePosition(containingBlock Dimensions) {
	marginTop, _ := b.lengthOrAuto("margin-top", "margin")
	marginBottom, _ := b.lengthOrAuto("margin-bottom", "margin")
	borderTop, _ := b.lengthOrAuto("border-top-width", "border")
	borderBottom, _ := b.lengthOrAuto("border-bottom-width", "border")
	paddingTop, _ := b.lengthOrAuto("padding-top", "padding")
	paddingBottom, _ := b.lengthOrAuto("padding-bottom", "padding")

	b.Dimensions.Margin.Top = marginTop
	b.Dimensions.Margin.Bottom = marginBottom
	b.Dimensions.Border.Top = borderTop
	b.Dimensions.Border.Bottom = borderBottom
	b.Dimensions.Padding.Top = paddingTop
	b.Dimensions.Padding.Bottom = paddingBottom

	b.Dimensions.Content.X = containingBlock.Content.X +
		b.Dimensions.Margin.Left + b.Dimensions.Border.Left + b.Dimensions.Padding.Left
	b.Dimensions.Content.Y = containingBlock.Content.Y + containingBlock.Content.Height +
		b.Dimensions.Margin.Top + b.Dimensions.Border.Top + b.Dimensions.Padding.Top
}

// layoutChildren lays out each child against this box's own
// dimensions, advancing content.height as the stacking cursor after
// each child, per spec §4.4.2 and §5 (the parent's dimensions are
// mutated in place as children are laid out in sequence).
func (b *LayoutBox) layoutChildren() {
	for _, child := range b.Children {
		child.layout(b.Dimensions)
		b.Dimensions.Content.Height += child.MarginBox().Height
	}
}

// calculateHeight applies an explicit height override, per spec §4.4.2.
func (b *LayoutBox) calculateHeight() {
	if v, ok := b.StyledNode.Properties["height"]; ok && v.Kind == css.LengthValue {
		b.Dimensions.Content.Height = v.Px()
	}
}

// IsTextNode reports whether the box's styled node wraps a DOM text
// node. Painting uses this to know a box has no border/background
// properties of its own to look up.
func (b *LayoutBox) IsTextNode() bool {
	return b.StyledNode != nil && b.StyledNode.Node != nil && b.StyledNode.Node.Type == dom.TextNode
}
