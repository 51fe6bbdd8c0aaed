package heartfall

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders Image
	NodeTypeText                      // renders Text with Face
)

// HitShape is a custom hit-testing region in a node's local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// nodeIDCounter is a plain counter; the scene is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a retained scene element. The landing page is a small tree: a
// title, the particle layer and the interactive overlay.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	Parent   *Node
	children []*Node

	// Local transform. Rotation is in radians; the pivot is in unscaled
	// local pixels.
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
	PivotX, PivotY float64

	Alpha float64
	Color Color

	Visible bool
	// Interactable nodes receive pointer input and are exempt from
	// spawning particles underneath them.
	Interactable bool
	HitShape     HitShape

	Image *ebiten.Image

	Text      string
	Face      text.Face
	TextAlign text.Align

	// OnUpdate is called once per frame with the frame delta in seconds.
	OnUpdate func(dt float64)
	// OnClick fires on press then release over the same interactable node.
	OnClick func()

	hovered  bool
	pressed  bool
	disposed bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node that renders img.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img}
	nodeDefaults(n)
	return n
}

// NewText creates a text node drawn with face.
func NewText(name, content string, face text.Face) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content, Face: face}
	nodeDefaults(n)
	return n
}

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("heartfall: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("heartfall: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("heartfall: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Hovered reports whether a pointer is over this interactable node.
func (n *Node) Hovered() bool {
	return n.hovered
}

// Pressed reports whether a pointer pressed on this node is still held.
func (n *Node) Pressed() bool {
	return n.pressed
}

// Dispose detaches the node and its subtree. A disposed node must not be
// reused.
func (n *Node) Dispose() {
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, c := range n.children {
		c.Parent = nil
		c.dispose()
	}
	n.children = nil
	n.OnUpdate = nil
	n.OnClick = nil
}

// IsDisposed reports whether Dispose has been called.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// --- Transforms ---

// localGeoM composes Translate(-pivot) → Scale → Rotate → Translate(X, Y).
func (n *Node) localGeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-n.PivotX, -n.PivotY)
	g.Scale(n.ScaleX, n.ScaleY)
	if n.Rotation != 0 {
		g.Rotate(n.Rotation)
	}
	g.Translate(n.X, n.Y)
	return g
}

// WorldGeoM returns the node's transform in scene coordinates.
func (n *Node) WorldGeoM() ebiten.GeoM {
	g := n.localGeoM()
	for p := n.Parent; p != nil; p = p.Parent {
		g.Concat(p.localGeoM())
	}
	return g
}

// WorldAlpha returns the node's alpha multiplied by its ancestors'.
func (n *Node) WorldAlpha() float64 {
	a := n.Alpha
	for p := n.Parent; p != nil; p = p.Parent {
		a *= p.Alpha
	}
	return a
}

// WorldToLocal converts a scene-space point to this node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	g := n.WorldGeoM()
	if !g.IsInvertible() {
		return math.NaN(), math.NaN()
	}
	g.Invert()
	return g.Apply(wx, wy)
}

// Size returns the node's unscaled content size.
func (n *Node) Size() (w, h float64) {
	switch n.Type {
	case NodeTypeSprite:
		if n.Image == nil {
			return 0, 0
		}
		b := n.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	case NodeTypeText:
		if n.Face == nil {
			return 0, 0
		}
		return text.Measure(n.Text, n.Face, 0)
	}
	return 0, 0
}
