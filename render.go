package heartfall

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// HeartColor is the default particle tint.
var HeartColor = Color{R: 1, G: 0.2, B: 0.35, A: 1}

// heartMask rasterizes a heart of the given pixel size on the CPU using the
// implicit curve (x²+y²-1)³ - x²y³ ≤ 0.
func heartMask(size int, c Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}
	fill := c.toRGBA()
	const ss = 4 // supersamples per axis
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			hits := 0
			for sy := 0; sy < ss; sy++ {
				for sx := 0; sx < ss; sx++ {
					// Map to [-1.3, 1.3] with y pointing up.
					x := ((float64(px)+(float64(sx)+0.5)/ss)/float64(size)*2 - 1) * 1.3
					y := -((float64(py)+(float64(sy)+0.5)/ss)/float64(size)*2 - 1) * 1.3
					y += 0.15
					a := x*x + y*y - 1
					if a*a*a-x*x*y*y*y <= 0 {
						hits++
					}
				}
			}
			if hits == 0 {
				continue
			}
			cov := float64(hits) / (ss * ss)
			img.SetRGBA(px, py, color.RGBA{
				R: uint8(float64(fill.R) * cov),
				G: uint8(float64(fill.G) * cov),
				B: uint8(float64(fill.B) * cov),
				A: uint8(float64(fill.A) * cov),
			})
		}
	}
	return img
}

// NewHeartImage returns a heart texture of the given pixel size.
func NewHeartImage(size int, c Color) *ebiten.Image {
	return ebiten.NewImageFromImage(heartMask(size, c))
}

// SpriteLayer is the retained-mode render backend: each live particle is
// backed by a pooled sprite Node attached to the layer's container while
// the particle lives and detached when it is destroyed.
type SpriteLayer struct {
	node  *Node
	image *ebiten.Image
	size  float64
}

// NewSpriteLayer creates a layer drawing every particle with img.
func NewSpriteLayer(name string, img *ebiten.Image) *SpriteLayer {
	l := &SpriteLayer{node: NewContainer(name), image: img}
	if img != nil {
		l.size = float64(img.Bounds().Dx())
	}
	return l
}

// Node returns the layer's container.
func (l *SpriteLayer) Node() *Node {
	return l.node
}

// Allocator returns an Allocator producing sprite resources for this layer.
func (l *SpriteLayer) Allocator() Allocator {
	return func() (Resource, error) {
		n := NewSprite("heart", l.image)
		n.Visible = false
		return &spriteResource{layer: l, node: n}, nil
	}
}

// spriteResource binds one sprite node to one live particle.
type spriteResource struct {
	layer *SpriteLayer
	node  *Node
}

func (r *spriteResource) Attach() {
	r.layer.node.AddChild(r.node)
}

// Update centers the sprite on the particle's collision box and applies its
// scale, rotation and opacity.
func (r *spriteResource) Update(p *Particle) {
	n := r.node
	size := p.Size()
	half := r.layer.size / 2
	n.PivotX, n.PivotY = half, half
	n.X = p.X + size/2
	n.Y = p.Y + size/2
	s := p.DisplayScale
	if r.layer.size > 0 {
		s *= size / r.layer.size
	}
	n.ScaleX, n.ScaleY = s, s
	n.Rotation = p.Rotation * math.Pi / 180
	n.Alpha = p.Opacity
	n.Visible = p.Opacity > 0
}

func (r *spriteResource) Detach() {
	r.node.Visible = false
	r.node.RemoveFromParent()
}

// --- Tree drawing ---

// drawTree renders n and its subtree onto dst in painter order.
func drawTree(dst *ebiten.Image, n *Node) int {
	if !n.Visible {
		return 0
	}
	draws := 0
	switch n.Type {
	case NodeTypeSprite:
		if n.Image != nil {
			var op ebiten.DrawImageOptions
			op.GeoM = n.WorldGeoM()
			op.ColorScale.ScaleWithColor(n.Color.toRGBA())
			op.ColorScale.ScaleAlpha(float32(n.WorldAlpha()))
			op.Filter = ebiten.FilterLinear
			dst.DrawImage(n.Image, &op)
			draws++
		}
	case NodeTypeText:
		if n.Face != nil && n.Text != "" {
			op := &text.DrawOptions{}
			op.GeoM = n.WorldGeoM()
			op.ColorScale.ScaleWithColor(n.Color.toRGBA())
			op.ColorScale.ScaleAlpha(float32(n.WorldAlpha()))
			op.PrimaryAlign = n.TextAlign
			text.Draw(dst, n.Text, n.Face, op)
			draws++
		}
	}
	for _, c := range n.children {
		draws += drawTree(dst, c)
	}
	return draws
}

// updateTree runs OnUpdate callbacks depth-first.
func updateTree(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, c := range n.children {
		updateTree(c, dt)
	}
}
