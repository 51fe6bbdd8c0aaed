package heartfall

import (
	"bytes"
	"fmt"
	"image"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// PageOptions configures the landing page content.
type PageOptions struct {
	Title       string
	ButtonLabel string
	// OnContact runs when the contact button is clicked or tapped.
	OnContact func()
	// Headless skips fonts and images; the button keeps its hit shape.
	Headless bool
}

// Button states, as scale targets for the press/hover spring.
const (
	buttonScaleRest    = 1.0
	buttonScaleHover   = 1.05
	buttonScalePressed = 0.95
)

var (
	titleColor  = Color{R: 0xE5 / 255.0, G: 0xE5 / 255.0, B: 0xE5 / 255.0, A: 1}
	buttonColor = Color{R: 0, G: 0x7A / 255.0, B: 1, A: 1}
	buttonHover = Color{R: 0, G: 0x71 / 255.0, B: 0xF4 / 255.0, A: 1}
)

// Page holds the landing page's overlay nodes.
type Page struct {
	Title  *Node
	Button *Node
	label  *Node

	spring      harmonica.Spring
	scale, velo float64
	width       float64
	height      float64
}

// BuildPage adds the "coming soon" title to the background and the contact
// button to the overlay, and keeps them laid out across resizes.
func BuildPage(s *Scene, opts PageOptions) (*Page, error) {
	if opts.Title == "" {
		opts.Title = "Coming soon"
	}
	if opts.ButtonLabel == "" {
		opts.ButtonLabel = "Contact"
	}

	var titleFace, labelFace text.Face
	if !opts.Headless {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			return nil, fmt.Errorf("load page font: %w", err)
		}
		titleFace = &text.GoTextFace{Source: src, Size: 64}
		labelFace = &text.GoTextFace{Source: src, Size: 16}
	}

	p := &Page{
		spring: harmonica.NewSpring(harmonica.FPS(ebiten.TPS()), 12.0, 0.6),
		scale:  buttonScaleRest,
		width:  120,
		height: 44,
	}

	p.Title = NewText("title", opts.Title, titleFace)
	p.Title.TextAlign = text.AlignCenter
	p.Title.Color = titleColor
	s.Background().AddChild(p.Title)

	var pill *ebiten.Image
	if !opts.Headless {
		pill = ebiten.NewImageFromImage(pillMask(int(p.width), int(p.height), ColorWhite))
	}
	p.Button = NewSprite("contact", pill)
	p.Button.Interactable = true
	p.Button.HitShape = HitPill{Width: p.width, Height: p.height}
	p.Button.PivotX, p.Button.PivotY = p.width/2, p.height/2
	p.Button.Color = buttonColor
	p.Button.OnClick = opts.OnContact
	p.Button.OnUpdate = p.animate

	p.label = NewText("contact_label", opts.ButtonLabel, labelFace)
	p.label.TextAlign = text.AlignCenter
	p.label.X = p.width / 2
	p.label.Y = p.height/2 - 10
	p.Button.AddChild(p.label)
	s.Overlay().AddChild(p.Button)

	s.OnResize(p.layout)
	if w, h := s.Viewport(); w > 0 && h > 0 {
		p.layout(w, h)
	}
	return p, nil
}

// layout centers the title at 40% height and the button 10% above the
// bottom edge.
func (p *Page) layout(w, h float64) {
	titleH := 64.0
	p.Title.X = w / 2
	p.Title.Y = h*0.4 - titleH/2
	p.Button.X = w / 2
	p.Button.Y = h - h*0.1 - p.height/2
}

// animate springs the button toward its hover/press scale.
func (p *Page) animate(float64) {
	target := buttonScaleRest
	switch {
	case p.Button.Pressed():
		target = buttonScalePressed
	case p.Button.Hovered():
		target = buttonScaleHover
	}
	p.scale, p.velo = p.spring.Update(p.scale, p.velo, target)
	p.Button.ScaleX, p.Button.ScaleY = p.scale, p.scale

	t := clamp01((p.scale - buttonScaleRest) / (buttonScaleHover - buttonScaleRest))
	p.Button.Color = Color{
		R: lerp(buttonColor.R, buttonHover.R, t),
		G: lerp(buttonColor.G, buttonHover.G, t),
		B: lerp(buttonColor.B, buttonHover.B, t),
		A: 1,
	}
}

// Scale returns the button's current animated scale.
func (p *Page) Scale() float64 {
	return p.scale
}

// pillMask rasterizes a rounded rectangle whose corner radius is half its
// height.
func pillMask(w, h int, c Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	shape := HitPill{Width: float64(w), Height: float64(h)}
	fill := c.toRGBA()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if shape.Contains(float64(x)+0.5, float64(y)+0.5) {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img
}
