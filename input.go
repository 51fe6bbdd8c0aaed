package heartfall

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitPill is a rounded rectangle whose corner radius is half its height,
// the shape of the contact button.
type HitPill struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the pill.
func (p HitPill) Contains(x, y float64) bool {
	if !(HitRect(p)).Contains(x, y) {
		return false
	}
	r := p.Height / 2
	cy := p.Y + r
	var cx float64
	switch {
	case x < p.X+r:
		cx = p.X + r
	case x > p.X+p.Width-r:
		cx = p.X + p.Width - r
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// --- Per-pointer state ---

type pointerState struct {
	down    bool
	lastX   float64
	lastY   float64
	hitNode *Node // interactable node captured at press time
	hover   *Node
	// spawning is true when this pointer's press started a particle
	// interaction rather than landing on an overlay control.
	spawning bool
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise derives a box from the node's size.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	w, h := n.Size()
	if w == 0 && h == 0 {
		return false
	}
	if n.Type == NodeTypeText {
		switch n.TextAlign {
		case text.AlignCenter:
			lx += w / 2
		case text.AlignEnd:
			lx += w
		}
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in painter order, appending visible
// interactable nodes to buf.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.Interactable {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (x, y), or nil.
func (s *Scene) hitTest(x, y float64) *Node {
	s.hitBuf = collectInteractable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(x, y)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// isExempt is the Spawner's ExemptFunc: overlay controls never spawn.
func (s *Scene) isExempt(x, y float64) bool {
	return s.hitTest(x, y) != nil
}

// --- Input processing ---

// processInput is called from Scene.Update to handle mouse and touch input.
// Injected events replace the mouse for the frame they are consumed in.
func (s *Scene) processInput() {
	if !s.processInjectedInput() {
		s.processMousePointer()
	}
	s.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.processPointer(0, float64(mx), float64(my), pressed)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press / move / release state machine for one
// pointer and routes it either to an overlay control or to the Spawner.
func (s *Scene) processPointer(pointerID int, x, y float64, pressed bool) {
	ps := &s.pointers[pointerID]
	target := s.hitTest(x, y)

	if pointerID == 0 && target != ps.hover {
		if ps.hover != nil {
			ps.hover.hovered = false
		}
		if target != nil {
			target.hovered = true
		}
		ps.hover = target
	}

	moved := x != ps.lastX || y != ps.lastY
	inside := x >= 0 && y >= 0 && x <= s.width && y <= s.height

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.lastX, ps.lastY = x, y
		if s.spawner.OnActivate(x, y) {
			ps.spawning = true
			s.activePointers++
			return
		}
		ps.hitNode = target
		if target != nil {
			target.pressed = true
		}

	case pressed && ps.down:
		ps.lastX, ps.lastY = x, y
		if !ps.spawning {
			return
		}
		if !inside {
			// Leaving the surface ends the interaction like a release.
			s.endSpawning(ps)
			return
		}
		if moved {
			s.spawner.OnMove(x, y)
		}

	case !pressed && ps.down:
		ps.down = false
		ps.lastX, ps.lastY = x, y
		if ps.spawning {
			s.endSpawning(ps)
		}
		if n := ps.hitNode; n != nil {
			n.pressed = false
			if n == target && n.OnClick != nil {
				n.OnClick()
			}
		}
		ps.hitNode = nil

	default:
		ps.lastX, ps.lastY = x, y
	}
}

func (s *Scene) endSpawning(ps *pointerState) {
	ps.spawning = false
	s.activePointers--
	if s.activePointers <= 0 {
		s.activePointers = 0
		s.spawner.OnDeactivate()
	}
}
