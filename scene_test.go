package heartfall

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Button center for a 1024×768 viewport: x = w/2, y = h - 10% - 22.
const (
	buttonX = 512.0
	buttonY = 768 - 76.8 - 22
)

type testPage struct {
	scene    *Scene
	page     *Page
	clock    *ManualClock
	contacts int
}

func newTestPage(t *testing.T) *testPage {
	t.Helper()
	tp := &testPage{clock: &ManualClock{}}
	tp.clock.Set(time.Second)
	tp.scene = NewScene(SceneConfig{
		Clock:    tp.clock,
		Rand:     rand.New(rand.NewPCG(1, 1)),
		Headless: true,
		Logger:   slog.New(slog.DiscardHandler),
	})
	tp.scene.Resize(1024, 768)
	page, err := BuildPage(tp.scene, PageOptions{
		Headless:  true,
		OnContact: func() { tp.contacts++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	tp.page = page
	return tp
}

func TestSceneTreeLayers(t *testing.T) {
	tp := newTestPage(t)
	root := tp.scene.Root()
	if root.NumChildren() != 3 {
		t.Fatalf("root has %d children, want 3", root.NumChildren())
	}
	kids := root.Children()
	if kids[0] != tp.scene.Background() || kids[2] != tp.scene.Overlay() {
		t.Error("expected background first and overlay last")
	}
	if tp.page.Title.Parent != tp.scene.Background() {
		t.Error("title should live in the background")
	}
	if tp.page.Button.Parent != tp.scene.Overlay() {
		t.Error("button should live in the overlay")
	}
}

func TestPageLayout(t *testing.T) {
	tp := newTestPage(t)
	assertNear(t, "title X", tp.page.Title.X, 512)
	assertNear(t, "title Y", tp.page.Title.Y, 768*0.4-32)
	assertNear(t, "button X", tp.page.Button.X, buttonX)
	assertNear(t, "button Y", tp.page.Button.Y, buttonY)

	tp.scene.Resize(400, 800)
	assertNear(t, "button X after resize", tp.page.Button.X, 200)
	assertNear(t, "button Y after resize", tp.page.Button.Y, 800-80-22)
}

func TestPressOnSurfaceSpawns(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, 100, 100, true)
	if s.Engine().Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Engine().Len())
	}
	if !s.Spawner().Active() {
		t.Error("spawner should be active while pressed")
	}

	tp.clock.Advance(30 * time.Millisecond)
	s.processPointer(0, 140, 100, true)
	if s.Engine().Len() != 2 {
		t.Errorf("Len = %d after drag, want 2", s.Engine().Len())
	}

	s.processPointer(0, 140, 100, false)
	if s.Spawner().Active() {
		t.Error("spawner should stop on release")
	}
	tp.clock.Advance(time.Second)
	s.processPointer(0, 300, 300, false)
	if s.Engine().Len() != 2 {
		t.Errorf("hover spawned: Len = %d", s.Engine().Len())
	}
	if tp.contacts != 0 {
		t.Error("contact fired from a surface press")
	}
}

func TestButtonClickDoesNotSpawn(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, buttonX, buttonY, true)
	if !tp.page.Button.Pressed() {
		t.Error("button not pressed")
	}
	s.processPointer(0, buttonX, buttonY, false)

	if tp.contacts != 1 {
		t.Errorf("contacts = %d, want 1", tp.contacts)
	}
	if s.Engine().Len() != 0 {
		t.Errorf("button press spawned %d particles", s.Engine().Len())
	}
	if tp.page.Button.Pressed() {
		t.Error("button still pressed after release")
	}
}

func TestButtonReleaseElsewhereDoesNotClick(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, buttonX, buttonY, true)
	s.processPointer(0, 100, 100, true)
	s.processPointer(0, 100, 100, false)
	if tp.contacts != 0 {
		t.Errorf("contacts = %d, want 0", tp.contacts)
	}
	if s.Engine().Len() != 0 {
		t.Errorf("drag off the button spawned %d particles", s.Engine().Len())
	}
}

func TestPillCornersAreNotExempt(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	// Top-left corner of the button's bounding box lies outside the pill.
	cornerX, cornerY := buttonX-60+1, buttonY-22+1
	if s.isExempt(cornerX, cornerY) {
		t.Error("pill corner should not be exempt")
	}
	if !s.isExempt(buttonX, buttonY) {
		t.Error("button center should be exempt")
	}
}

func TestHoverTracksButton(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, buttonX, buttonY, false)
	if !tp.page.Button.Hovered() {
		t.Error("button should be hovered")
	}
	s.processPointer(0, 10, 10, false)
	if tp.page.Button.Hovered() {
		t.Error("button should not be hovered")
	}
}

func TestDragAcrossButtonSkipsIt(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, 300, buttonY, true)
	tp.clock.Advance(time.Second)
	s.processPointer(0, buttonX, buttonY, true)
	if s.Engine().Len() != 1 {
		t.Errorf("Len = %d, want 1 (no spawn over the button)", s.Engine().Len())
	}
	if !s.Spawner().Active() {
		t.Error("passing over the button should not end the interaction")
	}
	tp.clock.Advance(time.Second)
	s.processPointer(0, 800, buttonY, true)
	if s.Engine().Len() != 2 {
		t.Errorf("Len = %d, want 2 after leaving the button", s.Engine().Len())
	}
	s.processPointer(0, 800, buttonY, false)
	if tp.contacts != 0 {
		t.Error("drag across the button fired contact")
	}
}

func TestLeavingSurfaceEndsInteraction(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, 100, 100, true)
	s.processPointer(0, -5, 100, true)
	if s.Spawner().Active() {
		t.Error("leaving the surface should deactivate")
	}
	tp.clock.Advance(time.Second)
	s.processPointer(0, 100, 100, true)
	if s.Engine().Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Engine().Len())
	}
}

func TestMultiTouchDeactivatesWithLastPointer(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(1, 100, 100, true)
	s.processPointer(2, 200, 200, true)
	s.processPointer(1, 100, 100, false)
	if !s.Spawner().Active() {
		t.Error("spawner should stay active while a touch remains")
	}
	s.processPointer(2, 200, 200, false)
	if s.Spawner().Active() {
		t.Error("spawner should stop when the last touch ends")
	}
}

func TestResizeSwitchesProfile(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene
	var buf bytes.Buffer
	s.logger = slog.New(slog.NewTextHandler(&buf, nil))

	if s.Profile().Name != "desktop" {
		t.Fatalf("profile = %q, want desktop", s.Profile().Name)
	}
	s.processPointer(0, 100, 100, true)
	s.processPointer(0, 100, 100, false)

	s.Resize(500, 800)
	if s.Profile().Name != "mobile" {
		t.Errorf("profile = %q, want mobile", s.Profile().Name)
	}
	if got := s.Engine().Particles()[0].Profile().Name; got != "desktop" {
		t.Errorf("in-flight particle profile = %q, want desktop", got)
	}
	if !strings.Contains(buf.String(), "device profile changed") {
		t.Errorf("missing profile change log: %q", buf.String())
	}
	w, h := s.Viewport()
	if w != 500 || h != 800 {
		t.Errorf("Viewport = %v x %v, want 500 x 800", w, h)
	}
}

func TestLayoutResizes(t *testing.T) {
	tp := newTestPage(t)
	w, h := tp.scene.Layout(640, 480)
	if w != 640 || h != 480 {
		t.Errorf("Layout = %d x %d, want 640 x 480", w, h)
	}
	if tp.scene.Profile().Name != "mobile" {
		t.Errorf("profile = %q, want mobile", tp.scene.Profile().Name)
	}
}

func TestCloseTearsDown(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene

	s.processPointer(0, 100, 100, true)
	s.InjectClick(10, 10)
	s.Close()
	s.Close()

	if !s.Closed() {
		t.Error("Closed = false")
	}
	if s.Engine().Len() != 0 {
		t.Errorf("Len = %d after Close, want 0", s.Engine().Len())
	}
	if s.Spawner().Active() {
		t.Error("spawner still active after Close")
	}
	if s.PendingInjections() != 0 {
		t.Error("inject queue not cleared")
	}
	if p := s.Engine().Stats().Pool; p.InUse != 0 {
		t.Errorf("pool in use = %d, want 0", p.InUse)
	}
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update after Close = %v, want ebiten.Termination", err)
	}
}

func TestSpriteResourcesTrackParticles(t *testing.T) {
	tp := newTestPage(t)
	s := tp.scene
	layer := s.Root().Children()[1]

	s.processPointer(0, 100, 100, true)
	if layer.NumChildren() != 1 {
		t.Fatalf("particle layer has %d sprites, want 1", layer.NumChildren())
	}
	sprite := layer.Children()[0]
	p := s.Engine().Particles()[0]
	assertNear(t, "sprite X", sprite.X, p.X+p.Size()/2)
	assertNear(t, "sprite Y", sprite.Y, p.Y+p.Size()/2)
	assertNear(t, "sprite alpha", sprite.Alpha, 1)

	s.Close()
	if layer.NumChildren() != 0 {
		t.Errorf("particle layer has %d sprites after Close, want 0", layer.NumChildren())
	}
}

func TestDebugLogWarnsOnPoolMismatch(t *testing.T) {
	tp := newTestPage(t)
	var buf bytes.Buffer
	tp.scene.logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tp.scene.debugLog(FrameStats{Profile: "desktop", Engine: EngineStats{Live: 2, Pool: PoolStats{Allocated: 2, InUse: 2}}})
	if !strings.Contains(buf.String(), "particles.live=2") {
		t.Errorf("missing grouped stats: %q", buf.String())
	}
	if strings.Contains(buf.String(), "mismatch") {
		t.Error("balanced pool reported as mismatched")
	}

	buf.Reset()
	tp.scene.debugLog(FrameStats{Engine: EngineStats{Pool: PoolStats{Allocated: 3, InUse: 1}}})
	if !strings.Contains(buf.String(), "pool accounting mismatch") {
		t.Errorf("missing mismatch warning: %q", buf.String())
	}
}
