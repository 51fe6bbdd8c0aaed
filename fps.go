package heartfall

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewStatsWidget creates a node that displays FPS, TPS, the active profile
// and particle/pool counts. The text refreshes every ~0.5 seconds.
func NewStatsWidget(s *Scene) *Node {
	img := ebiten.NewImage(180, 80)

	node := NewSprite("stats_widget", img)
	node.X, node.Y = 8, 8

	var lastUpdate float64
	node.OnUpdate = func(dt float64) {
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0

		st := s.engine.Stats()
		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, fmt.Sprintf(
			"FPS: %.1f\nTPS: %.1f\nprofile: %s\nlive: %d\npool: %d/%d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), s.profile.Name,
			st.Live, st.Pool.InUse, st.Pool.Allocated))
	}
	return node
}
