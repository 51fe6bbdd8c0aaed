package heartfall

import (
	"fmt"
	"log/slog"
)

// debugLog reports frame and engine stats at debug level.
func (s *Scene) debugLog(stats FrameStats) {
	s.logger.Debug("frame",
		"frame", stats.Frame,
		"profile", stats.Profile,
		"tick", stats.TickTime,
		slog.Group("particles",
			"live", stats.Engine.Live,
			"spawned", stats.Engine.Spawned,
			"evicted", stats.Engine.Evicted,
			"expired", stats.Engine.Expired,
			"dropped", stats.Engine.Dropped,
		),
		slog.Group("pool",
			"allocated", stats.Engine.Pool.Allocated,
			"free", stats.Engine.Pool.Free,
			"in_use", stats.Engine.Pool.InUse,
		),
	)
	if p := stats.Engine.Pool; p.Free+p.InUse != p.Allocated {
		s.logger.Warn("pool accounting mismatch",
			"allocated", p.Allocated, "free", p.Free, "in_use", p.InUse)
	}
}

// debugCheckDisposed panics with a descriptive message when a disposed node
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("heartfall debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}
