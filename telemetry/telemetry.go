// Package telemetry records per-frame particle and pool counters to CSV and
// summarizes tick timings.
package telemetry

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/phanxgames/heartfall"
)

// FrameRecord is one CSV row.
type FrameRecord struct {
	Frame         uint64  `csv:"frame"`
	TimeMS        float64 `csv:"time_ms"`
	Profile       string  `csv:"profile"`
	Ticked        bool    `csv:"ticked"`
	TickMicros    float64 `csv:"tick_us"`
	Live          int     `csv:"live"`
	Spawned       uint64  `csv:"spawned"`
	Evicted       uint64  `csv:"evicted"`
	Expired       uint64  `csv:"expired"`
	Dropped       uint64  `csv:"dropped"`
	PoolAllocated int     `csv:"pool_allocated"`
	PoolFree      int     `csv:"pool_free"`
	PoolInUse     int     `csv:"pool_in_use"`
}

// FromFrame converts scene frame stats to a CSV row.
func FromFrame(fs heartfall.FrameStats) FrameRecord {
	return FrameRecord{
		Frame:         fs.Frame,
		TimeMS:        float64(fs.Time.Microseconds()) / 1000,
		Profile:       fs.Profile,
		Ticked:        fs.Ticked,
		TickMicros:    float64(fs.TickTime.Nanoseconds()) / 1000,
		Live:          fs.Engine.Live,
		Spawned:       fs.Engine.Spawned,
		Evicted:       fs.Engine.Evicted,
		Expired:       fs.Engine.Expired,
		Dropped:       fs.Engine.Dropped,
		PoolAllocated: fs.Engine.Pool.Allocated,
		PoolFree:      fs.Engine.Pool.Free,
		PoolInUse:     fs.Engine.Pool.InUse,
	}
}

// Summary aggregates a recording.
type Summary struct {
	Frames       int
	Ticks        int
	MeanTickUS   float64
	StdDevTickUS float64
	P95TickUS    float64
	MaxLive      int
	MaxPool      int
}

// Recorder buffers frame records and writes them to w in batches.
type Recorder struct {
	w           io.Writer
	flushEvery  int
	buf         []FrameRecord
	wroteHeader bool

	frames  int
	tickUS  []float64
	maxLive int
	maxPool int
}

// NewRecorder creates a recorder writing CSV to w. Records are flushed every
// flushEvery frames (60 when flushEvery <= 0) and on Close.
func NewRecorder(w io.Writer, flushEvery int) *Recorder {
	if flushEvery <= 0 {
		flushEvery = 60
	}
	return &Recorder{w: w, flushEvery: flushEvery}
}

// Record appends one frame.
func (r *Recorder) Record(rec FrameRecord) error {
	r.frames++
	if rec.Ticked {
		r.tickUS = append(r.tickUS, rec.TickMicros)
	}
	r.maxLive = max(r.maxLive, rec.Live)
	r.maxPool = max(r.maxPool, rec.PoolAllocated)

	r.buf = append(r.buf, rec)
	if len(r.buf) >= r.flushEvery {
		return r.Flush()
	}
	return nil
}

// Flush writes buffered records. The header is written once.
func (r *Recorder) Flush() error {
	if len(r.buf) == 0 || r.w == nil {
		r.buf = r.buf[:0]
		return nil
	}
	if !r.wroteHeader {
		if err := gocsv.Marshal(r.buf, r.w); err != nil {
			return fmt.Errorf("write telemetry: %w", err)
		}
		r.wroteHeader = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(r.buf, r.w); err != nil {
			return fmt.Errorf("write telemetry: %w", err)
		}
	}
	r.buf = r.buf[:0]
	return nil
}

// Close flushes remaining records and closes the writer if it is an
// io.Closer.
func (r *Recorder) Close() error {
	err := r.Flush()
	if c, ok := r.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	r.w = nil
	return err
}

// Summary computes tick timing statistics over everything recorded.
func (r *Recorder) Summary() Summary {
	s := Summary{
		Frames:  r.frames,
		Ticks:   len(r.tickUS),
		MaxLive: r.maxLive,
		MaxPool: r.maxPool,
	}
	if len(r.tickUS) == 0 {
		return s
	}
	s.MeanTickUS, s.StdDevTickUS = stat.MeanStdDev(r.tickUS, nil)
	if len(r.tickUS) == 1 {
		s.StdDevTickUS = 0
	}
	sorted := append([]float64(nil), r.tickUS...)
	sort.Float64s(sorted)
	s.P95TickUS = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return s
}
