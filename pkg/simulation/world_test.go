package simulation

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

func newTestWorld() *World {
	cfg := DefaultConfig()
	cfg.CanvasWidth = 640
	cfg.CanvasHeight = 480
	cfg.TimeLayout = "15:04:05"
	return NewWorld(cfg, rand.New(rand.NewPCG(1, 2)))
}

var noon = time.Date(2026, 10, 19, 12, 34, 56, 0, time.Local)

func TestWorld_ReseedReplacesCollection(t *testing.T) {
	w := newTestWorld()
	assert.Empty(t, w.Boids())

	w.Reseed(noon)
	first := w.Boids()
	require.Len(t, first, 8)
	assert.Equal(t, uint64(1), w.Epoch())
	for i, b := range first {
		assert.Equal(t, rune("12:34:56"[i]), b.Glyph)
		assert.Less(t, b.Pos.X, 640.0)
		assert.Less(t, b.Pos.Y, 480.0)
	}

	w.Step()
	w.Step()
	assert.Equal(t, uint64(2), w.Snapshot().Frame)

	w.Reseed(noon.Add(time.Second))
	second := w.Boids()
	require.Len(t, second, 8)
	assert.Equal(t, uint64(2), w.Epoch())
	assert.Equal(t, uint64(0), w.Snapshot().Frame)
	assert.Equal(t, "12:34:57", w.Snapshot().TimeText)
	for i := range second {
		assert.NotSame(t, first[i], second[i], "no boid survives a reseed")
	}
}

func TestWorld_StepKeepsInvariants(t *testing.T) {
	w := newTestWorld()
	w.Reseed(noon)
	for i := 0; i < 100; i++ {
		w.Step()
	}
	width, height := w.Size()
	for _, b := range w.Snapshot().Boids {
		assert.LessOrEqual(t, b.Speed(), b.MaxSpeed+1e-9)
		assert.GreaterOrEqual(t, b.Pos.X, 0.0)
		assert.LessOrEqual(t, b.Pos.X, width)
		assert.GreaterOrEqual(t, b.Pos.Y, 0.0)
		assert.LessOrEqual(t, b.Pos.Y, height)
	}
}

func TestWorld_Resize(t *testing.T) {
	w := newTestWorld()
	w.Resize(1920, 1080)
	width, height := w.Size()
	assert.Equal(t, 1920.0, width)
	assert.Equal(t, 1080.0, height)

	w.Resize(0, 0)
	width, height = w.Size()
	assert.Equal(t, 1920.0, width, "minimized window keeps the last size")
	assert.Equal(t, 1080.0, height)
}

func TestWorld_SnapshotIsACopy(t *testing.T) {
	w := newTestWorld()
	w.Reseed(noon)
	snap := w.Snapshot()
	before := snap.Boids[0].Pos

	w.Step()
	assert.Equal(t, before, snap.Boids[0].Pos)
}

func TestWorld_SameSeedSameHistory(t *testing.T) {
	a, b := newTestWorld(), newTestWorld()
	a.Reseed(noon)
	b.Reseed(noon)
	for i := 0; i < 20; i++ {
		a.Step()
		b.Step()
	}
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestWorld_SetMode(t *testing.T) {
	a, b := newTestWorld(), newTestWorld()
	a.Reseed(noon)
	b.Reseed(noon)
	b.SetMode(flock.Simultaneous)

	// Pull everything together so the boids interact.
	for i := range a.Boids() {
		a.Boids()[i].Pos.X = 100 + float64(i)*5
		a.Boids()[i].Pos.Y = 100
		b.Boids()[i].Pos = a.Boids()[i].Pos
	}
	a.Step()
	b.Step()
	assert.NotEqual(t, a.Snapshot().Boids, b.Snapshot().Boids)
}

func TestFrameMessage(t *testing.T) {
	width, height, err := frameSize(NewFrame(800, 600))
	require.NoError(t, err)
	assert.Equal(t, 800.0, width)
	assert.Equal(t, 600.0, height)

	_, _, err = frameSize(&structpb.Struct{})
	assert.Error(t, err)

	assert.True(t, NewReseed(noon).AsTime().Equal(noon))
}

func nextSnapshot(t *testing.T, e *Engine) *Snapshot {
	t.Helper()
	select {
	case snap := <-e.Snapshots():
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot from the world actor")
		return nil
	}
}

func TestEngine_SerializesReseedAndFrames(t *testing.T) {
	ctx := context.Background()
	engine, err := StartEngine(ctx, newTestWorld(), golog.DiscardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Stop(ctx) })

	require.NoError(t, engine.Reseed(ctx, noon))
	snap := nextSnapshot(t, engine)
	assert.Equal(t, uint64(1), snap.Epoch)
	assert.Equal(t, uint64(0), snap.Frame)
	assert.Len(t, snap.Boids, 8)

	require.NoError(t, engine.Frame(ctx, 320, 240))
	snap = nextSnapshot(t, engine)
	assert.Equal(t, uint64(1), snap.Frame)
	assert.Equal(t, 320.0, snap.Width)
	assert.Equal(t, 240.0, snap.Height)

	// A reseed queued between two frames lands between them.
	require.NoError(t, engine.Frame(ctx, 320, 240))
	require.NoError(t, engine.Reseed(ctx, noon.Add(time.Second)))
	require.NoError(t, engine.Frame(ctx, 320, 240))

	frame := nextSnapshot(t, engine)
	reseed := nextSnapshot(t, engine)
	after := nextSnapshot(t, engine)
	assert.Equal(t, uint64(2), frame.Frame)
	assert.Equal(t, uint64(1), frame.Epoch)
	assert.Equal(t, uint64(2), reseed.Epoch)
	assert.Equal(t, "12:34:57", reseed.TimeText)
	assert.Equal(t, uint64(2), after.Epoch)
	assert.Equal(t, uint64(1), after.Frame)
}

func TestEngine_SetMode(t *testing.T) {
	ctx := context.Background()
	engine, err := StartEngine(ctx, newTestWorld(), golog.DiscardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Stop(ctx) })

	require.NoError(t, engine.Reseed(ctx, noon))
	assert.Equal(t, flock.Sequential, nextSnapshot(t, engine).Mode)

	require.NoError(t, engine.SetMode(ctx, flock.Simultaneous))
	assert.Equal(t, flock.Simultaneous, nextSnapshot(t, engine).Mode)

	require.NoError(t, engine.Frame(ctx, 640, 480))
	snap := nextSnapshot(t, engine)
	assert.Equal(t, flock.Simultaneous, snap.Mode, "the mode sticks for the following frames")
	assert.Equal(t, uint64(1), snap.Frame)
}

func TestModeChangeMessage(t *testing.T) {
	msg := NewModeChange(flock.Simultaneous)
	assert.Equal(t, "simultaneous", msg.GetValue())
	mode, err := flock.ParseUpdateMode(msg.GetValue())
	require.NoError(t, err)
	assert.Equal(t, flock.Simultaneous, mode)
}

func TestEngine_Latest(t *testing.T) {
	ctx := context.Background()
	engine, err := StartEngine(ctx, newTestWorld(), golog.DiscardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Stop(ctx) })

	latest, changed := engine.Latest(0)
	assert.Nil(t, latest)
	assert.False(t, changed)

	require.NoError(t, engine.Reseed(ctx, noon))
	require.NoError(t, engine.Frame(ctx, 640, 480))
	require.Eventually(t, func() bool { return len(engine.Snapshots()) == 2 }, 5*time.Second, 10*time.Millisecond)

	latest, changed = engine.Latest(0)
	require.NotNil(t, latest)
	assert.True(t, changed)
	assert.Equal(t, uint64(1), latest.Frame)
}
