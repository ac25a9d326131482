package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

// WorldActor owns the World. Its mailbox is the single queue through which
// reseeds and frame passes reach the boids, so a reseed always lands between
// two frame passes and never inside one.
type WorldActor struct {
	world      *World
	snapshotCh chan<- *Snapshot

	// --- Frame rate stats ---
	frameCount  int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor wraps world. Snapshots are offered on snapshotCh after every
// message that changes the world; they are dropped when the driver is busy.
func NewWorldActor(world *World, snapshotCh chan<- *Snapshot) *WorldActor {
	return &WorldActor{
		world:       world,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	width, height := w.world.Size()
	ctx.ActorSystem().Logger().Infof("World is starting on a %.0fx%.0f canvas...", width, height)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("World started")

	// New epoch: the previous boids are dropped
	case *timestamppb.Timestamp:
		w.world.Reseed(msg.AsTime().Local())
		snap := w.world.Snapshot()
		ctx.Logger().Debugf("epoch %d: %q (%d boids)", snap.Epoch, snap.TimeText, len(snap.Boids))
		w.pushSnapshot(snap)

	// One frame pass, driven by the frame driver
	case *structpb.Struct:
		width, height, err := frameSize(msg)
		if err != nil {
			ctx.Logger().Error(err)
			return
		}
		w.world.Resize(width, height)
		w.world.Step()
		w.frameCount++
		w.logFrameRate(ctx)
		w.pushSnapshot(w.world.Snapshot())

	// Update ordering switch, applies from the next frame pass
	case *wrapperspb.StringValue:
		mode, err := flock.ParseUpdateMode(msg.GetValue())
		if err != nil {
			ctx.Logger().Error(err)
			return
		}
		w.world.SetMode(mode)
		ctx.Logger().Infof("update mode: %s", mode)
		w.pushSnapshot(w.world.Snapshot())

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) logFrameRate(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 FRAMES: %d/sec | Epoch: %d | Boids: %d",
			w.frameCount, w.world.Epoch(), len(w.world.Boids()))
		w.frameCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot(snap *Snapshot) {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- snap:
	default:
		// Driver busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
