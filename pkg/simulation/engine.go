package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

// snapshotBuffer is the number of snapshots a slow driver can lag behind.
const snapshotBuffer = 10

// Engine runs the WorldActor inside its own actor system and gives the frame
// drivers a small API to feed it.
type Engine struct {
	System    actor.ActorSystem
	worldPID  *actor.PID
	snapshots chan *Snapshot
}

// StartEngine starts an actor system with the given logger and spawns the
// world actor owning world.
func StartEngine(ctx context.Context, world *World, logger golog.Logger) (*Engine, error) {
	system, err := actor.NewActorSystem("BoidsClock",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	snapshots := make(chan *Snapshot, snapshotBuffer)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(world, snapshots))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	return &Engine{
		System:    system,
		worldPID:  pid,
		snapshots: snapshots,
	}, nil
}

// Reseed asks the world to start a new epoch from the time at now.
func (e *Engine) Reseed(ctx context.Context, now time.Time) error {
	return actor.Tell(ctx, e.worldPID, NewReseed(now))
}

// Frame asks the world for one frame pass on a width x height canvas.
func (e *Engine) Frame(ctx context.Context, width, height float64) error {
	return actor.Tell(ctx, e.worldPID, NewFrame(width, height))
}

// SetMode asks the world to switch its update ordering.
func (e *Engine) SetMode(ctx context.Context, mode flock.UpdateMode) error {
	return actor.Tell(ctx, e.worldPID, NewModeChange(mode))
}

// Snapshots delivers the world state after each reseed and frame pass.
func (e *Engine) Snapshots() <-chan *Snapshot {
	return e.snapshots
}

// Latest drains the pending snapshots without blocking and returns the most
// recent one, or nil when none arrived. epochChanged is true if any drained
// snapshot started a new epoch compared to since.
func (e *Engine) Latest(since uint64) (latest *Snapshot, epochChanged bool) {
	for {
		select {
		case snap := <-e.snapshots:
			latest = snap
			if snap.Epoch != since {
				epochChanged = true
			}
		default:
			return latest, epochChanged
		}
	}
}

// Stop shuts the actor system down.
func (e *Engine) Stop(ctx context.Context) error {
	return e.System.Stop(ctx)
}
