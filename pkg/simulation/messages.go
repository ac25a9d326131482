package simulation

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

// The WorldActor speaks protobuf well-known types:
//
//	*timestamppb.Timestamp  reseed from the time it carries
//	*structpb.Struct        frame tick carrying the current canvas size
//	*wrapperspb.StringValue update mode switch ("sequential" or "simultaneous")

const (
	frameWidthKey  = "width"
	frameHeightKey = "height"
)

// NewReseed builds the message that starts a new epoch at now.
func NewReseed(now time.Time) *timestamppb.Timestamp {
	return timestamppb.New(now)
}

// NewFrame builds the per-frame message. The canvas size travels with every
// frame since wrapping depends on it.
func NewFrame(width, height float64) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			frameWidthKey:  structpb.NewNumberValue(width),
			frameHeightKey: structpb.NewNumberValue(height),
		},
	}
}

// frameSize extracts the canvas size from a frame message.
func frameSize(msg *structpb.Struct) (float64, float64, error) {
	w, okW := msg.GetFields()[frameWidthKey]
	h, okH := msg.GetFields()[frameHeightKey]
	if !okW || !okH {
		return 0, 0, fmt.Errorf("frame message without canvas size: %v", msg.AsMap())
	}
	return w.GetNumberValue(), h.GetNumberValue(), nil
}

// NewModeChange builds the message that switches the update ordering.
func NewModeChange(mode flock.UpdateMode) *wrapperspb.StringValue {
	return wrapperspb.String(mode.String())
}
