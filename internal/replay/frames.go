package replay

import (
	"strconv"
	"strings"

	"github.com/okian/senstune/internal/domain/model"
)

// Key bitmask in a frame's fourth field.
const (
	keyMouse1 = 1 << 0
	keyMouse2 = 1 << 1
	keyKey1   = 1 << 2
	keyKey2   = 1 << 3

	pressedMask = keyMouse1 | keyMouse2 | keyKey1 | keyKey2
)

// seedFrameDelta marks the trailing RNG-seed pseudo frame appended by
// newer clients; it carries no input.
const seedFrameDelta = -12345

// frameFields is the field count of one "Δt|x|y|keys" frame.
const frameFields = 4

// ParseFrames decodes the expanded frame stream into action samples.
// Frame times are deltas; offsets accumulate from replay start. A
// sample is pressed when any primary mouse button or keyboard key is
// down; the smoke bit does not count. Malformed frames and the seed
// pseudo frame are dropped silently.
func ParseFrames(stream string) []model.ActionSample {
	var actions []model.ActionSample
	elapsed := 0.0

	for frame := range strings.SplitSeq(stream, ",") {
		if frame == "" {
			continue
		}
		parts := strings.Split(frame, "|")
		if len(parts) != frameFields {
			continue
		}

		delta, errT := strconv.ParseInt(parts[0], 10, 64)
		x, errX := strconv.ParseFloat(parts[1], 64)
		y, errY := strconv.ParseFloat(parts[2], 64)
		keys, errK := strconv.ParseInt(parts[3], 10, 64)
		if errT != nil || errX != nil || errY != nil || errK != nil {
			continue
		}
		if delta == seedFrameDelta {
			continue
		}

		elapsed += float64(delta)
		actions = append(actions, model.ActionSample{
			Offset:   elapsed,
			Position: model.Vec2{X: x, Y: y},
			Pressed:  keys&pressedMask != 0,
		})
	}

	return actions
}
