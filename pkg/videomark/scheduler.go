package videomark

import (
	"image"

	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/rs/zerolog/log"
)

const (
	// Cycle is the sampling stride in frames, one second at 30 fps.
	Cycle = 30

	// Repeats is how many frames after an embedded frame reuse it.
	Repeats = 2

	// Threshold is the mean per-frame confidence above which a video is marked.
	Threshold = 0.65
)

// Action is what the scheduler did with a frame.
type Action int

const (
	ActionPass Action = iota
	ActionEmbed
	ActionRepeat
)

func (a Action) String() string {
	switch a {
	case ActionEmbed:
		return "embed"
	case ActionRepeat:
		return "repeat"
	default:
		return "pass"
	}
}

// Scheduler decides per frame whether to embed, repeat the last embedded
// frame or pass through. Frames must be fed in presentation order; a
// Scheduler is not safe for concurrent use.
type Scheduler struct {
	key    watermark.Key
	frame  int
	cached *image.NRGBA
}

func NewScheduler(key watermark.Key) *Scheduler {
	return &Scheduler{key: key}
}

// Position is the index of the next frame within its cycle.
func (s *Scheduler) Position() int {
	return s.frame % Cycle
}

// Process consumes the next frame and returns the frame to emit.
func (s *Scheduler) Process(frame image.Image) (image.Image, Action, error) {
	pos := s.Position()
	s.frame++

	switch {
	case pos == 0:
		marked, err := watermark.Embed(frame, s.key)
		if err != nil {
			return nil, ActionPass, err
		}
		s.cached = marked
		log.Debug().Int("frame", s.frame-1).Msg("Embedded watermark frame")
		return marked, ActionEmbed, nil
	case pos <= Repeats && s.cached != nil:
		return s.cached, ActionRepeat, nil
	default:
		return frame, ActionPass, nil
	}
}

// Reset returns the scheduler to frame zero and drops the cached frame.
func (s *Scheduler) Reset() {
	s.frame = 0
	s.cached = nil
}
