package collapse

import "github.com/katalvlaran/wavecollapse/wave"

// Recorder observes a run. Implementations must be cheap; they are called
// from the attempt loop.
type Recorder interface {
	// AttemptStarted is called before each attempt.
	AttemptStarted()
	// AttemptFinished reports how an attempt ended and how many propagation
	// steps it committed.
	AttemptFinished(outcome wave.Outcome, steps int)
	// Resampled is called each time backtrack mode redraws an observation.
	Resampled()
}

type nopRecorder struct{}

func (nopRecorder) AttemptStarted()                   {}
func (nopRecorder) AttemptFinished(wave.Outcome, int) {}
func (nopRecorder) Resampled()                        {}
