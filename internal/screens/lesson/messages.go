package lesson

import (
	"github.com/darsihq/darsi/internal/api"
)

// lessonMsg resolves the lesson fetch, paired with any prior progress so
// playback can resume where the learner left off.
type lessonMsg struct {
	Lesson *api.Lesson
	Prior  *api.StudentProgress
	Err    error
}

// playTickMsg advances simulated playback by one second. Gen names the
// tick loop that produced it; a resume or restart starts a new loop, and
// ticks still in flight from the superseded one are dropped.
type playTickMsg struct {
	Gen uint64
}

// reportDoneMsg resolves one progress report. Failures are logged and
// otherwise invisible; playback never stops for them.
type reportDoneMsg struct {
	Elapsed int
	Watched bool
	Err     error
}
