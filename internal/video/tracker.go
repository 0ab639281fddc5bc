package video

// WatchedThreshold is the fraction of the media duration after which the
// lesson video counts as watched. Fixed by the platform, not configurable.
const WatchedThreshold = 0.90

// ReportIntervalSeconds is the playback progress reporting cadence.
const ReportIntervalSeconds = 10

// Report is one progress update due for delivery to the backend.
type Report struct {
	// Elapsed is the playback position in whole seconds.
	Elapsed int

	// Watched is true once the threshold has been reached in this
	// playback session.
	Watched bool

	// Final marks the end-of-media report.
	Final bool

	// CompletedNow is true on the single report where the watched
	// threshold is crossed for the first time this session. Seeking
	// backward afterwards never produces another one.
	CompletedNow bool
}

// Tracker models playback of a directly-addressable media file and decides
// when progress reports are due. It advances in whole seconds via Tick;
// the caller owns the clock.
type Tracker struct {
	duration    int
	elapsed     int
	playing     bool
	ended       bool
	signaled    bool
	sinceReport int
}

// NewTracker creates a tracker for media of the given duration, resuming
// at offset seconds (clamped to the media bounds).
func NewTracker(duration, offset int) *Tracker {
	t := &Tracker{duration: duration}
	t.Seek(offset)
	return t
}

// Playing reports whether playback is running.
func (t *Tracker) Playing() bool { return t.playing }

// Ended reports whether the media has reached its end.
func (t *Tracker) Ended() bool { return t.ended }

// Elapsed returns the playback position in seconds.
func (t *Tracker) Elapsed() int { return t.elapsed }

// Duration returns the media duration in seconds.
func (t *Tracker) Duration() int { return t.duration }

// Watched reports whether the threshold has been reached. Integer
// arithmetic keeps the 0.90 boundary exact: elapsed/duration >= 0.90
// iff 10*elapsed >= 9*duration.
func (t *Tracker) Watched() bool {
	if t.duration <= 0 {
		return false
	}
	return 10*t.elapsed >= 9*t.duration
}

// Play starts playback. No-op after end-of-media; use Restart.
func (t *Tracker) Play() {
	if t.ended {
		return
	}
	t.playing = true
}

// Pause stops playback without producing a report.
func (t *Tracker) Pause() {
	t.playing = false
}

// Toggle flips between playing and paused.
func (t *Tracker) Toggle() {
	if t.playing {
		t.Pause()
	} else {
		t.Play()
	}
}

// Seek moves the playhead. The position is clamped to [0, duration].
// Seeking backward after the completion signal fired does not re-arm it.
func (t *Tracker) Seek(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	if t.duration > 0 && seconds > t.duration {
		seconds = t.duration
	}
	t.elapsed = seconds
	if t.elapsed < t.duration {
		t.ended = false
	}
}

// Restart begins a fresh playback session from zero. The completion
// signal may fire again in the new session.
func (t *Tracker) Restart() {
	t.elapsed = 0
	t.ended = false
	t.signaled = false
	t.sinceReport = 0
	t.playing = true
}

// Tick advances playback by one second. It returns a non-nil Report when
// one is due: every ReportIntervalSeconds of playback, and once more at
// end-of-media. Returns nil while paused or after the end.
func (t *Tracker) Tick() *Report {
	if !t.playing || t.ended {
		return nil
	}

	t.elapsed++
	t.sinceReport++

	if t.duration > 0 && t.elapsed >= t.duration {
		t.elapsed = t.duration
		return t.finish()
	}

	if t.sinceReport >= ReportIntervalSeconds {
		t.sinceReport = 0
		return t.buildReport(false)
	}
	return nil
}

// finish stops playback at end-of-media and returns the final report.
func (t *Tracker) finish() *Report {
	t.playing = false
	t.ended = true
	t.sinceReport = 0
	return t.buildReport(true)
}

func (t *Tracker) buildReport(final bool) *Report {
	r := &Report{
		Elapsed: t.elapsed,
		Watched: t.Watched(),
		Final:   final,
	}
	if r.Watched && !t.signaled {
		t.signaled = true
		r.CompletedNow = true
	}
	return r
}
