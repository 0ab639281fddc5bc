package video

import "testing"

// tickFor advances the tracker n seconds, returning every report produced.
func tickFor(t *Tracker, n int) []*Report {
	var reports []*Report
	for range n {
		if r := t.Tick(); r != nil {
			reports = append(reports, r)
		}
	}
	return reports
}

func TestWatchedThresholdBoundary(t *testing.T) {
	// duration=600: 539s is below the 0.90 boundary, 540s is exactly on it.
	tr := NewTracker(600, 0)

	tr.Seek(539)
	if tr.Watched() {
		t.Error("539/600 = 0.898 should not count as watched")
	}

	tr.Seek(540)
	if !tr.Watched() {
		t.Error("540/600 = 0.90 exactly should count as watched")
	}
}

func TestReportCadence(t *testing.T) {
	tr := NewTracker(600, 0)
	tr.Play()

	reports := tickFor(tr, 35)
	if len(reports) != 3 {
		t.Fatalf("got %d reports in 35s, want 3", len(reports))
	}
	for i, want := range []int{10, 20, 30} {
		if reports[i].Elapsed != want {
			t.Errorf("reports[%d].Elapsed = %d, want %d", i, reports[i].Elapsed, want)
		}
	}
}

func TestNoReportsWhilePaused(t *testing.T) {
	tr := NewTracker(600, 0)
	if reports := tickFor(tr, 30); len(reports) != 0 {
		t.Errorf("got %d reports while paused, want 0", len(reports))
	}
	if tr.Elapsed() != 0 {
		t.Errorf("elapsed advanced while paused: %d", tr.Elapsed())
	}
}

func TestCompletionSignalFiresExactlyOnce(t *testing.T) {
	tr := NewTracker(100, 0)
	tr.Seek(85)
	tr.Play()

	var completions int
	for _, r := range tickFor(tr, 14) {
		if r.CompletedNow {
			completions++
		}
	}
	if completions != 1 {
		t.Fatalf("completion signalled %d times, want exactly once", completions)
	}
}

func TestSeekBackwardDoesNotUnsignal(t *testing.T) {
	tr := NewTracker(100, 0)
	tr.Seek(89)
	tr.Play()

	// Cross the threshold and run to the next report boundary, where the
	// crossing is observed.
	var completed bool
	for _, r := range tickFor(tr, 11) {
		if r.CompletedNow {
			completed = true
		}
	}
	if !completed {
		t.Fatal("expected completion signal after crossing threshold")
	}

	// Seek back below the threshold, then cross again.
	tr.Seek(10)
	tr.Play()
	for _, r := range tickFor(tr, 90) {
		if r.CompletedNow {
			t.Fatal("completion re-signalled after a backward seek")
		}
	}
}

func TestRestartBeginsNewSession(t *testing.T) {
	tr := NewTracker(100, 0)
	tr.Seek(89)
	tr.Play()

	var first int
	for _, r := range tickFor(tr, 15) {
		if r.CompletedNow {
			first++
		}
	}
	if first != 1 {
		t.Fatalf("first session completions = %d, want 1", first)
	}

	tr.Restart()
	if tr.Elapsed() != 0 || !tr.Playing() {
		t.Fatal("restart should rewind and resume playback")
	}

	var second int
	for _, r := range tickFor(tr, 100) {
		if r.CompletedNow {
			second++
		}
	}
	if second != 1 {
		t.Errorf("second session completions = %d, want 1 (restart re-arms the signal)", second)
	}
}

func TestEndOfMediaFinalReport(t *testing.T) {
	tr := NewTracker(25, 0)
	tr.Play()

	reports := tickFor(tr, 30)
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3 (10s, 20s, final)", len(reports))
	}

	last := reports[len(reports)-1]
	if !last.Final {
		t.Error("last report should be the final end-of-media report")
	}
	if last.Elapsed != 25 {
		t.Errorf("final report elapsed = %d, want 25", last.Elapsed)
	}
	if !last.Watched || !last.CompletedNow {
		t.Error("reaching the end must mark watched and signal completion")
	}
	if !tr.Ended() || tr.Playing() {
		t.Error("tracker should stop at end-of-media")
	}

	// No further reports after the end.
	if extra := tickFor(tr, 20); len(extra) != 0 {
		t.Errorf("got %d reports after end-of-media, want 0", len(extra))
	}
}

func TestResumeOffsetClamped(t *testing.T) {
	tr := NewTracker(60, 500)
	if tr.Elapsed() != 60 {
		t.Errorf("resume offset beyond duration should clamp, got %d", tr.Elapsed())
	}

	tr = NewTracker(60, -5)
	if tr.Elapsed() != 0 {
		t.Errorf("negative offset should clamp to 0, got %d", tr.Elapsed())
	}
}

func TestZeroDurationNeverWatched(t *testing.T) {
	tr := NewTracker(0, 0)
	if tr.Watched() {
		t.Error("unknown duration must not count as watched")
	}
}
