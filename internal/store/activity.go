package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// VideoEventData records one playback progress report. Reported is false
// when the network call failed and the tick only survives locally.
type VideoEventData struct {
	RunID    string
	LessonID string
	Elapsed  int
	Watched  bool
	Reported bool
}

// AnswerEventData records one answer submission result.
type AnswerEventData struct {
	RunID      string
	LessonID   string
	QuestionID string
	Level      string
	Answer     string
	Correct    bool
	Points     int
	TimeSpent  int
	HintsUsed  int
}

// CompletionEventData records one lesson finalization.
type CompletionEventData struct {
	RunID     string
	LessonID  string
	Level     string
	Score     float64
	Correct   int
	Attempted int
}

// ActivityEntry is one row of the merged cross-type activity view.
type ActivityEntry struct {
	Seq       int64     `db:"seq"`
	Kind      string    `db:"kind"` // "video", "answer", "completion"
	LessonID  string    `db:"lesson_id"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

// ActivityRepo appends to and reads the local activity log.
type ActivityRepo interface {
	AppendVideoEvent(ctx context.Context, data VideoEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendCompletionEvent(ctx context.Context, data CompletionEventData) error

	// Recent returns the newest entries across all event types, newest
	// first, ordered by the shared sequence.
	Recent(ctx context.Context, limit int) ([]ActivityEntry, error)
}

type activityRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

func (r *activityRepo) AppendVideoEvent(ctx context.Context, data VideoEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO video_events (seq, run_id, lesson_id, elapsed, watched, reported, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq, data.RunID, data.LessonID, data.Elapsed, data.Watched, data.Reported, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append video event: %w", err)
	}
	return nil
}

func (r *activityRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO answer_events (seq, run_id, lesson_id, question_id, level, answer, correct, points, time_spent, hints_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, data.RunID, data.LessonID, data.QuestionID, data.Level, data.Answer,
		data.Correct, data.Points, data.TimeSpent, data.HintsUsed, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *activityRepo) AppendCompletionEvent(ctx context.Context, data CompletionEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO completion_events (seq, run_id, lesson_id, level, score, correct, attempted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, data.RunID, data.LessonID, data.Level, data.Score, data.Correct, data.Attempted, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append completion event: %w", err)
	}
	return nil
}

func (r *activityRepo) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []ActivityEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT seq, kind, lesson_id, detail, created_at FROM (
			SELECT seq, 'video' AS kind, lesson_id,
				'watched ' || elapsed || 's' AS detail, created_at
			FROM video_events
			UNION ALL
			SELECT seq, 'answer' AS kind, lesson_id,
				CASE correct WHEN 1 THEN 'correct (+' || points || ')' ELSE 'incorrect' END AS detail, created_at
			FROM answer_events
			UNION ALL
			SELECT seq, 'completion' AS kind, lesson_id,
				'completed at level ' || level AS detail, created_at
			FROM completion_events
		)
		ORDER BY seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent activity: %w", err)
	}
	return entries, nil
}
