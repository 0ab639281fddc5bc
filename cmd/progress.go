package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/config"
	"github.com/darsihq/darsi/internal/progress"
	"github.com/darsihq/darsi/internal/store"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print your progress without opening the app",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		ctx := cmd.Context()
		session, err := st.Sessions().Load(ctx)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("not signed in; run darsi first")
		}

		client := api.New(cfg.APIBaseURL, session, zap.NewNop(), cfg.HTTPTimeout)
		studentID := session.StudentID()
		lang := cfg.Language

		stats, err := client.GetStudentStats(ctx, studentID)
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}
		fmt.Printf("Lessons completed:  %d/%d\n", stats.CompletedLessons, stats.TotalLessons)
		fmt.Printf("Average score:      %s\n", progress.FormatAverage(stats.AverageScore))
		fmt.Printf("Completion rate:    %s%%\n", progress.FormatRate(stats.CompletionRate))
		fmt.Printf("Time spent:         %s\n", progress.FormatDuration(stats.TotalTimeSpent, lang))

		rows, err := client.GetStudentProgress(ctx, studentID)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("\nNo lessons started yet.")
			return nil
		}

		fmt.Println()
		for _, row := range rows {
			title := row.LessonID
			if row.Lesson != nil {
				title = row.Lesson.LocalTitle(lang)
			}
			mark := " "
			if row.Completed() {
				mark = "✓"
			}
			fmt.Printf("%s %-40s %-14s %s\n",
				mark, title,
				progress.LevelLabel(row.SelectedLevel, lang),
				progress.FormatScore(row.Score))
		}
		return nil
	},
}
