package app_test

import (
	"context"
	"testing"
	"time"

	"spark-quiz/internal/app"
	"spark-quiz/internal/domain"
	"spark-quiz/internal/infra/memory"
)

func seedCompletedSession(t *testing.T, store *memory.Store, userID, techID int, score float64, correct, total, timeSpent int, startedAt time.Time) {
	t.Helper()
	completedAt := startedAt.Add(time.Duration(timeSpent) * time.Second)
	session, err := store.CreateSession(context.Background(), domain.QuizSession{
		UserID:           userID,
		TechnologyID:     techID,
		Status:           domain.SessionCompleted,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		ScorePercentage:  score,
		TimeSpentSeconds: timeSpent,
		StartedAt:        startedAt,
		CompletedAt:      &completedAt,
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	_ = session
}

func TestStatisticsAggregation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	dashboard := app.NewDashboardService(store, store)

	user, err := store.CreateUser(ctx, domain.User{Username: "alice", IsActive: true})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedCompletedSession(t, store, user.ID, 1, 50.0, 1, 2, 45, base)
	seedCompletedSession(t, store, user.ID, 1, 100.0, 3, 3, 30, base.Add(24*time.Hour))
	seedCompletedSession(t, store, user.ID, 3, 50.0, 1, 2, 60, base.Add(48*time.Hour))

	stats, err := dashboard.Statistics(ctx, user)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalQuizzes != 3 {
		t.Fatalf("expected 3 quizzes, got %d", stats.TotalQuizzes)
	}
	if stats.AverageScore != 66.7 { // 200/3 rounded to one decimal
		t.Fatalf("unexpected average %v", stats.AverageScore)
	}
	if stats.BestScore != 100.0 {
		t.Fatalf("unexpected best %v", stats.BestScore)
	}
	if stats.TotalTimeSpent != 135 {
		t.Fatalf("unexpected time %d", stats.TotalTimeSpent)
	}
	if stats.QuizzesByTechnology["Apache Spark"] != 2 || stats.QuizzesByTechnology["Docker"] != 1 {
		t.Fatalf("unexpected per-technology counts %+v", stats.QuizzesByTechnology)
	}
	if stats.ScoresByTechnology["Apache Spark"] != 75.0 {
		t.Fatalf("unexpected per-technology score %+v", stats.ScoresByTechnology)
	}
	if len(stats.RecentActivity) != 3 || stats.RecentActivity[0].TechnologyName != "Docker" {
		t.Fatalf("recent activity must be newest first, got %+v", stats.RecentActivity)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	dashboard := app.NewDashboardService(store, store)

	user, _ := store.CreateUser(ctx, domain.User{Username: "alice", IsActive: true})
	stats, err := dashboard.Statistics(ctx, user)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalQuizzes != 0 || stats.AverageScore != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if stats.QuizzesByTechnology == nil || stats.RecentActivity == nil {
		t.Fatalf("maps and slices must be present even when empty")
	}
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	dashboard := app.NewDashboardService(store, store)

	user, _ := store.CreateUser(ctx, domain.User{Username: "alice", IsActive: true})
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedCompletedSession(t, store, user.ID, 2, float64(25*(i+1)), i+1, 4, 10, base.Add(time.Duration(i)*time.Hour))
	}

	history, err := dashboard.History(ctx, user, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].ScorePercentage != 100.0 || history[1].ScorePercentage != 75.0 {
		t.Fatalf("expected newest first, got %+v", history)
	}
	if history[0].TechnologyName != "Git" {
		t.Fatalf("expected display name, got %q", history[0].TechnologyName)
	}
}

func TestProgressBucketsPerDay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	dashboard := app.NewDashboardService(store, store)

	user, _ := store.CreateUser(ctx, domain.User{Username: "alice", IsActive: true})
	day1 := time.Now().UTC().AddDate(0, 0, -2).Truncate(24 * time.Hour).Add(9 * time.Hour)
	day2 := day1.Add(24 * time.Hour)

	seedCompletedSession(t, store, user.ID, 1, 60.0, 3, 5, 10, day1)
	seedCompletedSession(t, store, user.ID, 1, 80.0, 4, 5, 10, day1.Add(2*time.Hour))
	seedCompletedSession(t, store, user.ID, 3, 100.0, 5, 5, 10, day2)
	// Outside the window, must not appear.
	seedCompletedSession(t, store, user.ID, 3, 10.0, 0, 5, 10, time.Now().UTC().AddDate(0, 0, -90))

	progress, err := dashboard.Progress(ctx, user, 30)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if len(progress.Dates) != 2 {
		t.Fatalf("expected 2 active days, got %+v", progress.Dates)
	}
	if progress.Scores[0] != 70.0 || progress.QuizCounts[0] != 2 {
		t.Fatalf("unexpected first day %v %v", progress.Scores[0], progress.QuizCounts[0])
	}
	if progress.Scores[1] != 100.0 || progress.QuizCounts[1] != 1 {
		t.Fatalf("unexpected second day %v %v", progress.Scores[1], progress.QuizCounts[1])
	}
	if progress.Dates[0] != day1.Format("2006-01-02") {
		t.Fatalf("dates must be ascending YYYY-MM-DD, got %+v", progress.Dates)
	}
}

func TestDashboardBundle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeededStore()
	dashboard := app.NewDashboardService(store, store)

	user, _ := store.CreateUser(ctx, domain.User{Username: "alice", IsActive: true})
	seedCompletedSession(t, store, user.ID, 1, 66.7, 2, 3, 45, time.Now().UTC().Add(-time.Hour))

	bundle, err := dashboard.Dashboard(ctx, user)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if bundle.User.ID != user.ID {
		t.Fatalf("bundle must echo the user")
	}
	if bundle.Statistics.TotalQuizzes != 1 || len(bundle.QuizHistory) != 1 {
		t.Fatalf("unexpected bundle %+v", bundle)
	}
	if len(bundle.Progress.Dates) != 1 {
		t.Fatalf("expected one progress slot, got %+v", bundle.Progress)
	}
}
