package app

import (
	"context"
	"sort"
	"time"

	"spark-quiz/internal/domain"
)

const (
	recentActivityLimit = 5
	dashboardHistoryLen = 10
	progressWindowDays  = 30
)

// DashboardService aggregates a user's completed sessions into the
// statistics, history and progression views.
type DashboardService struct {
	sessions     SessionRepository
	technologies TechnologyRepository
	now          func() time.Time
}

func NewDashboardService(sessions SessionRepository, technologies TechnologyRepository) *DashboardService {
	return &DashboardService{sessions: sessions, technologies: technologies, now: time.Now}
}

// Statistics computes the aggregate numbers over all completed sessions.
func (s *DashboardService) Statistics(ctx context.Context, user domain.User) (domain.UserStatistics, error) {
	summaries, err := s.summaries(ctx, user)
	if err != nil {
		return domain.UserStatistics{}, err
	}

	stats := domain.UserStatistics{
		QuizzesByTechnology: map[string]int{},
		ScoresByTechnology:  map[string]float64{},
		RecentActivity:      []domain.QuizSessionSummary{},
	}
	if len(summaries) == 0 {
		return stats, nil
	}

	scoreSums := map[string]float64{}
	var totalScore float64
	for _, sum := range summaries {
		stats.TotalQuizzes++
		stats.TotalTimeSpent += sum.TimeSpentSeconds
		totalScore += sum.ScorePercentage
		if sum.ScorePercentage > stats.BestScore {
			stats.BestScore = sum.ScorePercentage
		}
		stats.QuizzesByTechnology[sum.TechnologyName]++
		scoreSums[sum.TechnologyName] += sum.ScorePercentage
	}
	stats.AverageScore = domain.RoundScore(totalScore / float64(stats.TotalQuizzes))
	for name, sum := range scoreSums {
		stats.ScoresByTechnology[name] = domain.RoundScore(sum / float64(stats.QuizzesByTechnology[name]))
	}

	recent := summaries
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}
	stats.RecentActivity = recent
	return stats, nil
}

// History returns the most recent completed sessions, newest first.
func (s *DashboardService) History(ctx context.Context, user domain.User, limit int) ([]domain.QuizSessionSummary, error) {
	summaries, err := s.summaries(ctx, user)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Progress buckets completed sessions per calendar day over the trailing
// window. Days without activity produce no slot.
func (s *DashboardService) Progress(ctx context.Context, user domain.User, days int) (domain.ProgressData, error) {
	summaries, err := s.summaries(ctx, user)
	if err != nil {
		return domain.ProgressData{}, err
	}
	if days <= 0 {
		days = progressWindowDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -days)

	type bucket struct {
		scoreSum float64
		count    int
	}
	byDay := map[string]*bucket{}
	for _, sum := range summaries {
		if sum.StartedAt.Before(cutoff) {
			continue
		}
		day := sum.StartedAt.UTC().Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.scoreSum += sum.ScorePercentage
		b.count++
	}

	dates := make([]string, 0, len(byDay))
	for day := range byDay {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	progress := domain.ProgressData{
		Dates:      dates,
		Scores:     make([]float64, 0, len(dates)),
		QuizCounts: make([]int, 0, len(dates)),
	}
	for _, day := range dates {
		b := byDay[day]
		progress.Scores = append(progress.Scores, domain.RoundScore(b.scoreSum/float64(b.count)))
		progress.QuizCounts = append(progress.QuizCounts, b.count)
	}
	return progress, nil
}

// Dashboard bundles the full dashboard payload in one call.
func (s *DashboardService) Dashboard(ctx context.Context, user domain.User) (domain.UserDashboard, error) {
	stats, err := s.Statistics(ctx, user)
	if err != nil {
		return domain.UserDashboard{}, err
	}
	progress, err := s.Progress(ctx, user, progressWindowDays)
	if err != nil {
		return domain.UserDashboard{}, err
	}
	history, err := s.History(ctx, user, dashboardHistoryLen)
	if err != nil {
		return domain.UserDashboard{}, err
	}
	return domain.UserDashboard{
		User:        user,
		Statistics:  stats,
		Progress:    progress,
		QuizHistory: history,
	}, nil
}

// summaries loads the user's completed sessions as display summaries,
// newest first.
func (s *DashboardService) summaries(ctx context.Context, user domain.User) ([]domain.QuizSessionSummary, error) {
	sessions, err := s.sessions.CompletedSessionsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	names := map[int]string{}
	summaries := make([]domain.QuizSessionSummary, 0, len(sessions))
	for _, session := range sessions {
		name, ok := names[session.TechnologyID]
		if !ok {
			tech, err := s.technologies.TechnologyByID(ctx, session.TechnologyID)
			if err != nil {
				return nil, err
			}
			name = tech.DisplayName
			names[session.TechnologyID] = name
		}
		summaries = append(summaries, domain.QuizSessionSummary{
			ID:               session.ID,
			TechnologyName:   name,
			ScorePercentage:  session.ScorePercentage,
			TotalQuestions:   session.TotalQuestions,
			CorrectAnswers:   session.CorrectAnswers,
			StartedAt:        session.StartedAt,
			CompletedAt:      session.CompletedAt,
			TimeSpentSeconds: session.TimeSpentSeconds,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	return summaries, nil
}
