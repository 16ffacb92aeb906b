package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spark-quiz/internal/domain"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your quiz statistics and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			env.control.Bootstrap()
			token, ok := env.control.Credential()
			if !ok {
				return domain.ErrNotAuthenticated
			}

			dash, err := env.client.Dashboard(cmd.Context(), token)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := dash.Statistics
			fmt.Fprintf(out, "Dashboard for %s\n\n", dash.User.Username)
			fmt.Fprintf(out, "Quizzes completed: %d\n", stats.TotalQuizzes)
			fmt.Fprintf(out, "Average score:     %.1f%%\n", stats.AverageScore)
			fmt.Fprintf(out, "Best score:        %.1f%%\n", stats.BestScore)
			fmt.Fprintf(out, "Time spent:        %ds\n", stats.TotalTimeSpent)

			if len(stats.QuizzesByTechnology) > 0 {
				fmt.Fprintln(out, "\nBy technology:")
				for name, count := range stats.QuizzesByTechnology {
					fmt.Fprintf(out, "  %-14s %d quizzes, %.1f%% average\n", name, count, stats.ScoresByTechnology[name])
				}
			}

			if len(dash.QuizHistory) > 0 {
				fmt.Fprintln(out, "\nRecent quizzes:")
				for _, entry := range dash.QuizHistory {
					fmt.Fprintf(out, "  %s  %-14s %.1f%% (%d/%d)\n",
						entry.StartedAt.Format("2006-01-02"), entry.TechnologyName,
						entry.ScorePercentage, entry.CorrectAnswers, entry.TotalQuestions)
				}
			}
			return nil
		},
	}
}
