package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spark-quiz/internal/quiz"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play [technology]",
		Short: "Take a quiz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			// Resolve any stored credential so a finished quiz gets saved.
			env.control.Bootstrap()

			engine := quiz.NewEngine(env.client, env.control, env.log)
			reader := bufio.NewReader(cmd.InOrStdin())

			technology := ""
			if len(args) == 1 {
				technology = args[0]
			} else {
				chosen, err := chooseTechnology(cmd, env, reader)
				if err != nil {
					return err
				}
				technology = chosen
			}

			if err := engine.SelectTechnology(cmd.Context(), technology); err != nil {
				return err
			}
			if !env.control.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Playing anonymously; log in to save your results.")
			}

			for {
				switch engine.State() {
				case quiz.StateInProgress:
					if err := askQuestion(cmd, engine, reader); err != nil {
						return err
					}
				case quiz.StateCompleted:
					printResults(cmd, engine)
					fmt.Fprint(cmd.OutOrStdout(), "[r]etry same quiz, anything else to exit: ")
					if readLine(reader) == "r" {
						if err := engine.Restart(cmd.Context()); err != nil {
							return err
						}
						continue
					}
					return nil
				default:
					return nil
				}
			}
		},
	}
}

func newTechnologiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "technologies",
		Short: "List the available quiz technologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newClientEnv()
			defer env.close()

			techs, err := env.client.Technologies(cmd.Context())
			if err != nil {
				return err
			}
			for _, tech := range techs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", tech.Icon, tech.DisplayName, tech.Name)
				if tech.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", tech.Description)
				}
			}
			return nil
		},
	}
}

func chooseTechnology(cmd *cobra.Command, env *clientEnv, reader *bufio.Reader) (string, error) {
	techs, err := env.client.Technologies(cmd.Context())
	if err != nil {
		return "", err
	}
	if len(techs) == 0 {
		return "", fmt.Errorf("no technologies available")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Choose a technology:")
	for i, tech := range techs {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s %s\n", i+1, tech.Icon, tech.DisplayName)
	}

	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		input := readLine(reader)
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(techs) {
			return techs[n-1].Name, nil
		}
		for _, tech := range techs {
			if strings.EqualFold(input, tech.Name) {
				return tech.Name, nil
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Pick a number from the list.")
	}
}

func askQuestion(cmd *cobra.Command, engine *quiz.Engine, reader *bufio.Reader) error {
	question, ok := engine.CurrentQuestion()
	if !ok {
		return nil
	}
	index, total := engine.Progress()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", index+1, total, question.QuestionText)
	for i, option := range question.Options {
		fmt.Fprintf(out, "  %d. %s\n", i+1, option)
	}

	for {
		fmt.Fprint(out, "Answer (number, or q to quit): ")
		input := readLine(reader)
		if input == "q" {
			if !engine.RequestExit() {
				return nil
			}
			fmt.Fprint(out, "Quit now and lose this attempt? [y/N]: ")
			if strings.EqualFold(readLine(reader), "y") {
				engine.ConfirmExit()
				return nil
			}
			continue
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(question.Options) {
			fmt.Fprintln(out, "Pick one of the listed numbers.")
			continue
		}
		return engine.SubmitAnswer(cmd.Context(), question.Options[n-1])
	}
}

func printResults(cmd *cobra.Command, engine *quiz.Engine) {
	results, ok := engine.Results()
	if !ok {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nScore: %.1f%% (%d/%d correct, %ds)\n",
		results.ScorePercentage, results.CorrectAnswers, results.TotalQuestions, results.TimeSpentSeconds)
	if results.Saved {
		fmt.Fprintln(out, "Result saved to your dashboard.")
	} else {
		fmt.Fprintln(out, "Result was not saved.")
	}

	for i, answer := range engine.Answers() {
		mark := "✗"
		if answer.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(out, "  %s question %d\n", mark, i+1)
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
