package domain

import "math"

// RoundScore rounds a percentage to one decimal, the display precision used
// everywhere a score is shown or stored.
func RoundScore(pct float64) float64 {
	return math.Round(pct*10) / 10
}

// Score computes a percentage from correct/total, rounded to one decimal.
// A zero total scores zero.
func Score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return RoundScore(float64(correct) / float64(total) * 100)
}

// LocalResults computes attempt results purely from recorded answers. Used
// when no remote session exists or the finish call failed; recomputing from
// the same answers always yields the same results.
func LocalResults(answers []AnswerRecord, totalQuestions, timeSpentSeconds int) FinalResults {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return FinalResults{
		CorrectAnswers:   correct,
		TotalQuestions:   totalQuestions,
		ScorePercentage:  Score(correct, totalQuestions),
		TimeSpentSeconds: timeSpentSeconds,
		Saved:            false,
	}
}
