package domain

import "testing"

func TestScoreRounding(t *testing.T) {
	cases := []struct {
		correct, total int
		want           float64
	}{
		{2, 3, 66.7},
		{1, 3, 33.3},
		{3, 3, 100.0},
		{0, 3, 0.0},
		{0, 0, 0.0},
		{5, 6, 83.3},
	}
	for _, c := range cases {
		if got := Score(c.correct, c.total); got != c.want {
			t.Fatalf("Score(%d, %d) = %v, want %v", c.correct, c.total, got, c.want)
		}
	}
}

func TestLocalResultsIdempotent(t *testing.T) {
	answers := []AnswerRecord{
		{QuestionID: 1, UserAnswer: "a", CorrectAnswer: "a", IsCorrect: true},
		{QuestionID: 2, UserAnswer: "b", CorrectAnswer: "c", IsCorrect: false},
		{QuestionID: 3, UserAnswer: "d", CorrectAnswer: "d", IsCorrect: true},
	}

	first := LocalResults(answers, 3, 42)
	second := LocalResults(answers, 3, 42)
	if first != second {
		t.Fatalf("recomputation changed results: %+v vs %+v", first, second)
	}
	if first.CorrectAnswers != 2 || first.TotalQuestions != 3 {
		t.Fatalf("unexpected totals: %+v", first)
	}
	if first.ScorePercentage != 66.7 {
		t.Fatalf("expected 66.7, got %v", first.ScorePercentage)
	}
	if first.Saved {
		t.Fatalf("local results must not be marked saved")
	}
}
