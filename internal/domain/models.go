package domain

import "time"

// Technology is a quizzable subject from the catalog.
type Technology struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Question models an MCQ question with exactly one correct option.
// Immutable once fetched for an attempt.
type Question struct {
	ID            int      `json:"id"`
	Technology    string   `json:"technology"`
	Category      string   `json:"category"`
	Difficulty    int      `json:"difficulty"` // 1..5
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// AnswerRecord is the outcome of one submitted answer. Created exactly once
// per question per attempt, in question order, never mutated afterwards.
type AnswerRecord struct {
	QuestionID    int    `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// Identity is the user profile shown in the UI. It is never used for
// authorization decisions; the bearer credential is.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	// Degraded marks a client-fabricated placeholder built when the
	// credential was accepted but the identity read failed.
	Degraded bool `json:"-"`
}

// FinalResults summarizes a completed attempt. Saved reports whether the
// numbers came from the backend (persisted) or a local fallback computation.
type FinalResults struct {
	QuizSessionID    int     `json:"quiz_session_id,omitempty"`
	CorrectAnswers   int     `json:"correct_answers"`
	TotalQuestions   int     `json:"total_questions"`
	ScorePercentage  float64 `json:"score_percentage"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
	Saved            bool    `json:"-"`
}

// User is the server-side account record.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity derives the client-facing profile from an account.
func (u User) Identity() Identity {
	return Identity{Username: u.Username, Email: u.Email, FullName: u.FullName}
}

// Session statuses persisted server-side.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionAbandoned  = "abandoned"
)

// QuizSession is the server-side record of an attempt. Its ID is the remote
// session handle the client holds onto.
type QuizSession struct {
	ID               int        `json:"id"`
	UserID           int        `json:"user_id"`
	TechnologyID     int        `json:"technology_id"`
	Status           string     `json:"status"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	ScorePercentage  float64    `json:"score_percentage"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// QuizAnswer is a single recorded answer within a server-side session.
type QuizAnswer struct {
	ID               int       `json:"id"`
	QuizSessionID    int       `json:"quiz_session_id"`
	QuestionID       int       `json:"question_id"`
	UserAnswer       string    `json:"user_answer"`
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// QuizSessionSummary is a history line on the dashboard.
type QuizSessionSummary struct {
	ID               int        `json:"id"`
	TechnologyName   string     `json:"technology_name"`
	ScorePercentage  float64    `json:"score_percentage"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
}

// UserStatistics aggregates a user's completed sessions.
type UserStatistics struct {
	TotalQuizzes        int                  `json:"total_quizzes"`
	AverageScore        float64              `json:"average_score"`
	BestScore           float64              `json:"best_score"`
	TotalTimeSpent      int                  `json:"total_time_spent"`
	QuizzesByTechnology map[string]int       `json:"quizzes_by_technology"`
	ScoresByTechnology  map[string]float64   `json:"scores_by_technology"`
	RecentActivity      []QuizSessionSummary `json:"recent_activity"`
}

// ProgressData feeds the progression chart: one slot per day with activity.
type ProgressData struct {
	Dates      []string  `json:"dates"` // YYYY-MM-DD
	Scores     []float64 `json:"scores"`
	QuizCounts []int     `json:"quiz_counts"`
}

// UserDashboard bundles everything the dashboard view renders.
type UserDashboard struct {
	User        User                 `json:"user"`
	Statistics  UserStatistics       `json:"statistics"`
	Progress    ProgressData         `json:"progress_data"`
	QuizHistory []QuizSessionSummary `json:"quiz_history"`
}
