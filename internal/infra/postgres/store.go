package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"spark-quiz/internal/domain"
)

// Store persists accounts, the catalog and quiz sessions in Postgres
// through bun.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

type userRecord struct {
	bun.BaseModel `bun:"table:users"`

	ID             int       `bun:"id,pk,autoincrement"`
	Username       string    `bun:"username"`
	Email          string    `bun:"email"`
	FullName       string    `bun:"full_name"`
	HashedPassword string    `bun:"hashed_password"`
	IsActive       bool      `bun:"is_active"`
	IsAdmin        bool      `bun:"is_admin"`
	CreatedAt      time.Time `bun:"created_at"`
}

type technologyRecord struct {
	bun.BaseModel `bun:"table:technologies"`

	ID          int    `bun:"id,pk,autoincrement"`
	Name        string `bun:"name"`
	DisplayName string `bun:"display_name"`
	Description string `bun:"description"`
	Icon        string `bun:"icon"`
	Color       string `bun:"color"`
}

type questionRecord struct {
	bun.BaseModel `bun:"table:questions"`

	ID            int      `bun:"id,pk,autoincrement"`
	Technology    string   `bun:"technology"`
	Category      string   `bun:"category"`
	Difficulty    int      `bun:"difficulty"`
	QuestionText  string   `bun:"question_text"`
	Options       []string `bun:"options,type:jsonb"`
	CorrectAnswer string   `bun:"correct_answer"`
	Explanation   string   `bun:"explanation"`
}

type sessionRecord struct {
	bun.BaseModel `bun:"table:quiz_sessions"`

	ID               int        `bun:"id,pk,autoincrement"`
	UserID           int        `bun:"user_id"`
	TechnologyID     int        `bun:"technology_id"`
	Status           string     `bun:"status"`
	TotalQuestions   int        `bun:"total_questions"`
	CorrectAnswers   int        `bun:"correct_answers"`
	ScorePercentage  float64    `bun:"score_percentage"`
	TimeSpentSeconds int        `bun:"time_spent_seconds"`
	StartedAt        time.Time  `bun:"started_at"`
	CompletedAt      *time.Time `bun:"completed_at"`
}

type answerRecord struct {
	bun.BaseModel `bun:"table:quiz_answers"`

	ID               int       `bun:"id,pk,autoincrement"`
	QuizSessionID    int       `bun:"quiz_session_id"`
	QuestionID       int       `bun:"question_id"`
	UserAnswer       string    `bun:"user_answer"`
	IsCorrect        bool      `bun:"is_correct"`
	TimeSpentSeconds int       `bun:"time_spent_seconds"`
	AnsweredAt       time.Time `bun:"answered_at"`
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	rec := userRecord{
		Username:       user.Username,
		Email:          user.Email,
		FullName:       user.FullName,
		HashedPassword: user.HashedPassword,
		IsActive:       user.IsActive,
		IsAdmin:        user.IsAdmin,
		CreatedAt:      user.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(&rec).Exec(ctx); err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	user.ID = rec.ID
	return user, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.userWhere(ctx, "username = ?", username)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.userWhere(ctx, "email = ?", email)
}

func (s *Store) userWhere(ctx context.Context, clause string, arg interface{}) (domain.User, error) {
	var rec userRecord
	err := s.db.NewSelect().Model(&rec).Where(clause, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return domain.User{
		ID:             rec.ID,
		Username:       rec.Username,
		Email:          rec.Email,
		FullName:       rec.FullName,
		HashedPassword: rec.HashedPassword,
		IsActive:       rec.IsActive,
		IsAdmin:        rec.IsAdmin,
		CreatedAt:      rec.CreatedAt,
	}, nil
}

func (s *Store) Technologies(ctx context.Context) ([]domain.Technology, error) {
	var recs []technologyRecord
	if err := s.db.NewSelect().Model(&recs).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select technologies: %w", err)
	}
	out := make([]domain.Technology, 0, len(recs))
	for _, rec := range recs {
		out = append(out, technologyFromRecord(rec))
	}
	return out, nil
}

func (s *Store) TechnologyByID(ctx context.Context, id int) (domain.Technology, error) {
	return s.technologyWhere(ctx, "id = ?", id)
}

func (s *Store) TechnologyByName(ctx context.Context, name string) (domain.Technology, error) {
	return s.technologyWhere(ctx, "name = ?", name)
}

func (s *Store) technologyWhere(ctx context.Context, clause string, arg interface{}) (domain.Technology, error) {
	var rec technologyRecord
	err := s.db.NewSelect().Model(&rec).Where(clause, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Technology{}, domain.ErrTechnologyNotFound
	}
	if err != nil {
		return domain.Technology{}, fmt.Errorf("select technology: %w", err)
	}
	return technologyFromRecord(rec), nil
}

func technologyFromRecord(rec technologyRecord) domain.Technology {
	return domain.Technology{
		ID:          rec.ID,
		Name:        rec.Name,
		DisplayName: rec.DisplayName,
		Description: rec.Description,
		Icon:        rec.Icon,
		Color:       rec.Color,
	}
}

func (s *Store) QuestionsByTechnology(ctx context.Context, technology string) ([]domain.Question, error) {
	var recs []questionRecord
	err := s.db.NewSelect().Model(&recs).Where("technology = ?", technology).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	out := make([]domain.Question, 0, len(recs))
	for _, rec := range recs {
		out = append(out, questionFromRecord(rec))
	}
	return out, nil
}

func (s *Store) QuestionByID(ctx context.Context, id int) (domain.Question, error) {
	var rec questionRecord
	err := s.db.NewSelect().Model(&rec).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("select question: %w", err)
	}
	return questionFromRecord(rec), nil
}

func questionFromRecord(rec questionRecord) domain.Question {
	return domain.Question{
		ID:            rec.ID,
		Technology:    rec.Technology,
		Category:      rec.Category,
		Difficulty:    rec.Difficulty,
		QuestionText:  rec.QuestionText,
		Options:       rec.Options,
		CorrectAnswer: rec.CorrectAnswer,
		Explanation:   rec.Explanation,
	}
}

func (s *Store) CreateSession(ctx context.Context, session domain.QuizSession) (domain.QuizSession, error) {
	rec := sessionRecordFrom(session)
	if _, err := s.db.NewInsert().Model(&rec).Exec(ctx); err != nil {
		return domain.QuizSession{}, fmt.Errorf("insert session: %w", err)
	}
	session.ID = rec.ID
	return session, nil
}

func (s *Store) SessionByID(ctx context.Context, id int) (domain.QuizSession, error) {
	var rec sessionRecord
	err := s.db.NewSelect().Model(&rec).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, fmt.Errorf("select session: %w", err)
	}
	return sessionFromRecord(rec), nil
}

func (s *Store) UpdateSession(ctx context.Context, session domain.QuizSession) error {
	rec := sessionRecordFrom(session)
	rec.ID = session.ID
	res, err := s.db.NewUpdate().Model(&rec).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Store) RecordAnswer(ctx context.Context, answer domain.QuizAnswer) (domain.QuizAnswer, error) {
	rec := answerRecord{
		QuizSessionID:    answer.QuizSessionID,
		QuestionID:       answer.QuestionID,
		UserAnswer:       answer.UserAnswer,
		IsCorrect:        answer.IsCorrect,
		TimeSpentSeconds: answer.TimeSpentSeconds,
		AnsweredAt:       answer.AnsweredAt,
	}
	if _, err := s.db.NewInsert().Model(&rec).Exec(ctx); err != nil {
		return domain.QuizAnswer{}, fmt.Errorf("insert answer: %w", err)
	}
	answer.ID = rec.ID
	return answer, nil
}

func (s *Store) AnswersBySession(ctx context.Context, sessionID int) ([]domain.QuizAnswer, error) {
	var recs []answerRecord
	err := s.db.NewSelect().Model(&recs).Where("quiz_session_id = ?", sessionID).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select answers: %w", err)
	}
	out := make([]domain.QuizAnswer, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.QuizAnswer{
			ID:               rec.ID,
			QuizSessionID:    rec.QuizSessionID,
			QuestionID:       rec.QuestionID,
			UserAnswer:       rec.UserAnswer,
			IsCorrect:        rec.IsCorrect,
			TimeSpentSeconds: rec.TimeSpentSeconds,
			AnsweredAt:       rec.AnsweredAt,
		})
	}
	return out, nil
}

func (s *Store) CompletedSessionsByUser(ctx context.Context, userID int) ([]domain.QuizSession, error) {
	var recs []sessionRecord
	err := s.db.NewSelect().Model(&recs).
		Where("user_id = ?", userID).
		Where("status = ?", domain.SessionCompleted).
		Order("started_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	out := make([]domain.QuizSession, 0, len(recs))
	for _, rec := range recs {
		out = append(out, sessionFromRecord(rec))
	}
	return out, nil
}

func sessionRecordFrom(session domain.QuizSession) sessionRecord {
	return sessionRecord{
		ID:               session.ID,
		UserID:           session.UserID,
		TechnologyID:     session.TechnologyID,
		Status:           session.Status,
		TotalQuestions:   session.TotalQuestions,
		CorrectAnswers:   session.CorrectAnswers,
		ScorePercentage:  session.ScorePercentage,
		TimeSpentSeconds: session.TimeSpentSeconds,
		StartedAt:        session.StartedAt,
		CompletedAt:      session.CompletedAt,
	}
}

func sessionFromRecord(rec sessionRecord) domain.QuizSession {
	return domain.QuizSession{
		ID:               rec.ID,
		UserID:           rec.UserID,
		TechnologyID:     rec.TechnologyID,
		Status:           rec.Status,
		TotalQuestions:   rec.TotalQuestions,
		CorrectAnswers:   rec.CorrectAnswers,
		ScorePercentage:  rec.ScorePercentage,
		TimeSpentSeconds: rec.TimeSpentSeconds,
		StartedAt:        rec.StartedAt,
		CompletedAt:      rec.CompletedAt,
	}
}
