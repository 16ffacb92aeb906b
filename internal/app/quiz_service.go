package app

import (
	"context"
	"time"

	"spark-quiz/internal/domain"
)

// TechnologyRepository serves the technology catalog.
type TechnologyRepository interface {
	Technologies(ctx context.Context) ([]domain.Technology, error)
	TechnologyByID(ctx context.Context, id int) (domain.Technology, error)
	TechnologyByName(ctx context.Context, name string) (domain.Technology, error)
}

// QuestionRepository loads quiz content (from cache/backing store).
type QuestionRepository interface {
	QuestionsByTechnology(ctx context.Context, technology string) ([]domain.Question, error)
	QuestionByID(ctx context.Context, id int) (domain.Question, error)
}

// SessionRepository persists quiz sessions and their recorded answers.
type SessionRepository interface {
	CreateSession(ctx context.Context, session domain.QuizSession) (domain.QuizSession, error)
	SessionByID(ctx context.Context, id int) (domain.QuizSession, error)
	UpdateSession(ctx context.Context, session domain.QuizSession) error
	RecordAnswer(ctx context.Context, answer domain.QuizAnswer) (domain.QuizAnswer, error)
	AnswersBySession(ctx context.Context, sessionID int) ([]domain.QuizAnswer, error)
	CompletedSessionsByUser(ctx context.Context, userID int) ([]domain.QuizSession, error)
}

// QuizService contains the server-side quiz use cases.
type QuizService struct {
	technologies TechnologyRepository
	questions    QuestionRepository
	sessions     SessionRepository
	now          func() time.Time
}

func NewQuizService(technologies TechnologyRepository, questions QuestionRepository, sessions SessionRepository) *QuizService {
	return &QuizService{technologies: technologies, questions: questions, sessions: sessions, now: time.Now}
}

// Technologies lists the catalog.
func (s *QuizService) Technologies(ctx context.Context) ([]domain.Technology, error) {
	return s.technologies.Technologies(ctx)
}

// Questions returns the question set for one technology. The technology
// must exist in the catalog.
func (s *QuizService) Questions(ctx context.Context, technology string) ([]domain.Question, error) {
	if _, err := s.technologies.TechnologyByName(ctx, technology); err != nil {
		return nil, err
	}
	return s.questions.QuestionsByTechnology(ctx, technology)
}

// Start opens a tracked session for an authenticated user.
func (s *QuizService) Start(ctx context.Context, user domain.User, technologyID int) (domain.QuizSession, error) {
	tech, err := s.technologies.TechnologyByID(ctx, technologyID)
	if err != nil {
		return domain.QuizSession{}, err
	}
	return s.sessions.CreateSession(ctx, domain.QuizSession{
		UserID:       user.ID,
		TechnologyID: tech.ID,
		Status:       domain.SessionInProgress,
		StartedAt:    s.now().UTC(),
	})
}

// RecordAnswer stores one answer inside an open session owned by the user.
// Correctness is judged server-side against the stored question.
func (s *QuizService) RecordAnswer(ctx context.Context, user domain.User, sessionID, questionID int, userAnswer string, timeSpentSeconds int) (domain.QuizAnswer, error) {
	session, err := s.ownedSession(ctx, user, sessionID)
	if err != nil {
		return domain.QuizAnswer{}, err
	}
	if session.Status != domain.SessionInProgress {
		return domain.QuizAnswer{}, domain.ErrSessionCompleted
	}

	question, err := s.questions.QuestionByID(ctx, questionID)
	if err != nil {
		return domain.QuizAnswer{}, err
	}

	return s.sessions.RecordAnswer(ctx, domain.QuizAnswer{
		QuizSessionID:    session.ID,
		QuestionID:       question.ID,
		UserAnswer:       userAnswer,
		IsCorrect:        userAnswer == question.CorrectAnswer,
		TimeSpentSeconds: timeSpentSeconds,
		AnsweredAt:       s.now().UTC(),
	})
}

// Finish closes an open session and computes its results from the answers
// recorded on the server, not from anything the client claims.
func (s *QuizService) Finish(ctx context.Context, user domain.User, sessionID, timeSpentSeconds int) (domain.FinalResults, error) {
	session, err := s.ownedSession(ctx, user, sessionID)
	if err != nil {
		return domain.FinalResults{}, err
	}
	if session.Status != domain.SessionInProgress {
		return domain.FinalResults{}, domain.ErrSessionCompleted
	}

	answers, err := s.sessions.AnswersBySession(ctx, session.ID)
	if err != nil {
		return domain.FinalResults{}, err
	}

	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	total := len(answers)

	completedAt := s.now().UTC()
	session.Status = domain.SessionCompleted
	session.TotalQuestions = total
	session.CorrectAnswers = correct
	session.ScorePercentage = domain.Score(correct, total)
	session.TimeSpentSeconds = timeSpentSeconds
	session.CompletedAt = &completedAt
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return domain.FinalResults{}, err
	}

	return domain.FinalResults{
		QuizSessionID:    session.ID,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
		ScorePercentage:  session.ScorePercentage,
		TimeSpentSeconds: timeSpentSeconds,
	}, nil
}

// ownedSession loads a session and hides other users' sessions behind
// ErrSessionNotFound.
func (s *QuizService) ownedSession(ctx context.Context, user domain.User, sessionID int) (domain.QuizSession, error) {
	session, err := s.sessions.SessionByID(ctx, sessionID)
	if err != nil {
		return domain.QuizSession{}, err
	}
	if session.UserID != user.ID {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}
