package memory

import (
	"context"
	"sync"

	"spark-quiz/internal/domain"
)

// Store is an in-memory implementation of every repository the services
// consume. It backs tests and the zero-dependency serve mode.
type Store struct {
	mu           sync.RWMutex
	users        map[int]domain.User
	technologies []domain.Technology
	questions    map[int]domain.Question
	sessions     map[int]domain.QuizSession
	answers      map[int][]domain.QuizAnswer

	nextUserID     int
	nextQuestionID int
	nextSessionID  int
	nextAnswerID   int
}

func NewStore() *Store {
	return &Store{
		users:          make(map[int]domain.User),
		questions:      make(map[int]domain.Question),
		sessions:       make(map[int]domain.QuizSession),
		answers:        make(map[int][]domain.QuizAnswer),
		nextUserID:     1,
		nextQuestionID: 1,
		nextSessionID:  1,
		nextAnswerID:   1,
	}
}

// NewSeededStore returns a store preloaded with the default technology
// catalog and question bank.
func NewSeededStore() *Store {
	s := NewStore()
	s.technologies = append(s.technologies, seedTechnologies()...)
	for _, q := range seedQuestions() {
		q.ID = s.nextQuestionID
		s.nextQuestionID++
		s.questions[q.ID] = q
	}
	return s
}

func (s *Store) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) UserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// UpdateUser replaces a stored account; tests use it to deactivate users.
func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) Technologies(_ context.Context) ([]domain.Technology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Technology, len(s.technologies))
	copy(out, s.technologies)
	return out, nil
}

func (s *Store) TechnologyByID(_ context.Context, id int) (domain.Technology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.technologies {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Technology{}, domain.ErrTechnologyNotFound
}

func (s *Store) TechnologyByName(_ context.Context, name string) (domain.Technology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.technologies {
		if t.Name == name {
			return t, nil
		}
	}
	return domain.Technology{}, domain.ErrTechnologyNotFound
}

func (s *Store) QuestionsByTechnology(_ context.Context, technology string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Question
	for id := 1; id < s.nextQuestionID; id++ {
		if q, ok := s.questions[id]; ok && q.Technology == technology {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *Store) QuestionByID(_ context.Context, id int) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

// AddQuestion inserts a question, assigning its ID.
func (s *Store) AddQuestion(_ context.Context, q domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextQuestionID
	s.nextQuestionID++
	s.questions[q.ID] = q
	return q, nil
}

func (s *Store) CreateSession(_ context.Context, session domain.QuizSession) (domain.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = s.nextSessionID
	s.nextSessionID++
	s.sessions[session.ID] = session
	return session, nil
}

func (s *Store) SessionByID(_ context.Context, id int) (domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) UpdateSession(_ context.Context, session domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *Store) RecordAnswer(_ context.Context, answer domain.QuizAnswer) (domain.QuizAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[answer.QuizSessionID]; !ok {
		return domain.QuizAnswer{}, domain.ErrSessionNotFound
	}
	answer.ID = s.nextAnswerID
	s.nextAnswerID++
	s.answers[answer.QuizSessionID] = append(s.answers[answer.QuizSessionID], answer)
	return answer, nil
}

func (s *Store) AnswersBySession(_ context.Context, sessionID int) ([]domain.QuizAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizAnswer, len(s.answers[sessionID]))
	copy(out, s.answers[sessionID])
	return out, nil
}

func (s *Store) CompletedSessionsByUser(_ context.Context, userID int) ([]domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QuizSession
	for _, session := range s.sessions {
		if session.UserID == userID && session.Status == domain.SessionCompleted {
			out = append(out, session)
		}
	}
	return out, nil
}
