package memory

import (
	"context"
	"testing"
	"time"

	"spark-quiz/internal/domain"
)

func TestSeededCatalog(t *testing.T) {
	store := NewSeededStore()
	ctx := context.Background()

	techs, err := store.Technologies(ctx)
	if err != nil {
		t.Fatalf("technologies: %v", err)
	}
	if len(techs) != 3 {
		t.Fatalf("expected 3 seeded technologies, got %d", len(techs))
	}

	docker, err := store.TechnologyByName(ctx, "docker")
	if err != nil {
		t.Fatalf("lookup docker: %v", err)
	}
	if docker.DisplayName != "Docker" {
		t.Fatalf("unexpected display name %q", docker.DisplayName)
	}

	questions, err := store.QuestionsByTechnology(ctx, "spark")
	if err != nil {
		t.Fatalf("spark questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 spark questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.CorrectAnswer == "" || len(q.Options) == 0 {
			t.Fatalf("seeded question %d incomplete: %+v", q.ID, q)
		}
	}

	if _, err := store.TechnologyByName(ctx, "kafka"); err != domain.ErrTechnologyNotFound {
		t.Fatalf("expected ErrTechnologyNotFound, got %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.CreateUser(ctx, domain.User{Username: "alice", Email: "alice@example.com", IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	if _, err := store.UserByUsername(ctx, "alice"); err != nil {
		t.Fatalf("by username: %v", err)
	}
	if _, err := store.UserByEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("by email: %v", err)
	}
	if _, err := store.UserByUsername(ctx, "bob"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAnswerRequiresSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.RecordAnswer(ctx, domain.QuizAnswer{QuizSessionID: 99, QuestionID: 1})
	if err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	session, err := store.CreateSession(ctx, domain.QuizSession{UserID: 1, TechnologyID: 1, Status: domain.SessionInProgress, StartedAt: time.Now()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := store.RecordAnswer(ctx, domain.QuizAnswer{QuizSessionID: session.ID, QuestionID: 1, UserAnswer: "a", IsCorrect: true}); err != nil {
		t.Fatalf("record: %v", err)
	}

	answers, err := store.AnswersBySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != 1 || answers[0].ID == 0 {
		t.Fatalf("unexpected answers %+v", answers)
	}
}

func TestCompletedSessionsFilter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	open, _ := store.CreateSession(ctx, domain.QuizSession{UserID: 1, Status: domain.SessionInProgress})
	done, _ := store.CreateSession(ctx, domain.QuizSession{UserID: 1, Status: domain.SessionInProgress})
	_, _ = store.CreateSession(ctx, domain.QuizSession{UserID: 2, Status: domain.SessionCompleted})

	done.Status = domain.SessionCompleted
	if err := store.UpdateSession(ctx, done); err != nil {
		t.Fatalf("update: %v", err)
	}

	completed, err := store.CompletedSessionsByUser(ctx, 1)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != done.ID {
		t.Fatalf("expected only session %d, got %+v", done.ID, completed)
	}
	_ = open
}
