package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"spark-quiz/internal/api"
	"spark-quiz/internal/domain"
)

type stubQuizAPI struct {
	technologies []domain.Technology
	techErr      error

	questions   map[string][]domain.Question
	questionErr error

	session  domain.QuizSession
	startErr error

	answerErr   error
	answerCalls []api.AnswerSubmission

	finishResults domain.FinalResults
	finishErr     error
	finishCalls   int
}

func (s *stubQuizAPI) Technologies(ctx context.Context) ([]domain.Technology, error) {
	return s.technologies, s.techErr
}

func (s *stubQuizAPI) Questions(ctx context.Context, technology string) ([]domain.Question, error) {
	if s.questionErr != nil {
		return nil, s.questionErr
	}
	return s.questions[technology], nil
}

func (s *stubQuizAPI) StartQuiz(ctx context.Context, token string, technologyID int) (domain.QuizSession, error) {
	return s.session, s.startErr
}

func (s *stubQuizAPI) SubmitAnswer(ctx context.Context, token string, sub api.AnswerSubmission) error {
	s.answerCalls = append(s.answerCalls, sub)
	return s.answerErr
}

func (s *stubQuizAPI) FinishQuiz(ctx context.Context, token string, sessionID, timeSpentSeconds int) (domain.FinalResults, error) {
	s.finishCalls++
	return s.finishResults, s.finishErr
}

type stubCreds struct {
	token string
	authd bool
}

func (s stubCreds) Credential() (string, bool) { return s.token, s.token != "" }
func (s stubCreds) IsAuthenticated() bool      { return s.authd }

func dockerQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Technology: "docker", QuestionText: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Difficulty: 1},
		{ID: 2, Technology: "docker", QuestionText: "Q2", Options: []string{"c", "d"}, CorrectAnswer: "c", Difficulty: 2},
		{ID: 3, Technology: "docker", QuestionText: "Q3", Options: []string{"e", "f"}, CorrectAnswer: "e", Difficulty: 2},
	}
}

func newTestEngine(stub *stubQuizAPI, creds CredentialSource) *Engine {
	e := NewEngine(stub, creds, zap.NewNop())
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	offset := 0
	e.clock = func() time.Time {
		offset += 10
		return base.Add(time.Duration(offset) * time.Second)
	}
	return e
}

func TestAnonymousAttemptLifecycle(t *testing.T) {
	stub := &stubQuizAPI{questions: map[string][]domain.Question{"docker": dockerQuestions()}}
	e := newTestEngine(stub, stubCreds{})

	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if e.State() != StateInProgress {
		t.Fatalf("expected in_progress, got %v", e.State())
	}

	answers := []string{"a", "d", "e"} // correct, wrong, correct
	for i, option := range answers {
		q, ok := e.CurrentQuestion()
		if !ok || q.ID != i+1 {
			t.Fatalf("unexpected current question at %d: %+v", i, q)
		}
		if err := e.SubmitAnswer(context.Background(), option); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}

	if e.State() != StateCompleted {
		t.Fatalf("expected completed after %d answers, got %v", len(answers), e.State())
	}
	if index, total := e.Progress(); index != total || total != 3 {
		t.Fatalf("index must equal len(questions) at completion, got %d/%d", index, total)
	}
	if len(e.Answers()) != 3 {
		t.Fatalf("expected 3 answer records, got %d", len(e.Answers()))
	}

	results, ok := e.Results()
	if !ok {
		t.Fatalf("expected results")
	}
	if results.CorrectAnswers != 2 || results.TotalQuestions != 3 || results.ScorePercentage != 66.7 {
		t.Fatalf("unexpected local results %+v", results)
	}
	if results.Saved {
		t.Fatalf("anonymous attempt must produce local, unsaved results")
	}
}

func TestAllCorrectAndAllWrongScores(t *testing.T) {
	stub := &stubQuizAPI{questions: map[string][]domain.Question{"docker": dockerQuestions()}}

	e := newTestEngine(stub, stubCreds{})
	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, opt := range []string{"a", "c", "e"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if results, _ := e.Results(); results.ScorePercentage != 100.0 {
		t.Fatalf("all correct should score 100.0, got %v", results.ScorePercentage)
	}

	e = newTestEngine(stub, stubCreds{})
	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, opt := range []string{"b", "d", "f"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if results, _ := e.Results(); results.ScorePercentage != 0.0 {
		t.Fatalf("all wrong should score 0.0, got %v", results.ScorePercentage)
	}
}

func TestFetchFailureReturnsToIdle(t *testing.T) {
	stub := &stubQuizAPI{questionErr: errors.New("backend down")}
	e := newTestEngine(stub, stubCreds{})

	err := e.SelectTechnology(context.Background(), "docker")
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if e.State() != StateIdle {
		t.Fatalf("fetch failure must return to idle, got %v", e.State())
	}
	if _, ok := e.CurrentQuestion(); ok {
		t.Fatalf("no partial attempt may exist after fetch failure")
	}
}

func TestEmptyQuestionSetIsFatal(t *testing.T) {
	stub := &stubQuizAPI{questions: map[string][]domain.Question{}}
	e := newTestEngine(stub, stubCreds{})

	if err := e.SelectTechnology(context.Background(), "docker"); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %v", e.State())
	}
}

func TestRemoteSessionOpenFailureDegradesToLocal(t *testing.T) {
	stub := &stubQuizAPI{
		questions:    map[string][]domain.Question{"docker": dockerQuestions()},
		technologies: []domain.Technology{{ID: 3, Name: "docker"}},
		startErr:     errors.New("network error"),
	}
	e := newTestEngine(stub, stubCreds{token: "tok", authd: true})

	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("remote open failure must not block the attempt: %v", err)
	}
	if _, ok := e.RemoteSession(); ok {
		t.Fatalf("expected no remote session handle")
	}

	for _, opt := range []string{"a", "c", "f"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if e.State() != StateCompleted {
		t.Fatalf("attempt must complete locally, got %v", e.State())
	}
	results, _ := e.Results()
	if results.Saved || results.CorrectAnswers != 2 {
		t.Fatalf("expected local scoring exclusively, got %+v", results)
	}
	if stub.finishCalls != 0 || len(stub.answerCalls) != 0 {
		t.Fatalf("no remote calls without a session handle")
	}
}

func TestAuthenticatedAttemptAdoptsServerResults(t *testing.T) {
	stub := &stubQuizAPI{
		questions:     map[string][]domain.Question{"docker": dockerQuestions()},
		technologies:  []domain.Technology{{ID: 3, Name: "docker"}},
		session:       domain.QuizSession{ID: 42, TechnologyID: 3, Status: domain.SessionInProgress},
		finishResults: domain.FinalResults{QuizSessionID: 42, CorrectAnswers: 2, TotalQuestions: 3, ScorePercentage: 66.7, TimeSpentSeconds: 51},
	}
	e := newTestEngine(stub, stubCreds{token: "tok", authd: true})

	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, ok := e.RemoteSession(); !ok {
		t.Fatalf("expected remote session handle")
	}
	for _, opt := range []string{"a", "d", "e"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	if len(stub.answerCalls) != 3 {
		t.Fatalf("expected 3 synced answers, got %d", len(stub.answerCalls))
	}
	if stub.answerCalls[0].QuizSessionID != 42 {
		t.Fatalf("answers must target the open session, got %+v", stub.answerCalls[0])
	}
	results, _ := e.Results()
	if !results.Saved || results.QuizSessionID != 42 {
		t.Fatalf("expected authoritative server results, got %+v", results)
	}
}

func TestFinishFailureFallsBackToLocalScore(t *testing.T) {
	stub := &stubQuizAPI{
		questions:    map[string][]domain.Question{"docker": dockerQuestions()},
		technologies: []domain.Technology{{ID: 3, Name: "docker"}},
		session:      domain.QuizSession{ID: 42},
		finishErr:    errors.New("timeout"),
	}
	e := newTestEngine(stub, stubCreds{token: "tok", authd: true})

	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, opt := range []string{"a", "c", "e"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	results, _ := e.Results()
	if results.Saved {
		t.Fatalf("finish failure must yield an unsaved local score")
	}
	if results.CorrectAnswers != 3 || results.ScorePercentage != 100.0 {
		t.Fatalf("unexpected local fallback %+v", results)
	}
}

func TestAnswerSyncFailureIsSwallowed(t *testing.T) {
	stub := &stubQuizAPI{
		questions:     map[string][]domain.Question{"docker": dockerQuestions()},
		technologies:  []domain.Technology{{ID: 3, Name: "docker"}},
		session:       domain.QuizSession{ID: 42},
		answerErr:     errors.New("flaky network"),
		finishResults: domain.FinalResults{CorrectAnswers: 0, TotalQuestions: 0},
	}
	e := newTestEngine(stub, stubCreds{token: "tok", authd: true})

	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, opt := range []string{"a", "c", "e"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("answer sync failure must never surface: %v", err)
		}
	}
	if e.State() != StateCompleted {
		t.Fatalf("expected completed, got %v", e.State())
	}
	if len(e.Answers()) != 3 {
		t.Fatalf("local records must accumulate regardless of sync failures")
	}
}

func TestRestartDiscardsEverything(t *testing.T) {
	stub := &stubQuizAPI{
		questions:     map[string][]domain.Question{"docker": dockerQuestions()},
		technologies:  []domain.Technology{{ID: 3, Name: "docker"}},
		session:       domain.QuizSession{ID: 42},
		finishResults: domain.FinalResults{CorrectAnswers: 3, TotalQuestions: 3, ScorePercentage: 100},
	}
	creds := stubCreds{token: "tok", authd: true}
	e := newTestEngine(stub, creds)

	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, opt := range []string{"a", "c", "e"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	// Second attempt opens a fresh remote session; make it distinguishable.
	stub.session = domain.QuizSession{ID: 77}
	if err := e.Restart(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if e.State() != StateInProgress {
		t.Fatalf("expected fresh in-progress attempt, got %v", e.State())
	}
	if index, _ := e.Progress(); index != 0 {
		t.Fatalf("restart must reset the index, got %d", index)
	}
	if len(e.Answers()) != 0 {
		t.Fatalf("restart must clear answers")
	}
	if _, ok := e.Results(); ok {
		t.Fatalf("restart must clear prior results")
	}
	if session, ok := e.RemoteSession(); !ok || session.ID != 77 {
		t.Fatalf("restart must not keep the prior remote handle, got %+v", session)
	}
}

func TestRequestExitPolicy(t *testing.T) {
	stub := &stubQuizAPI{questions: map[string][]domain.Question{"docker": dockerQuestions()}}
	e := newTestEngine(stub, stubCreds{})

	// Nothing to lose before any answer: immediate exit.
	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if e.RequestExit() {
		t.Fatalf("no confirmation needed before the first answer")
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle after exit, got %v", e.State())
	}

	// Mid-attempt progress requires confirmation.
	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := e.SubmitAnswer(context.Background(), "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !e.RequestExit() {
		t.Fatalf("expected confirmation prompt with progress at stake")
	}
	if e.State() != StateInProgress {
		t.Fatalf("attempt must survive until confirmed")
	}
	e.ConfirmExit()
	if e.State() != StateIdle {
		t.Fatalf("expected idle after confirmed exit")
	}

	// A completed attempt has nothing to lose.
	if err := e.SelectTechnology(context.Background(), "docker"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, opt := range []string{"a", "c", "e"} {
		if err := e.SubmitAnswer(context.Background(), opt); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if e.RequestExit() {
		t.Fatalf("completed attempt must exit without confirmation")
	}
}

func TestSubmitOutsideAttemptRejected(t *testing.T) {
	stub := &stubQuizAPI{questions: map[string][]domain.Question{"docker": dockerQuestions()}}
	e := newTestEngine(stub, stubCreds{})

	if err := e.SubmitAnswer(context.Background(), "a"); !errors.Is(err, domain.ErrNoActiveAttempt) {
		t.Fatalf("expected ErrNoActiveAttempt, got %v", err)
	}
}
