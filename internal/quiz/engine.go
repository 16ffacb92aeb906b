// Package quiz drives a single quiz attempt: question sequencing, answer
// recording, local scoring, and the optional remote session lifecycle.
package quiz

import (
	"context"
	"time"

	"go.uber.org/zap"

	"spark-quiz/internal/api"
	"spark-quiz/internal/domain"
)

// State of the current attempt.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// API is the slice of the backend the engine needs.
type API interface {
	Technologies(ctx context.Context) ([]domain.Technology, error)
	Questions(ctx context.Context, technology string) ([]domain.Question, error)
	StartQuiz(ctx context.Context, token string, technologyID int) (domain.QuizSession, error)
	SubmitAnswer(ctx context.Context, token string, sub api.AnswerSubmission) error
	FinishQuiz(ctx context.Context, token string, sessionID, timeSpentSeconds int) (domain.FinalResults, error)
}

// CredentialSource exposes the auth state the engine consults before any
// server bookkeeping. Satisfied by *session.Controller.
type CredentialSource interface {
	Credential() (string, bool)
	IsAuthenticated() bool
}

// Engine is the attempt state machine: Idle -> Loading -> InProgress ->
// Completed, with user-confirmed abandonment back to Idle. Server
// bookkeeping (session open, answer sync, finish) is an enhancement, never a
// precondition: every remote call except the question fetch is best-effort.
type Engine struct {
	api   API
	creds CredentialSource
	log   *zap.Logger
	clock func() time.Time

	state      State
	technology string
	questions  []domain.Question
	index      int
	answers    []domain.AnswerRecord
	startedAt  time.Time
	session    *domain.QuizSession
	results    *domain.FinalResults
}

func NewEngine(quizAPI API, creds CredentialSource, log *zap.Logger) *Engine {
	return &Engine{api: quizAPI, creds: creds, log: log, clock: time.Now, state: StateIdle}
}

// SelectTechnology starts a fresh attempt. Question fetch is the one fatal
// path: on failure no partial attempt exists and the engine returns to Idle.
func (e *Engine) SelectTechnology(ctx context.Context, technology string) error {
	if e.state == StateLoading || e.state == StateInProgress {
		return domain.ErrAttemptInProgress
	}

	e.reset()
	e.state = StateLoading
	e.technology = technology
	e.startedAt = e.clock()

	questions, err := e.api.Questions(ctx, technology)
	if err != nil {
		e.state = StateIdle
		return &domain.FetchError{Technology: technology, Err: err}
	}
	if len(questions) == 0 {
		e.state = StateIdle
		return domain.ErrNoQuestions
	}
	e.questions = questions

	if token, ok := e.creds.Credential(); ok && e.creds.IsAuthenticated() {
		if err := e.openRemoteSession(ctx, token, technology); err != nil {
			e.log.Warn("remote session unavailable, continuing in local-only mode",
				zap.String("technology", technology), zap.Error(err))
		}
	}

	e.state = StateInProgress
	return nil
}

// openRemoteSession resolves the technology name to its catalog id and opens
// a server-side session for it.
func (e *Engine) openRemoteSession(ctx context.Context, token, technology string) error {
	techs, err := e.api.Technologies(ctx)
	if err != nil {
		return err
	}
	var techID int
	found := false
	for _, tech := range techs {
		if tech.Name == technology {
			techID = tech.ID
			found = true
			break
		}
	}
	if !found {
		return domain.ErrTechnologyNotFound
	}

	session, err := e.api.StartQuiz(ctx, token, techID)
	if err != nil {
		return err
	}
	e.session = &session
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
func (e *Engine) CurrentQuestion() (domain.Question, bool) {
	if e.state != StateInProgress || e.index >= len(e.questions) {
		return domain.Question{}, false
	}
	return e.questions[e.index], true
}

// SubmitAnswer records the selected option for the current question and
// advances the attempt, finishing it after the last question.
func (e *Engine) SubmitAnswer(ctx context.Context, selectedOption string) error {
	if e.state != StateInProgress || e.index >= len(e.questions) {
		return domain.ErrNoActiveAttempt
	}

	question := e.questions[e.index]
	record := domain.AnswerRecord{
		QuestionID:    question.ID,
		UserAnswer:    selectedOption,
		CorrectAnswer: question.CorrectAnswer,
		IsCorrect:     selectedOption == question.CorrectAnswer,
	}
	e.answers = append(e.answers, record)

	e.syncAnswer(ctx, record)

	e.index++
	if e.index < len(e.questions) {
		return nil
	}
	e.finish(ctx)
	return nil
}

// syncAnswer mirrors the answer into the remote session, best-effort.
func (e *Engine) syncAnswer(ctx context.Context, record domain.AnswerRecord) {
	if e.session == nil {
		return
	}
	token, ok := e.creds.Credential()
	if !ok {
		return
	}
	err := e.api.SubmitAnswer(ctx, token, api.AnswerSubmission{
		QuizSessionID:    e.session.ID,
		QuestionID:       record.QuestionID,
		UserAnswer:       record.UserAnswer,
		TimeSpentSeconds: e.elapsedSeconds(),
	})
	if err != nil {
		e.log.Warn("answer sync failed, keeping local record",
			zap.Int("question_id", record.QuestionID), zap.Error(err))
	}
}

// finish closes the attempt. Server-computed results are authoritative when
// a remote session exists and the finish call succeeds; otherwise results
// come from the local computation, marked unsaved.
func (e *Engine) finish(ctx context.Context) {
	elapsed := e.elapsedSeconds()

	if e.session != nil {
		if token, ok := e.creds.Credential(); ok {
			results, err := e.api.FinishQuiz(ctx, token, e.session.ID, elapsed)
			if err == nil {
				results.Saved = true
				e.results = &results
			} else {
				e.log.Warn("finish call failed, falling back to local score",
					zap.Int("session_id", e.session.ID), zap.Error(err))
			}
		}
	}
	if e.results == nil {
		local := domain.LocalResults(e.answers, len(e.questions), elapsed)
		e.results = &local
	}
	e.state = StateCompleted
}

// Restart discards the attempt entirely and reruns selection for the same
// technology; answers and any remote handle do not carry over.
func (e *Engine) Restart(ctx context.Context) error {
	if e.technology == "" {
		return domain.ErrNoActiveAttempt
	}
	technology := e.technology
	e.reset()
	return e.SelectTechnology(ctx, technology)
}

// RequestExit asks to abandon the attempt. It returns true when there is
// in-progress work to lose and the caller must confirm via ConfirmExit;
// otherwise the attempt is discarded immediately.
func (e *Engine) RequestExit() (confirmationRequired bool) {
	if e.state == StateInProgress && e.index > 0 {
		return true
	}
	e.reset()
	return false
}

// ConfirmExit abandons the attempt after the user confirmed.
func (e *Engine) ConfirmExit() { e.reset() }

func (e *Engine) reset() {
	e.state = StateIdle
	e.questions = nil
	e.index = 0
	e.answers = nil
	e.session = nil
	e.results = nil
}

func (e *Engine) elapsedSeconds() int {
	return int(e.clock().Sub(e.startedAt).Seconds())
}

// State reports the attempt state.
func (e *Engine) State() State { return e.state }

// Technology reports the selected technology name.
func (e *Engine) Technology() string { return e.technology }

// Progress reports the zero-based index of the current question and the
// total question count.
func (e *Engine) Progress() (index, total int) { return e.index, len(e.questions) }

// Answers returns the recorded answers so far.
func (e *Engine) Answers() []domain.AnswerRecord { return e.answers }

// RemoteSession reports the remote session handle, if one was opened.
func (e *Engine) RemoteSession() (domain.QuizSession, bool) {
	if e.session == nil {
		return domain.QuizSession{}, false
	}
	return *e.session, true
}

// Results returns the final results once the attempt is completed.
func (e *Engine) Results() (domain.FinalResults, bool) {
	if e.results == nil {
		return domain.FinalResults{}, false
	}
	return *e.results, true
}
