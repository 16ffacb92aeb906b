package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when a login succeeds but no credential is
	// issued. A success status without a token is a backend contract
	// violation and must not set partial state.
	ErrMissingToken = errors.New("missing token in login response")
	// ErrNoActiveAttempt is returned when an answer is submitted outside an
	// in-progress attempt.
	ErrNoActiveAttempt = errors.New("no quiz attempt in progress")
	// ErrAttemptInProgress guards against starting a new attempt over a live one.
	ErrAttemptInProgress = errors.New("quiz attempt already in progress")
	// ErrNoQuestions indicates the backend returned an empty question set.
	ErrNoQuestions = errors.New("no questions available for technology")
	// ErrNotAuthenticated is returned by operations that need a confirmed account.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Server-side sentinels.
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username/email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrTechnologyNotFound = errors.New("technology not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrSessionNotFound    = errors.New("quiz session not found")
	ErrSessionCompleted   = errors.New("quiz session already completed")
)

// ValidationError reports a failed client-side field check. It is surfaced
// inline to the user and no network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthRejectedError carries the backend's rejection detail for a login or
// registration attempt. State is left untouched when it is returned.
type AuthRejectedError struct {
	Detail string
}

func (e *AuthRejectedError) Error() string {
	if e.Detail == "" {
		return "invalid credentials"
	}
	return e.Detail
}

// FetchError is the one fatal failure of the quiz engine: without questions
// there is nothing to run.
type FetchError struct {
	Technology string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("loading questions for %q: %v", e.Technology, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
