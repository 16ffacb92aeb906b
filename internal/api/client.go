// Package api is the typed REST client for the Spark Quiz backend. Every
// call takes a context and decodes into an explicit response schema; nothing
// reads fields optimistically off untyped maps.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spark-quiz/internal/domain"
)

// defaultTimeout bounds every request so a dead backend cannot wedge the
// client in a loading state.
const defaultTimeout = 15 * time.Second

// Error is a non-2xx response from the backend, carrying the detail string
// the API puts in its error bodies.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %s", http.StatusText(e.Status))
}

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (tests, custom transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginRequest is the credential payload for /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the token issuance from /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the account payload for /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AnswerSubmission records one answered question against a remote session.
type AnswerSubmission struct {
	QuizSessionID    int    `json:"quiz_session_id"`
	QuestionID       int    `json:"question_id"`
	UserAnswer       string `json:"user_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type startQuizRequest struct {
	TechnologyID int `json:"technology_id"`
}

type finishQuizRequest struct {
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

type validateTokenResponse struct {
	Valid bool            `json:"valid"`
	User  domain.Identity `json:"user"`
}

// Technologies fetches the technology catalog.
func (c *Client) Technologies(ctx context.Context) ([]domain.Technology, error) {
	var techs []domain.Technology
	if err := c.do(ctx, http.MethodGet, "/technologies", "", nil, &techs); err != nil {
		return nil, err
	}
	return techs, nil
}

// Questions fetches the question set for a technology.
func (c *Client) Questions(ctx context.Context, technology string) ([]domain.Question, error) {
	path := "/questions/?technology=" + url.QueryEscape(technology)
	var questions []domain.Question
	if err := c.do(ctx, http.MethodGet, path, "", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", LoginRequest{Username: username, Password: password}, &resp)
	return resp, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", req, nil)
}

// Me fetches the identity bound to the token.
func (c *Client) Me(ctx context.Context, token string) (domain.Identity, error) {
	var id domain.Identity
	err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &id)
	return id, err
}

// ValidateToken confirms a stored token and returns its identity.
func (c *Client) ValidateToken(ctx context.Context, token string) (domain.Identity, error) {
	var resp validateTokenResponse
	if err := c.do(ctx, http.MethodGet, "/auth/validate-token", token, nil, &resp); err != nil {
		return domain.Identity{}, err
	}
	return resp.User, nil
}

// StartQuiz opens a server-side quiz session for a technology.
func (c *Client) StartQuiz(ctx context.Context, token string, technologyID int) (domain.QuizSession, error) {
	var session domain.QuizSession
	err := c.do(ctx, http.MethodPost, "/quiz/start", token, startQuizRequest{TechnologyID: technologyID}, &session)
	return session, err
}

// SubmitAnswer records an answer against a remote session.
func (c *Client) SubmitAnswer(ctx context.Context, token string, sub AnswerSubmission) error {
	return c.do(ctx, http.MethodPost, "/quiz/answer", token, sub, nil)
}

// FinishQuiz closes a remote session and returns the server-computed results.
func (c *Client) FinishQuiz(ctx context.Context, token string, sessionID, timeSpentSeconds int) (domain.FinalResults, error) {
	var results domain.FinalResults
	path := fmt.Sprintf("/quiz/%d/finish", sessionID)
	err := c.do(ctx, http.MethodPost, path, token, finishQuizRequest{TimeSpentSeconds: timeSpentSeconds}, &results)
	if err == nil {
		results.Saved = true
	}
	return results, err
}

// Dashboard fetches the full aggregate dashboard for the token's user.
func (c *Client) Dashboard(ctx context.Context, token string) (domain.UserDashboard, error) {
	var dash domain.UserDashboard
	err := c.do(ctx, http.MethodGet, "/dashboard/me", token, nil, &dash)
	return dash, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeDetail pulls the "detail" field out of an error body; bodies that
// are not JSON or carry no detail yield the empty string.
func decodeDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
