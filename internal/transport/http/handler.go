package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"spark-quiz/internal/app"
	"spark-quiz/internal/domain"
)

// Handler exposes the quiz API over REST.
type Handler struct {
	auth      *app.AuthService
	quiz      *app.QuizService
	dashboard *app.DashboardService
	log       *zap.Logger
}

func NewHandler(auth *app.AuthService, quiz *app.QuizService, dashboard *app.DashboardService, log *zap.Logger) *Handler {
	return &Handler{auth: auth, quiz: quiz, dashboard: dashboard, log: log}
}

// Router builds the route table.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /technologies", h.handleTechnologies)
	mux.HandleFunc("GET /questions/", h.handleQuestions)

	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("GET /auth/me", h.withUser(h.handleMe))
	mux.HandleFunc("GET /auth/validate-token", h.withUser(h.handleValidateToken))

	mux.HandleFunc("POST /quiz/start", h.withUser(h.handleStartQuiz))
	mux.HandleFunc("POST /quiz/answer", h.withUser(h.handleAnswer))
	mux.HandleFunc("POST /quiz/{id}/finish", h.withUser(h.handleFinishQuiz))

	mux.HandleFunc("GET /dashboard/me", h.withUser(h.handleDashboard))
	mux.HandleFunc("GET /dashboard/stats", h.withUser(h.handleStats))
	mux.HandleFunc("GET /dashboard/history", h.withUser(h.handleHistory))
	mux.HandleFunc("GET /dashboard/progress", h.withUser(h.handleProgress))

	return allowCORS(mux)
}

// allowCORS lets the browser frontend call the API from any origin.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withUser resolves the bearer token before running the handler.
func (h *Handler) withUser(next func(http.ResponseWriter, *http.Request, domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := h.auth.Authenticate(r.Context(), token)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, user)
	}
}

func (h *Handler) handleTechnologies(w http.ResponseWriter, r *http.Request) {
	techs, err := h.quiz.Technologies(r.Context())
	if err != nil {
		h.log.Error("list technologies failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, techs)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	technology := r.URL.Query().Get("technology")
	if technology == "" {
		// Also accept the technology as a trailing path segment.
		technology = strings.Trim(strings.TrimPrefix(r.URL.Path, "/questions/"), "/")
	}
	if technology == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Technology is required")
		return
	}

	questions, err := h.quiz.Questions(r.Context(), technology)
	if err != nil {
		writeError(w, err)
		return
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	writeJSON(w, http.StatusOK, questions)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Username, password and email are required")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	h.log.Info("user registered", zap.String("username", user.Username))
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	writeJSON(w, http.StatusOK, user)
}

type validateTokenResponse struct {
	Valid bool        `json:"valid"`
	User  domain.User `json:"user"`
}

func (h *Handler) handleValidateToken(w http.ResponseWriter, r *http.Request, user domain.User) {
	writeJSON(w, http.StatusOK, validateTokenResponse{Valid: true, User: user})
}

type startQuizRequest struct {
	TechnologyID int `json:"technology_id"`
}

func (h *Handler) handleStartQuiz(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req startQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.quiz.Start(r.Context(), user, req.TechnologyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type answerRequest struct {
	QuizSessionID    int    `json:"quiz_session_id"`
	QuestionID       int    `json:"question_id"`
	UserAnswer       string `json:"user_answer"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	answer, err := h.quiz.RecordAnswer(r.Context(), user, req.QuizSessionID, req.QuestionID, req.UserAnswer, req.TimeSpentSeconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type finishQuizRequest struct {
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

func (h *Handler) handleFinishQuiz(w http.ResponseWriter, r *http.Request, user domain.User) {
	sessionID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid session id")
		return
	}
	var req finishQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := h.quiz.Finish(r.Context(), user, sessionID, req.TimeSpentSeconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request, user domain.User) {
	bundle, err := h.dashboard.Dashboard(r.Context(), user)
	if err != nil {
		h.log.Error("dashboard failed", zap.Int("user_id", user.ID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request, user domain.User) {
	stats, err := h.dashboard.Statistics(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request, user domain.User) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid limit")
			return
		}
		limit = parsed
	}

	history, err := h.dashboard.History(r.Context(), user, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if history == nil {
		history = []domain.QuizSessionSummary{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request, user domain.User) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid days")
			return
		}
		days = parsed
	}

	progress, err := h.dashboard.Progress(r.Context(), user, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
