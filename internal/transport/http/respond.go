package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spark-quiz/internal/domain"
)

// detailBody is the error envelope every endpoint uses.
type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

// writeError maps domain errors onto HTTP statuses and detail strings.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		writeDetail(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, domain.ErrEmailTaken):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, domain.ErrInactiveUser):
		writeDetail(w, http.StatusBadRequest, "Inactive user")
	case errors.Is(err, domain.ErrTechnologyNotFound):
		writeDetail(w, http.StatusNotFound, "Technology not found")
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeDetail(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, domain.ErrSessionNotFound):
		writeDetail(w, http.StatusNotFound, "Quiz session not found")
	case errors.Is(err, domain.ErrSessionCompleted):
		writeDetail(w, http.StatusBadRequest, "Quiz session already completed")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}
