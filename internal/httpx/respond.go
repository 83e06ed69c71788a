// Package httpx renders JSON responses and the API's error taxonomy:
// validation 400, auth 401/403, missing 404, expired share links 410,
// duplicates 409, everything unexpected a generic 500.
package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg} with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Invalid request"
	}
	Error(w, http.StatusBadRequest, msg)
}

func Unauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not authenticated"
	}
	Error(w, http.StatusUnauthorized, msg)
}

func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Access denied"
	}
	Error(w, http.StatusForbidden, msg)
}

func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Resource not found"
	}
	Error(w, http.StatusNotFound, msg)
}

func Gone(w http.ResponseWriter, msg string) {
	Error(w, http.StatusGone, msg)
}

func Conflict(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, msg)
}

// Internal logs the real cause server-side and returns a generic message.
func Internal(w http.ResponseWriter, err error) {
	if err != nil {
		zap.L().Error("internal error", zap.Error(err))
	}
	Error(w, http.StatusInternalServerError, "Internal server error")
}
