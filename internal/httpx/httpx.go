// Package httpx holds small HTTP helpers shared by the handlers and
// middleware: JSON writers, cookie plumbing, and a status-capturing
// response recorder for the request logger.
package httpx

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, APIError{Error: msg})
}

func SafeErrMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
