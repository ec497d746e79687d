package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 16 << 10

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	errorType := "internal_error"
	switch status {
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusUnprocessableEntity:
		errorType = "validation_failed"
	case http.StatusServiceUnavailable:
		errorType = "service_unavailable"
	}
	writeJSON(w, status, errorResponse{Error: errorType, Message: message})
}

// decode reads a single JSON document of type T from r.
func decode[T any](r io.Reader) (T, error) {
	var payload T
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, errors.New("request body is empty")
		}
		return payload, fmt.Errorf("invalid JSON body: %w", err)
	}
	return payload, nil
}
