// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/moneyspace/moneyspace/pkg/errutil"
)

// statusByCode maps domain error codes to HTTP status codes.
// Codes absent from the map are treated as internal errors.
var statusByCode = map[string]int{
	"INVALID_REQUEST":           http.StatusBadRequest,
	"SPACE_INVALID_NAME":        http.StatusBadRequest,
	"SPACE_INVALID_PASSWORD":    http.StatusBadRequest,
	"SPACE_INVALID_CURRENCIES":  http.StatusBadRequest,
	"TX_INVALID_INPUT":          http.StatusBadRequest,
	"CATEGORY_INVALID_TYPE":     http.StatusBadRequest,
	"SPACE_INVALID_CREDENTIALS": http.StatusUnauthorized,
	"GRANT_INVALID":             http.StatusUnauthorized,
	"GRANT_EXPIRED":             http.StatusUnauthorized,
	"SPACE_NOT_FOUND":           http.StatusNotFound,
	"TX_NOT_FOUND":              http.StatusNotFound,
}

// errorBody is the uniform error payload. It carries the stable code and
// a short message, never wrapped causes or context values.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

const internalErrorMessage = "internal server error"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}

// writeError maps a domain error to an HTTP response. 4xx responses carry
// the domain message; 5xx responses are redacted and logged instead.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errutil.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		errutil.LogError(s.logger, "request failed", err)
		msg = internalErrorMessage
	}

	writeJSON(w, status, errorBody{Success: false, Error: msg, Code: code})
}
