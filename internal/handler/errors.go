package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/smarttrip/tripplanner/internal/domain"
)

// envelope is the body of every /api response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// fieldErrors maps a request field to its problems. Problems that do not
// belong to one field are listed under "_schema".
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) { f[field] = append(f[field], msg) }

const schemaField = "_schema"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: false, Message: message, Data: data})
}

// writeError maps err onto a status code and a generic message. Provider and
// database error text never reaches the client; 5xx causes are logged instead.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeFail(w, http.StatusBadRequest, "Input validation failed.",
			fieldErrors{schemaField: {unwrapMessage(err)}})
	case errors.Is(err, domain.ErrUnauthorized):
		writeFail(w, http.StatusUnauthorized, "Authentication required.", nil)
	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, "Resource not found.", nil)
	case errors.Is(err, domain.ErrConflict):
		writeFail(w, http.StatusConflict, "Resource already exists.", nil)
	case errors.Is(err, domain.ErrConfiguration):
		s.log.ErrorContext(r.Context(), "request failed", "category", "configuration", "error", err)
		writeFail(w, http.StatusInternalServerError, "AI service configuration error.", nil)
	case errors.Is(err, domain.ErrServiceUnavailable):
		s.log.ErrorContext(r.Context(), "request failed", "category", "unavailable", "error", err)
		writeFail(w, http.StatusServiceUnavailable, "AI planning service is currently unavailable.", nil)
	case errors.Is(err, domain.ErrMalformedResponse):
		s.log.ErrorContext(r.Context(), "request failed", "category", "malformed", "error", err)
		writeFail(w, http.StatusBadGateway, "AI planning service returned an unreadable plan.", nil)
	default:
		s.log.ErrorContext(r.Context(), "request failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "An internal error occurred.", nil)
	}
}

// denyUnauthorized is the response for requests rejected by auth.RequireUser.
func (s *Server) denyUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	s.log.DebugContext(r.Context(), "rejected bearer token", "error", err)
	writeFail(w, http.StatusUnauthorized, "Missing or invalid access token.", nil)
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.PlanningService.Plan: validation error: travel_destination is required"
// → "travel_destination is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// errEmptyBody is returned by decodeJSON when the request has no body.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON strictly decodes the request body into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// writeDecodeError reports a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, errEmptyBody):
		writeFail(w, http.StatusBadRequest, "No input data provided.", nil)
	case errors.As(err, &tooLarge):
		writeFail(w, http.StatusRequestEntityTooLarge, "Request body too large.", nil)
	default:
		writeFail(w, http.StatusBadRequest, "Input validation failed.",
			fieldErrors{schemaField: {decodeMessage(err)}})
	}
}

// decodeMessage names the offending field for type errors.
func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + ": expected " + typeErr.Type.String()
	}
	return err.Error()
}
