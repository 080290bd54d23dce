// Package web holds the JSON plumbing shared by every HTTP handler.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lumiere-jewels/storefront/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type ErrorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// WriteError writes {"message": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Message: message})
}

// StatusFor maps an error onto its HTTP status.
func StatusFor(err error) int {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError turns a service error into a JSON response. Server-side
// failures are logged and reported without detail.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := ErrorBody{Message: err.Error()}

	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		body.Fields = ve.Fields
	case status == http.StatusNotFound:
		body.Message = PublicMessage(err, models.ErrNotFound)
	case status == http.StatusUnauthorized:
		body.Message = PublicMessage(err, models.ErrUnauthorized)
	case status == http.StatusForbidden:
		body.Message = PublicMessage(err, models.ErrForbidden)
	case status == http.StatusConflict:
		body.Message = PublicMessage(err, models.ErrConflict)
	case status == http.StatusInternalServerError:
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Message = "internal server error"
	}
	WriteJSON(w, status, body)
}

// PublicMessage renders an error for a client: the trailing sentinel text
// is dropped and the first letter capitalized, so "email already
// registered: conflict" becomes "Email already registered".
func PublicMessage(err, sentinel error) string {
	msg := err.Error()
	if msg != sentinel.Error() {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	if msg == "" {
		return http.StatusText(StatusFor(err))
	}
	if c := msg[0]; c >= 'a' && c <= 'z' {
		msg = string(c-'a'+'A') + msg[1:]
	}
	return msg
}

// DecodeJSON reads a single JSON object from the request body. A malformed
// body becomes a ValidationError on "body".
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return models.NewValidationError("body", describeDecodeError(err))
	}
	return nil
}

// Bind decodes the body and runs struct validation on it.
func Bind(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	return models.Validate(dst)
}

func describeDecodeError(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	default:
		return "invalid JSON body: " + err.Error()
	}
}
